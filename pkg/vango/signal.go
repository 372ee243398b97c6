package vango

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// ids numbers signals, listeners and owners. IDs are never reused.
var ids atomic.Uint64

func nextID() uint64 { return ids.Add(1) }

// Signal is a reactive value container.
// Subscribers are notified exactly once for every write that changes the
// value according to the signal's equality function.
type Signal[T any] struct {
	id uint64

	// value is the current signal value.
	value T

	// mu protects the value.
	mu sync.RWMutex

	// subs are the listeners subscribed to this signal.
	subs []Listener

	// subMu protects the subs slice.
	subMu sync.RWMutex

	// equal is the equality function used to determine if the value changed.
	// If nil, uses default equality checking.
	equal func(T, T) bool
}

// NewSignal creates a new signal with the given initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		id:    nextID(),
		value: initial,
	}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Peek returns the current value. It is kept alongside Get so call sites can
// state that a read is not expected to drive a re-render.
func (s *Signal[T]) Peek() T {
	return s.Get()
}

// Set updates the signal's value and notifies subscribers if the value changed.
// It reports whether subscribers were notified.
func (s *Signal[T]) Set(value T) bool {
	s.mu.Lock()
	changed := !s.equals(s.value, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()

	if changed {
		s.notifySubscribers()
	}
	return changed
}

// Update atomically reads and updates the signal's value.
// The function receives the current value and returns the new value.
func (s *Signal[T]) Update(fn func(T) T) bool {
	s.mu.Lock()
	oldValue := s.value
	newValue := fn(oldValue)
	changed := !s.equals(oldValue, newValue)
	if changed {
		s.value = newValue
	}
	s.mu.Unlock()

	if changed {
		s.notifySubscribers()
	}
	return changed
}

// WithEquals returns the signal configured with a custom equality function.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.id
}

// Subscribe adds l to the signal's subscribers and returns a function that
// removes it. Subscribing the same listener twice is a no-op.
func (s *Signal[T]) Subscribe(l Listener) func() {
	if l == nil {
		return func() {}
	}

	s.subMu.Lock()
	lid := l.ID()
	dup := false
	for _, existing := range s.subs {
		if existing.ID() == lid {
			dup = true
			break
		}
	}
	if !dup {
		s.subs = append(s.subs, l)
	}
	s.subMu.Unlock()

	return func() { s.unsubscribe(l) }
}

// SubscriberCount returns the number of current subscribers.
func (s *Signal[T]) SubscriberCount() int {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	return len(s.subs)
}

func (s *Signal[T]) unsubscribe(l Listener) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for i, existing := range s.subs {
		if existing.ID() == lid {
			// Order doesn't matter; swap with last.
			s.subs[i] = s.subs[len(s.subs)-1]
			s.subs = s.subs[:len(s.subs)-1]
			return
		}
	}
}

// notifySubscribers copies the subscriber list before notifying so that
// listeners may unsubscribe from within MarkDirty.
func (s *Signal[T]) notifySubscribers() {
	s.subMu.RLock()
	subs := make([]Listener, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	for _, sub := range subs {
		sub.MarkDirty()
	}
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals uses == for common comparable types and reflect.DeepEqual
// for everything else.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int64:
		return av == any(b).(int64)
	case uint64:
		return av == any(b).(uint64)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		return reflect.DeepEqual(a, b)
	}
}
