package vango

import (
	"sync"
	"sync/atomic"
	"testing"
)

type testListener struct {
	id    uint64
	dirty atomic.Int32
}

func newTestListener() *testListener {
	return &testListener{id: nextID()}
}

func (l *testListener) MarkDirty()         { l.dirty.Add(1) }
func (l *testListener) ID() uint64         { return l.id }
func (l *testListener) getDirtyCount() int { return int(l.dirty.Load()) }

func TestSignalBasic(t *testing.T) {
	count := NewSignal(0)

	if count.Get() != 0 {
		t.Errorf("expected initial value 0, got %d", count.Get())
	}

	count.Set(5)
	if count.Get() != 5 {
		t.Errorf("expected value 5, got %d", count.Get())
	}

	count.Update(func(n int) int { return n * 2 })
	if count.Peek() != 10 {
		t.Errorf("expected value 10, got %d", count.Peek())
	}
}

func TestSignalSubscription(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()
	unsub := count.Subscribe(listener)

	if !count.Set(1) {
		t.Error("Set should report a change")
	}
	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.getDirtyCount())
	}

	unsub()
	count.Set(2)
	if listener.getDirtyCount() != 1 {
		t.Errorf("unsubscribed listener notified, got %d", listener.getDirtyCount())
	}
}

func TestSignalNoNotifyOnEqual(t *testing.T) {
	name := NewSignal("a")
	listener := newTestListener()
	name.Subscribe(listener)

	if name.Set("a") {
		t.Error("Set with equal value should report no change")
	}
	if listener.getDirtyCount() != 0 {
		t.Errorf("expected no notification, got %d", listener.getDirtyCount())
	}
}

func TestSignalSubscribeDeduplicates(t *testing.T) {
	s := NewSignal(0)
	listener := newTestListener()
	s.Subscribe(listener)
	s.Subscribe(listener)

	if s.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", s.SubscriberCount())
	}
	s.Set(1)
	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.getDirtyCount())
	}
}

func TestSignalStructEquality(t *testing.T) {
	type pair struct {
		A string
		B []int
	}
	s := NewSignal(pair{A: "x", B: []int{1}})
	listener := newTestListener()
	s.Subscribe(listener)

	s.Set(pair{A: "x", B: []int{1}})
	if listener.getDirtyCount() != 0 {
		t.Error("deep-equal struct should not notify")
	}
	s.Set(pair{A: "x", B: []int{2}})
	if listener.getDirtyCount() != 1 {
		t.Error("changed struct should notify")
	}
}

func TestSignalWithEquals(t *testing.T) {
	s := NewSignal(1).WithEquals(func(a, b int) bool { return a%2 == b%2 })
	listener := newTestListener()
	s.Subscribe(listener)

	s.Set(3)
	if listener.getDirtyCount() != 0 {
		t.Error("custom equality should suppress notification")
	}
	s.Set(4)
	if listener.getDirtyCount() != 1 {
		t.Error("custom equality should allow notification")
	}
}

func TestListenerFuncUnsubscribeDuringNotify(t *testing.T) {
	s := NewSignal(0)
	calls := 0
	var unsub func()
	unsub = s.Subscribe(ListenerFunc(func() {
		calls++
		unsub()
	}))

	s.Set(1)
	s.Set(2)
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestSignalConcurrentAccess(t *testing.T) {
	s := NewSignal(0)
	listener := newTestListener()
	s.Subscribe(listener)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(func(n int) int { return n + 1 })
		}()
	}
	wg.Wait()

	if s.Get() != 100 {
		t.Errorf("expected 100, got %d", s.Get())
	}
	if listener.getDirtyCount() != 100 {
		t.Errorf("expected 100 notifications, got %d", listener.getDirtyCount())
	}
}
