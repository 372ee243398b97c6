package vango

import "sync"

// Owner is the disposal scope of one view instance. Dispose runs the
// registered cleanups in reverse order, exactly once.
type Owner struct {
	id uint64

	mu       sync.Mutex
	cleanups []func()
	disposed bool
}

// NewOwner creates an Owner. A non-nil parent disposes the new Owner when
// the parent itself is disposed.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{id: nextID()}
	if parent != nil {
		parent.OnCleanup(o.Dispose)
	}
	return o
}

// ID returns the Owner's unique identifier.
func (o *Owner) ID() uint64 { return o.id }

// IsDisposed reports whether Dispose has run.
func (o *Owner) IsDisposed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.disposed
}

// OnCleanup registers fn to run on Dispose. On a disposed Owner fn runs
// immediately.
func (o *Owner) OnCleanup(fn func()) {
	if fn == nil {
		return
	}
	o.mu.Lock()
	if o.disposed {
		o.mu.Unlock()
		fn()
		return
	}
	o.cleanups = append(o.cleanups, fn)
	o.mu.Unlock()
}

// Dispose runs the cleanups, last registered first. Later calls do nothing.
func (o *Owner) Dispose() {
	o.mu.Lock()
	if o.disposed {
		o.mu.Unlock()
		return
	}
	o.disposed = true
	cleanups := o.cleanups
	o.cleanups = nil
	o.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}
