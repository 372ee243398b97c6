package vango

// Listener is anything that can be notified when a dependency changes.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies has changed.
	// For views, this triggers a re-render.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication of subscriptions.
	ID() uint64
}

// ListenerFunc adapts a plain function to the Listener interface.
// Each call to ListenerFunc yields a listener with a fresh ID.
func ListenerFunc(fn func()) Listener {
	return &funcListener{id: nextID(), fn: fn}
}

type funcListener struct {
	id uint64
	fn func()
}

func (l *funcListener) MarkDirty() { l.fn() }
func (l *funcListener) ID() uint64 { return l.id }
