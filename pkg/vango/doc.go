// Package vango provides the reactive core used by fetchview views.
//
// # Core Types
//
// Signal[T] is a reactive value container:
//
//	state := NewSignal(0)
//	value := state.Get()
//	state.Set(5)          // notifies subscribers
//	state.Update(func(n int) int { return n + 1 })
//
// Listeners subscribe explicitly and are notified once per actual change.
// Setting a value equal to the current one notifies nobody:
//
//	unsub := state.Subscribe(ListenerFunc(func() { rerender() }))
//	defer unsub()
//
// Owner is a disposal scope. A view instance owns one; disposing it runs
// cleanups in reverse registration order. A child owner is one of its
// parent's cleanups:
//
//	owner := NewOwner(nil)
//	owner.OnCleanup(unsub)
//	owner.Dispose()
//
// # Thread Safety
//
// All types are safe for concurrent use. Notifications are delivered outside
// of the signal's locks, on the goroutine that performed the write.
package vango
