package resource

import "log/slog"

// Option configures a Resource.
type Option func(*config)

type config struct {
	name      string
	logger    *slog.Logger
	observer  Observer
	onSuccess []any
	onFailure []func(error)
}

// WithName sets the resource name used in logs and metrics.
func WithName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
	}
}

// WithLogger sets the logger that receives failure diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver sets the observer notified of lifecycle events.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observer = o
		}
	}
}

// OnSuccess registers a callback run after a transition to Ready.
// The callback runs outside the transition lock and receives the payload
// unchanged, nil included. New panics if T does not match the resource's
// payload type.
func OnSuccess[T any](fn func(T)) Option {
	return func(c *config) {
		c.onSuccess = append(c.onSuccess, fn)
	}
}

// OnFailure registers a callback run after a transition to Failed.
func OnFailure(fn func(error)) Option {
	return func(c *config) {
		c.onFailure = append(c.onFailure, fn)
	}
}

// Observer receives resource lifecycle events.
type Observer interface {
	// Activated is called when a view is activated.
	Activated(name string)
	// Deactivated is called when an active view is deactivated.
	Deactivated(name string)
	// Transitioned is called after every state transition.
	Transitioned(name string, from, to State)
	// Discarded is called when a late completion is dropped.
	Discarded(name string)
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) Activated(string)                  {}
func (NopObserver) Deactivated(string)                {}
func (NopObserver) Transitioned(string, State, State) {}
func (NopObserver) Discarded(string)                  {}
