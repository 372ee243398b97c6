package resource

import "github.com/vango-go/fetchview/pkg/fetch"

// State is the discriminator of a ViewState.
type State int

const (
	Loading State = iota // Request pending
	Failed               // Request failed; carries an error
	Ready                // Data loaded; carries the payload
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Failed:
		return "failed"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// ViewState is the tagged union driving what a view displays.
// Exactly one variant is active; the zero value is Loading.
type ViewState[T any] struct {
	state State
	data  T
	err   error
}

// LoadingState returns the Loading variant.
func LoadingState[T any]() ViewState[T] {
	return ViewState[T]{state: Loading}
}

// FailedState returns the Failed variant carrying err.
func FailedState[T any](err error) ViewState[T] {
	return ViewState[T]{state: Failed, err: err}
}

// ReadyState returns the Ready variant carrying data.
func ReadyState[T any](data T) ViewState[T] {
	return ViewState[T]{state: Ready, data: data}
}

// State returns the active variant.
func (v ViewState[T]) State() State { return v.state }

// Data returns the payload and true when the state is Ready.
func (v ViewState[T]) Data() (T, bool) {
	if v.state != Ready {
		var zero T
		return zero, false
	}
	return v.data, true
}

// Err returns the failure cause when the state is Failed, nil otherwise.
func (v ViewState[T]) Err() error {
	if v.state != Failed {
		return nil
	}
	return v.err
}

// Message returns the user-visible failure text, or "" unless Failed.
func (v ViewState[T]) Message() string {
	if v.state != Failed {
		return ""
	}
	return fetch.UserMessage(v.err)
}

// sameState reports whether a and b are indistinguishable for rendering
// purposes. Only Loading carries no payload, so any other write is a change.
func sameState[T any](a, b ViewState[T]) bool {
	return a.state == Loading && b.state == Loading
}
