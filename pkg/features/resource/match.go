package resource

import (
	"github.com/vango-go/fetchview/pkg/vdom"
)

// Handler renders one variant of a ViewState.
type Handler[T any] interface {
	handle(vs ViewState[T]) (*vdom.VNode, bool)
}

// Match renders vs with the first handler registered for its variant.
// It returns nil when no handler matches.
func Match[T any](vs ViewState[T], handlers ...Handler[T]) *vdom.VNode {
	for _, h := range handlers {
		if node, ok := h.handle(vs); ok {
			return node
		}
	}
	return nil
}

// Match renders the resource's current state.
func (r *Resource[T]) Match(handlers ...Handler[T]) *vdom.VNode {
	return Match(r.State(), handlers...)
}

type loadingHandler[T any] struct {
	fn func() *vdom.VNode
}

func (h loadingHandler[T]) handle(vs ViewState[T]) (*vdom.VNode, bool) {
	if vs.State() != Loading {
		return nil, false
	}
	return h.fn(), true
}

type failedHandler[T any] struct {
	fn func(error) *vdom.VNode
}

func (h failedHandler[T]) handle(vs ViewState[T]) (*vdom.VNode, bool) {
	if vs.State() != Failed {
		return nil, false
	}
	return h.fn(vs.Err()), true
}

type readyHandler[T any] struct {
	fn func(T) *vdom.VNode
}

func (h readyHandler[T]) handle(vs ViewState[T]) (*vdom.VNode, bool) {
	data, ok := vs.Data()
	if !ok {
		return nil, false
	}
	return h.fn(data), true
}

// OnLoading handles the Loading state.
func OnLoading[T any](fn func() *vdom.VNode) Handler[T] {
	return loadingHandler[T]{fn: fn}
}

// OnFailed handles the Failed state. fn receives the failure cause; use
// fetch.UserMessage to obtain the text shown to the user.
func OnFailed[T any](fn func(error) *vdom.VNode) Handler[T] {
	return failedHandler[T]{fn: fn}
}

// OnReady handles the Ready state.
func OnReady[T any](fn func(T) *vdom.VNode) Handler[T] {
	return readyHandler[T]{fn: fn}
}
