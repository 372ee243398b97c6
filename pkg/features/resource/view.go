package resource

import (
	"context"

	"github.com/vango-go/fetchview/pkg/fetch"
	"github.com/vango-go/fetchview/pkg/vango"
	"github.com/vango-go/fetchview/pkg/vdom"
)

// RenderFunc receives the node rendered for a new state.
type RenderFunc func(state State, node *vdom.VNode)

// View pairs a Resource with the handlers that render each of its states.
// A View owns an Owner scope; Close deactivates the resource and removes
// every render sink.
type View[T any] struct {
	res      *Resource[T]
	handlers []Handler[T]
	owner    *vango.Owner
}

// NewView creates a view over res. Handlers are tried in order; Loading and
// Failed fall back to a generic rendering when no handler matches them.
func NewView[T any](res *Resource[T], handlers ...Handler[T]) *View[T] {
	all := make([]Handler[T], 0, len(handlers)+2)
	all = append(all, handlers...)
	all = append(all, OnLoading[T](defaultLoading), OnFailed[T](defaultFailed))

	v := &View[T]{
		res:      res,
		handlers: all,
		owner:    vango.NewOwner(nil),
	}
	v.owner.OnCleanup(res.Deactivate)
	return v
}

func defaultLoading() *vdom.VNode {
	return vdom.Div(vdom.Class("loading"), vdom.AriaBusy(true), vdom.Text("Loading..."))
}

func defaultFailed(err error) *vdom.VNode {
	return vdom.Div(vdom.Class("error"), vdom.Role("alert"), vdom.Text(fetch.UserMessage(err)))
}

// Resource returns the underlying resource.
func (v *View[T]) Resource() *Resource[T] { return v.res }

// Owner returns the view's disposal scope.
func (v *View[T]) Owner() *vango.Owner { return v.owner }

// State returns the current view state.
func (v *View[T]) State() ViewState[T] { return v.res.State() }

// Render returns the tree for the current state. It has no side effects, so
// repeated calls without a transition produce identical trees.
func (v *View[T]) Render() *vdom.VNode {
	return v.RenderState(v.res.State())
}

// RenderState renders vs with the view's handlers.
func (v *View[T]) RenderState(vs ViewState[T]) *vdom.VNode {
	if node := Match(vs, v.handlers...); node != nil {
		return node
	}
	return vdom.Fragment()
}

// OnRender registers fn to receive a fresh render after every state
// transition. fn runs while the transition is being applied and must not
// call Activate, Retry, Deactivate or Close. The returned function removes
// the sink.
func (v *View[T]) OnRender(fn RenderFunc) func() {
	unsub := v.res.Subscribe(vango.ListenerFunc(func() {
		vs := v.res.State()
		fn(vs.State(), v.RenderState(vs))
	}))
	v.owner.OnCleanup(unsub)
	return unsub
}

// Activate activates the underlying resource with req.
func (v *View[T]) Activate(ctx context.Context, req fetch.Request) error {
	return v.res.Activate(ctx, req)
}

// Retry re-issues the last request after a failure.
func (v *View[T]) Retry(ctx context.Context) error {
	return v.res.Retry(ctx)
}

// Deactivate deactivates the underlying resource. The view may be
// activated again afterwards.
func (v *View[T]) Deactivate() {
	v.res.Deactivate()
}

// Close deactivates the view and disposes its owner. A closed view emits no
// further renders.
func (v *View[T]) Close() {
	v.owner.Dispose()
}
