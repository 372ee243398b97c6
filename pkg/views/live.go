package views

import (
	"context"

	"github.com/vango-go/fetchview/pkg/features/resource"
	"github.com/vango-go/fetchview/pkg/fetch"
	"github.com/vango-go/fetchview/pkg/vdom"
)

// Live is a view that a host can start, stream and tear down without
// knowing its payload type.
type Live interface {
	// Name identifies the view kind in frames and metrics.
	Name() string
	// State names the current state.
	State() string
	// Render returns the tree for the current state.
	Render() *vdom.VNode
	// OnRender registers a sink called after every transition.
	OnRender(fn func(state string, node *vdom.VNode)) func()
	// Start activates the view.
	Start(ctx context.Context) error
	// Done is closed once the view has settled.
	Done() <-chan struct{}
	// Close releases the view.
	Close()
}

// LiveResource adapts a resource view bound to req.
func LiveResource[T any](view *resource.View[T], req fetch.Request) Live {
	return &liveResource[T]{view: view, req: req}
}

type liveResource[T any] struct {
	view *resource.View[T]
	req  fetch.Request
}

func (l *liveResource[T]) Name() string                    { return l.view.Resource().Name() }
func (l *liveResource[T]) State() string                   { return l.view.State().State().String() }
func (l *liveResource[T]) Render() *vdom.VNode             { return l.view.Render() }
func (l *liveResource[T]) Start(ctx context.Context) error { return l.view.Activate(ctx, l.req) }
func (l *liveResource[T]) Done() <-chan struct{}           { return l.view.Resource().Done() }
func (l *liveResource[T]) Close()                          { l.view.Close() }

func (l *liveResource[T]) OnRender(fn func(string, *vdom.VNode)) func() {
	return l.view.OnRender(func(s resource.State, node *vdom.VNode) {
		fn(s.String(), node)
	})
}

// LiveTimer adapts a timer view.
func LiveTimer(t *TimerView) Live {
	return liveTimer{t}
}

type liveTimer struct {
	*TimerView
}

func (liveTimer) Name() string { return "timer" }

func (l liveTimer) State() string {
	if m := l.counter.Max(); m > 0 && l.Count() >= m {
		return "finished"
	}
	return "running"
}

func (l liveTimer) OnRender(fn func(string, *vdom.VNode)) func() {
	return l.TimerView.OnRender(func(node *vdom.VNode) {
		fn(l.State(), node)
	})
}
