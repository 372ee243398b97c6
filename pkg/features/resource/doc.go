// Package resource implements the asynchronous-fetch-to-render lifecycle.
//
// A Resource owns a tri-state ViewState (Loading, Failed, Ready) held in a
// single reactive signal, so a transition always replaces the previous state
// as a whole. Each activation issues exactly one fetch:
//
//	res := resource.New(fetch.JSON[Profile](client), resource.WithName("profile"))
//	if err := res.Activate(ctx, req); err != nil {
//	    // invalid request: already Failed, nothing was sent
//	}
//	defer res.Deactivate()
//
// A View pairs a Resource with render handlers. Render is a pure function of
// the current state:
//
//	view := resource.NewView(res,
//	    resource.OnLoading[Profile](func() *vdom.VNode { return H1("Loading...") }),
//	    resource.OnFailed[Profile](func(err error) *vdom.VNode { return Div(fetch.UserMessage(err)) }),
//	    resource.OnReady(func(p Profile) *vdom.VNode { return H1(p.Name) }),
//	)
//
// # Cancellation
//
// Deactivate cancels the in-flight request and advances the generation
// counter. A completion that arrives afterwards is discarded: it neither
// mutates state nor triggers a render.
//
// # Render sinks
//
// Sinks registered with View.OnRender run synchronously, once per transition,
// while the resource's transition lock is held. They must not call Activate,
// Retry or Deactivate on the same resource.
package resource
