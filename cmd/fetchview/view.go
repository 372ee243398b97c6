package main

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-go/fetchview/internal/errors"
	"github.com/vango-go/fetchview/pkg/features/resource"
	"github.com/vango-go/fetchview/pkg/fetch"
	"github.com/vango-go/fetchview/pkg/render"
)

// viewFlags are shared by the one-shot view commands.
type viewFlags struct {
	html    bool
	timeout time.Duration
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.html, "html", false, "Print the rendered HTML instead of a summary")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "How long to wait for the view to settle (default twice the HTTP timeout)")
}

// settle activates view with req and waits for the attempt to finish. The
// view is closed before settle returns. A view that ends in Failed yields an
// E301 error carrying the user-facing message.
func settle[T any](ctx context.Context, view *resource.View[T], req fetch.Request, timeout time.Duration) (resource.ViewState[T], error) {
	defer view.Close()

	if err := view.Activate(ctx, req); err != nil && !isInvalid(err) {
		return view.State(), err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-view.Resource().Done():
	case <-ctx.Done():
		return view.State(), ctx.Err()
	case <-timer.C:
		return view.State(), errors.New("E302").
			WithDetail("No response within " + timeout.String())
	}

	vs := view.State()
	if vs.State() == resource.Failed {
		return vs, errors.New("E301").
			WithDetail(fetch.UserMessage(vs.Err())).
			Wrap(vs.Err())
	}
	return vs, nil
}

// isInvalid reports whether err is a request validation failure. Those are
// reflected in the view's Failed state rather than returned directly.
func isInvalid(err error) bool {
	return fetch.Kind(err) == "invalid_request"
}

func writeHTML[T any](w io.Writer, view *resource.View[T]) error {
	r := render.NewRenderer(render.RendererConfig{})
	if err := r.RenderToWriter(w, view.Render()); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
