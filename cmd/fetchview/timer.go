package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-go/fetchview/internal/config"
	"github.com/vango-go/fetchview/pkg/render"
	"github.com/vango-go/fetchview/pkg/vdom"
	"github.com/vango-go/fetchview/pkg/views"
)

func timerCmd(c *cli) *cobra.Command {
	var (
		every time.Duration
		max   int
		html  bool
	)

	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Print a render counter that advances on its own",
		Long: `Start a view that re-renders itself once per interval and print each
render until it reaches its maximum or is interrupted.

Examples:
  fetchview timer
  fetchview timer --every=500ms --max=20
  fetchview timer --max=0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := c.settings()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("every") {
				settings.Timer.Interval = config.Duration(every)
			}
			if cmd.Flags().Changed("max") {
				settings.Timer.Max = max
			}
			app, err := c.app(cmd, settings)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runTimer(ctx, cmd, app.TimerView(), html)
		},
	}

	cmd.Flags().DurationVar(&every, "every", time.Second, "Time between renders")
	cmd.Flags().IntVar(&max, "max", 10, "Stop after this many renders (0 runs until interrupted)")
	cmd.Flags().BoolVar(&html, "html", false, "Print the rendered HTML of each render")

	return cmd
}

func runTimer(ctx context.Context, cmd *cobra.Command, timer *views.TimerView, html bool) error {
	defer timer.Close()

	out := cmd.OutOrStdout()
	renderer := render.NewRenderer(render.RendererConfig{})
	emit := func(count int, node *vdom.VNode) {
		if !html {
			fmt.Fprintf(out, views.TimerFormat+"\n", count)
			return
		}
		s, err := renderer.RenderToString(node)
		if err != nil {
			errorMsg(cmd.ErrOrStderr(), "render: %v", err)
			return
		}
		fmt.Fprintln(out, s)
	}

	emit(timer.Count(), timer.Render())
	timer.OnRender(func(node *vdom.VNode) {
		emit(timer.Count(), node)
	})

	if err := timer.Start(ctx); err != nil {
		return err
	}

	select {
	case <-timer.Done():
	case <-ctx.Done():
	}
	return nil
}
