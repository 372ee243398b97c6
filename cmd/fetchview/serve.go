package main

import (
	"net"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/vango-go/fetchview"
)

func serveCmd(c *cli) *cobra.Command {
	var (
		addr        string
		openBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the views over HTTP",
		Long: `Start the demo host. Pages are rendered on the server and, once
loaded, updated over a WebSocket as each view changes state.

Routes:
  /profile/{username}   GitHub profile card
  /apod                 astronomy picture of the day
  /timer                render counter
  /metrics              Prometheus metrics
  /healthz              liveness check

Examples:
  fetchview serve
  fetchview serve --addr=0.0.0.0:3000 --open`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := c.settings()
			if err != nil {
				return err
			}
			if addr != "" {
				settings.Server.Address = addr
			}

			out := cmd.ErrOrStderr()
			app, err := c.app(cmd, settings, func(cfg *fetchview.Config) {
				cfg.OnListen = func(a net.Addr) {
					url := "http://" + a.String()
					success(out, "Listening on %s", url)
					info(out, "Press Ctrl+C to stop")
					if openBrowser {
						browser.Stdout = out
						browser.Stderr = out
						if err := browser.OpenURL(url); err != nil {
							warn(out, "Could not open browser: %v", err)
						}
					}
				}
			})
			if err != nil {
				return err
			}

			return app.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from config)")
	cmd.Flags().BoolVarP(&openBrowser, "open", "o", false, "Open browser on start")

	return cmd
}
