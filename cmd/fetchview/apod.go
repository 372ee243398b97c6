package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-go/fetchview/pkg/views"
)

func apodCmd(c *cli) *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:   "apod",
		Short: "Show NASA's astronomy picture of the day",
		Long: `Fetch NASA's astronomy picture of the day and print it.

The API key is read from NASA_API_KEY (or REACT_APP_NASA_API_KEY), from
.env in the config directory, or from the config file. DEMO_KEY is used
when none is set.

Examples:
  fetchview apod
  NASA_API_KEY=abc fetchview apod --html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPOD(cmd, c, flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func runAPOD(cmd *cobra.Command, c *cli, flags viewFlags) error {
	settings, err := c.settings()
	if err != nil {
		return err
	}
	app, err := c.app(cmd, settings)
	if err != nil {
		return err
	}

	timeout := flags.timeout
	if timeout <= 0 {
		timeout = 2 * settings.HTTP.Timeout.Std()
	}

	if settings.NASA.APIKey == views.DefaultNASAAPIKey {
		warn(cmd.ErrOrStderr(), "Using %s; set NASA_API_KEY for higher rate limits", views.DefaultNASAAPIKey)
	}

	view, req := app.APODView()
	vs, err := settle(cmd.Context(), view, req, timeout)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flags.html {
		return writeHTML(out, view)
	}

	a, _ := vs.Data()
	success(out, "%s", a.Title)
	fmt.Fprintf(out, "  Date: %s\n", a.Date)
	fmt.Fprintf(out, "  %s: %s\n", mediaLabel(a), a.URL)
	if a.Copyright != "" {
		fmt.Fprintf(out, "  Copyright: %s\n", a.Copyright)
	}
	if a.Explanation != "" {
		fmt.Fprintf(out, "\n%s\n", a.Explanation)
	}
	return nil
}

func mediaLabel(a views.APOD) string {
	if a.IsImage() {
		return "Image"
	}
	return "Video"
}
