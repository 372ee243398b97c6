package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vango-go/fetchview"
	"github.com/vango-go/fetchview/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// colors controls ANSI output of the message helpers.
var colors = true

func main() {
	if !isTerminal(os.Stdout) {
		disableColors()
	}

	if err := newRootCmd().Execute(); err != nil {
		reportError(os.Stderr, err, isTerminal(os.Stderr))
		os.Exit(1)
	}
}

// reportError prints err in full on a terminal and as a single line
// otherwise.
func reportError(w io.Writer, err error, terminal bool) {
	if terminal {
		errors.Fprint(w, err)
		return
	}
	fmt.Fprintln(w, errors.FromError(err, "E301").FormatCompact())
}

// cli holds the persistent flags shared by every command.
type cli struct {
	configDir string
	logLevel  string
	noColor   bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "fetchview",
		Short: "Fetch remote JSON and render it as a view",
		Long: `fetchview fetches a JSON resource once per activation and renders
its loading, failed or ready state.

Commands:
  profile   GitHub user profile card
  apod      NASA astronomy picture of the day
  timer     self-advancing render counter
  serve     HTTP host with live updates over WebSocket`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.noColor {
				disableColors()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&c.configDir, "config", "c", ".", "Directory containing fetchview.{json,yaml} and .env")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn or error (default from config)")
	rootCmd.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		profileCmd(c),
		apodCmd(c),
		timerCmd(c),
		serveCmd(c),
		versionCmd(),
	)

	return rootCmd
}

// settings resolves configuration from the config directory and flags.
func (c *cli) settings() (*fetchview.Settings, error) {
	settings, err := fetchview.LoadSettings(c.configDir)
	if err != nil {
		return nil, err
	}
	if c.logLevel != "" {
		settings.Log.Level = c.logLevel
	}
	return settings, nil
}

// app builds the application for cmd. Diagnostics go to the command's
// error stream.
func (c *cli) app(cmd *cobra.Command, settings *fetchview.Settings, configure ...func(*fetchview.Config)) (*fetchview.App, error) {
	level, err := settings.SlogLevel()
	if err != nil {
		return nil, err
	}
	cfg := fetchview.Config{
		Settings: settings,
		Logger:   fetchview.NewLogger(cmd.ErrOrStderr(), level),
	}
	for _, fn := range configure {
		fn(&cfg)
	}
	return fetchview.New(cfg)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func disableColors() {
	colors = false
	errors.DisableColors()
}

func paint(code, s string) string {
	if !colors {
		return s
	}
	return code + s + "\033[0m"
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", paint("\033[32m", "✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", paint("\033[33m", "⚠"), fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", paint("\033[31m", "✗"), fmt.Sprintf(format, args...))
}
