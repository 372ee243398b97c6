package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/vango-go/fetchview/internal/errors"
	"github.com/vango-go/fetchview/pkg/views"
)

func profileCmd(c *cli) *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:   "profile [username]",
		Short: "Show a GitHub user's profile",
		Long: `Fetch a GitHub user once and print the profile card.

Without a username argument the command prompts for one when attached to a
terminal.

Examples:
  fetchview profile octocat
  fetchview profile octocat --html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := resolveUsername(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return runProfile(cmd, c, username, flags)
		},
	}

	flags.register(cmd)
	return cmd
}

// resolveUsername takes the username from args, or asks for it when in is
// an interactive terminal.
func resolveUsername(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	f, ok := in.(*os.File)
	if !ok || !isTerminal(f) {
		return "", errors.New("E300")
	}

	var username string
	prompt := &survey.Input{Message: "GitHub username:"}
	if err := survey.AskOne(prompt, &username, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return strings.TrimSpace(username), nil
}

func runProfile(cmd *cobra.Command, c *cli, username string, flags viewFlags) error {
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

	view, req := app.ProfileView(username)
	info(cmd.ErrOrStderr(), views.ProfileLoadingText)

	vs, err := settle(cmd.Context(), view, req, timeout)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flags.html {
		return writeHTML(out, view)
	}

	p, _ := vs.Data()
	success(out, "%s", p.DisplayName())
	if p.Bio != "" {
		fmt.Fprintf(out, "  %s\n", p.Bio)
	}
	if p.AvatarURL != "" {
		fmt.Fprintf(out, "  Avatar: %s\n", p.AvatarURL)
	}
	return nil
}
