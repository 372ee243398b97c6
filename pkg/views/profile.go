package views

import (
	"github.com/vango-go/fetchview/pkg/features/resource"
	"github.com/vango-go/fetchview/pkg/fetch"
	"github.com/vango-go/fetchview/pkg/vdom"
)

// DefaultGitHubBaseURL is the public GitHub REST API.
const DefaultGitHubBaseURL = "https://api.github.com"

// ProfileLoadingText is shown while a profile is loading.
const ProfileLoadingText = "Profile loading.....please wait"

// Profile is the subset of a GitHub user the profile card displays.
type Profile struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

// DisplayName returns Name, or Login for accounts without a display name.
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Login
}

// ProfileRequest builds the request for a user's profile.
func ProfileRequest(baseURL, username string) fetch.Request {
	return fetch.NewRequest("profile", baseURL, "/users/{id}", fetch.WithIdentifier(username))
}

// NewProfileView creates an inactive profile view backed by client.
func NewProfileView(client *fetch.Client, opts ...resource.Option) *resource.View[Profile] {
	opts = append([]resource.Option{resource.WithName("profile")}, opts...)
	res := resource.New(fetch.JSON[Profile](client), opts...)
	return resource.NewView(res,
		resource.OnLoading[Profile](renderProfileLoading),
		resource.OnFailed[Profile](renderError),
		resource.OnReady(RenderProfile),
	)
}

func renderProfileLoading() *vdom.VNode {
	return vdom.H1(vdom.AriaBusy(true), vdom.Text(ProfileLoadingText))
}

// RenderProfile renders a loaded profile.
func RenderProfile(p Profile) *vdom.VNode {
	name := p.DisplayName()
	return vdom.Fragment(
		vdom.Div(vdom.Class("header"),
			vdom.H1(vdom.Text(name)),
			vdom.Img(vdom.Src(p.AvatarURL), vdom.Alt(name+"'s avatar")),
		),
		vdom.Div(vdom.Class("body"),
			vdom.H2(vdom.Text(p.Bio)),
		),
	)
}

// renderError is shared by every view's Failed state.
func renderError(err error) *vdom.VNode {
	return vdom.Div(vdom.Class("error"), vdom.Role("alert"), vdom.Text(fetch.UserMessage(err)))
}
