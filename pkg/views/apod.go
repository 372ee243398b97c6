package views

import (
	"net/url"

	"github.com/microcosm-cc/bluemonday"

	"github.com/vango-go/fetchview/pkg/features/resource"
	"github.com/vango-go/fetchview/pkg/fetch"
	"github.com/vango-go/fetchview/pkg/vdom"
)

const (
	// DefaultNASABaseURL is the public NASA API.
	DefaultNASABaseURL = "https://api.nasa.gov"

	// DefaultNASAAPIKey is NASA's rate-limited shared key.
	DefaultNASAAPIKey = "DEMO_KEY"

	// APODHeading is the fixed heading of the APOD card.
	APODHeading = "NASA Astronomy Picture of the Day"
)

// explanationPolicy is safe for concurrent use once built.
var explanationPolicy = bluemonday.UGCPolicy()

// APOD is NASA's astronomy picture of the day.
type APOD struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	MediaType   string `json:"media_type"`
	URL         string `json:"url"`
	HDURL       string `json:"hdurl,omitempty"`
	Explanation string `json:"explanation"`
	Copyright   string `json:"copyright,omitempty"`
}

// IsImage reports whether the entry is a still image.
func (a APOD) IsImage() bool { return a.MediaType == "image" }

// APODRequest builds the request for today's picture.
func APODRequest(baseURL, apiKey string) fetch.Request {
	return fetch.NewRequest("apod", baseURL, "/planetary/apod", fetch.WithAPIKey("api_key", apiKey))
}

// NewAPODView creates an inactive APOD view backed by client.
func NewAPODView(client *fetch.Client, opts ...resource.Option) *resource.View[APOD] {
	opts = append([]resource.Option{resource.WithName("apod")}, opts...)
	res := resource.New(fetch.JSON[APOD](client), opts...)
	return resource.NewView(res,
		resource.OnLoading[APOD](renderAPODLoading),
		resource.OnFailed[APOD](renderError),
		resource.OnReady(RenderAPOD),
	)
}

func renderAPODLoading() *vdom.VNode {
	return vdom.Div(vdom.Class("loading"), vdom.AriaBusy(true), vdom.Text("Loading..."))
}

// RenderAPOD renders a loaded picture of the day. The explanation is
// sanitized and emitted as HTML; media with a non-http(s) URL is omitted.
func RenderAPOD(a APOD) *vdom.VNode {
	var media *vdom.VNode
	if safeMediaURL(a.URL) {
		if a.IsImage() {
			media = vdom.Img(vdom.Class("image"), vdom.Src(a.URL), vdom.Alt(a.Title))
		} else {
			media = vdom.Iframe(vdom.Class("video"), vdom.Src(a.URL), vdom.TitleAttr(a.Title), vdom.AllowFullscreen())
		}
	}

	return vdom.Div(vdom.Class("container"),
		vdom.H1(vdom.Class("title"), vdom.Text(APODHeading)),
		vdom.H2(vdom.Class("image-title"), vdom.Text(a.Title)),
		vdom.P(vdom.Class("date"), vdom.Textf("Date: %s", a.Date)),
		vdom.Div(vdom.Class("media-container"), media),
		vdom.P(vdom.Class("explanation"), vdom.Raw(explanationPolicy.Sanitize(a.Explanation))),
		vdom.If(a.Copyright != "", vdom.P(vdom.Class("copyright"), vdom.Textf("© %s", a.Copyright))),
	)
}

func safeMediaURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
