package server

import (
	"bytes"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vango-go/fetchview/pkg/features/resource"
	"github.com/vango-go/fetchview/pkg/render"
	"github.com/vango-go/fetchview/pkg/vdom"
	"github.com/vango-go/fetchview/pkg/views"
)

const pageStyle = `body{font-family:system-ui,sans-serif;margin:2rem auto;max-width:48rem;padding:0 1rem}
.header{display:flex;align-items:center;gap:1rem}.header img{width:96px;border-radius:50%}
.error{color:#b00020}.loading{color:#666}
.media-container img,.media-container iframe{max-width:100%}.media-container iframe{aspect-ratio:16/9;width:100%;border:0}`

// liveScript replaces #view with every frame pushed by a live stream.
const liveScript = `(function(){var el=document.getElementById("view");var p=location.protocol==="https:"?"wss:":"ws:";
var ws=new WebSocket(p+"//"+location.host+el.dataset.live);
ws.onmessage=function(e){var f=JSON.parse(e.data);el.innerHTML=f.html;el.dataset.state=f.state;};})();`

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var links []*vdom.VNode
	if s.views.Profile != nil {
		links = append(links, vdom.Li(vdom.A(vdom.Href("/profile/octocat"), vdom.Text("GitHub profile"))))
	}
	if s.views.APOD != nil {
		links = append(links, vdom.Li(vdom.A(vdom.Href("/apod"), vdom.Text("Astronomy picture of the day"))))
	}
	if s.views.Timer != nil {
		links = append(links, vdom.Li(vdom.A(vdom.Href("/timer"), vdom.Text("Timer"))))
	}

	body := vdom.Main(
		vdom.H1(vdom.Text("fetchview")),
		vdom.Ul(links),
	)
	s.writePage(w, http.StatusOK, render.PageData{Title: "fetchview", Body: body})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	s.renderSettled(w, r, s.views.Profile(username), username+" - GitHub profile", "/live/profile/"+url.PathEscape(username))
}

func (s *Server) handleAPOD(w http.ResponseWriter, r *http.Request) {
	s.renderSettled(w, r, s.views.APOD(), views.APODHeading, "/live/apod")
}

func (s *Server) handleTimer(w http.ResponseWriter, r *http.Request) {
	timer := s.views.Timer()
	defer timer.Close()

	body := vdom.Main(
		vdom.Div(vdom.ID("view"), vdom.Data("live", "/live/timer"), vdom.Data("state", timer.State()), vdom.AriaLive("polite"),
			timer.Render(),
		),
	)
	s.writePage(w, http.StatusOK, render.PageData{
		Title:   "Timer",
		Body:    body,
		Scripts: []string{liveScript},
	})
}

// renderSettled activates view, waits for it to settle within RenderTimeout,
// and writes the page for whatever state it reached. A page still loading
// subscribes to livePath so the browser picks up the outcome.
func (s *Server) renderSettled(w http.ResponseWriter, r *http.Request, view views.Live, title, livePath string) {
	defer view.Close()

	// The fetch runs on the request context; the timeout only bounds the
	// wait, so a slow upstream renders as Loading rather than Failed.
	timeout := time.NewTimer(s.config.RenderTimeout)
	defer timeout.Stop()

	if err := view.Start(r.Context()); err != nil {
		// Invalid requests have already moved the view to Failed.
		s.logger.Debug("view did not start", "view", view.Name(), "error", err)
	} else {
		select {
		case <-view.Done():
		case <-r.Context().Done():
		case <-timeout.C:
			s.logger.Warn("view did not settle before render timeout",
				"view", view.Name(),
				"timeout", s.config.RenderTimeout,
			)
		}
	}

	state := view.State()
	page := render.PageData{Title: title}
	attrs := []vdom.Attr{vdom.ID("view"), vdom.Data("state", state), vdom.AriaLive("polite")}
	if state == resource.Loading.String() {
		attrs = append(attrs, vdom.Data("live", livePath))
		page.Scripts = []string{liveScript}
	}
	page.Body = vdom.Main(vdom.Div(attrs, view.Render()))
	s.writePage(w, http.StatusOK, page)
}

func (s *Server) writePage(w http.ResponseWriter, status int, page render.PageData) {
	page.Styles = append(page.Styles, pageStyle)

	var buf bytes.Buffer
	if err := s.renderer.RenderPage(&buf, page); err != nil {
		s.logger.Error("render page", "title", page.Title, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
