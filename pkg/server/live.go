package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/xid"

	"github.com/vango-go/fetchview/pkg/vdom"
	"github.com/vango-go/fetchview/pkg/views"
)

// Frame is one render pushed over a live stream.
type Frame struct {
	// View is the view kind ("profile", "apod", "timer").
	View string `json:"view"`

	// ID identifies the stream.
	ID string `json:"id"`

	// Seq numbers frames from 0 within a stream.
	Seq int `json:"seq"`

	// State names the state the HTML was rendered for.
	State string `json:"state"`

	// HTML is the rendered view.
	HTML string `json:"html"`
}

func (s *Server) handleLiveProfile(w http.ResponseWriter, r *http.Request) {
	s.serveLive(w, r, s.views.Profile(chi.URLParam(r, "username")))
}

func (s *Server) handleLiveAPOD(w http.ResponseWriter, r *http.Request) {
	s.serveLive(w, r, s.views.APOD())
}

func (s *Server) handleLiveTimer(w http.ResponseWriter, r *http.Request) {
	s.serveLive(w, r, s.views.Timer())
}

// serveLive streams view over a websocket until the client goes away or the
// server shuts down. The view is closed on exit, so an in-flight fetch is
// cancelled and its late result discarded. Once shutdown has begun new
// streams are refused with 503.
func (s *Server) serveLive(w http.ResponseWriter, r *http.Request, view views.Live) {
	if !s.trackStream() {
		view.Close()
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}
	defer s.streams.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.logger.Debug("websocket upgrade failed", "view", view.Name(), "error", err)
		view.Close()
		return
	}
	defer conn.Close()

	id := xid.New().String()
	logger := s.logger.With("view", view.Name(), "stream_id", id)
	logger.Debug("live stream opened")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	// Runs before cancel, so the cancelled fetch is discarded rather than
	// reported as a failure.
	defer view.Close()
	go func() {
		select {
		case <-s.baseCtx.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	frames := make(chan Frame, s.config.FrameBuffer)
	var mu sync.Mutex
	seq := 0
	// enqueue runs on the goroutine applying a transition, so it never blocks.
	enqueue := func(state string, node *vdom.VNode) {
		html, err := s.renderer.RenderToString(node)
		if err != nil {
			logger.Error("render frame", "error", err)
			return
		}

		mu.Lock()
		defer mu.Unlock()
		f := Frame{View: view.Name(), ID: id, Seq: seq, State: state, HTML: html}
		seq++
		select {
		case frames <- f:
		default:
			logger.Warn("live stream is not keeping up, dropping frame", "seq", f.Seq)
		}
	}

	// Registering before Start means no transition can be missed, and the
	// initial frame is queued before any transition frame.
	view.OnRender(enqueue)
	enqueue(view.State(), view.Render())

	if err := view.Start(ctx); err != nil {
		logger.Debug("view did not start", "error", err)
	}

	// Reader: the client sends nothing meaningful; a read error means it
	// has gone away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.writeLoop(ctx, conn, frames, logger)
}

// trackStream registers a live stream with Shutdown's wait group, unless
// shutdown has already begun.
func (s *Server) trackStream() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.baseCtx.Err() != nil {
		return false
	}
	s.streams.Add(1)
	return true
}

// writeLoop is the only goroutine writing to conn.
func (s *Server) writeLoop(ctx context.Context, conn *websocket.Conn, frames <-chan Frame, logger *slog.Logger) {
	ping := time.NewTicker(s.config.PingInterval)
	defer ping.Stop()

	for {
		select {
		case f := <-frames:
			conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := conn.WriteJSON(f); err != nil {
				logger.Debug("live stream write failed", "error", err)
				return
			}

		case <-ping.C:
			deadline := time.Now().Add(s.config.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				logger.Debug("live stream ping failed", "error", err)
				return
			}

		case <-ctx.Done():
			deadline := time.Now().Add(s.config.WriteTimeout)
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			conn.WriteControl(websocket.CloseMessage, msg, deadline)
			logger.Debug("live stream closed")
			return
		}
	}
}
