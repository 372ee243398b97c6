package server

import (
	"net"
	"net/http"
	"time"
)

// ServerConfig holds configuration for the demo host.
type ServerConfig struct {
	// Address is the address to listen on.
	// Default: "localhost:8080".
	Address string

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// RenderTimeout bounds how long a page waits for its view to settle.
	// Default: 5 seconds.
	RenderTimeout time.Duration

	// ReadHeaderTimeout is passed to http.Server.
	// Default: 10 seconds.
	ReadHeaderTimeout time.Duration

	// WriteTimeout is the deadline for a single websocket write.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// PingInterval is the time between websocket pings.
	// Default: 30 seconds.
	PingInterval time.Duration

	// FrameBuffer is the number of frames queued per live stream.
	// Default: 64.
	FrameBuffer int

	// CheckOrigin validates websocket origins. Nil accepts same-origin
	// requests only.
	CheckOrigin func(r *http.Request) bool

	// OnListen is called once the listener is bound.
	OnListen func(addr net.Addr)
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:           "localhost:8080",
		ShutdownTimeout:   10 * time.Second,
		RenderTimeout:     5 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		PingInterval:      30 * time.Second,
		FrameBuffer:       64,
	}
}

// withDefaults returns a copy of c with unset fields filled in.
func (c *ServerConfig) withDefaults() *ServerConfig {
	d := DefaultServerConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.Address == "" {
		out.Address = d.Address
	}
	if out.ShutdownTimeout <= 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	if out.RenderTimeout <= 0 {
		out.RenderTimeout = d.RenderTimeout
	}
	if out.ReadHeaderTimeout <= 0 {
		out.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = d.WriteTimeout
	}
	if out.PingInterval <= 0 {
		out.PingInterval = d.PingInterval
	}
	if out.FrameBuffer <= 0 {
		out.FrameBuffer = d.FrameBuffer
	}
	return &out
}
