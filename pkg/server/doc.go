// Package server hosts the fetchview demo: server-rendered pages for each
// view, websocket streams that push every render as it happens, and the
// operational endpoints.
//
// Routes:
//
//	GET /                         index
//	GET /profile/{username}       GitHub profile, rendered once settled
//	GET /apod                     astronomy picture of the day
//	GET /timer                    timer page driven by /live/timer
//	GET /live/profile/{username}  websocket stream
//	GET /live/apod                websocket stream
//	GET /live/timer               websocket stream
//	GET /metrics                  Prometheus metrics
//	GET /healthz                  liveness
//
// A server-rendered page activates its view, waits until the view settles or
// RenderTimeout passes, renders whatever state it is in, and closes the
// view. A live stream sends the current render immediately, then one frame
// per transition, and closes its view when the client disconnects.
package server
