// Package httpserver wraps the standard http.Server with the timeouts and
// shutdown behaviour the service wants.
package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Server hosts the ClipShelf routes.
type Server struct {
	inner *http.Server
}

// New constructs a server listening on the provided port. No write timeout is
// set: video playback and large uploads hold connections open for as long as
// the client needs.
func New(port int, handler http.Handler) *Server {
	return &Server{
		inner: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
	}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
