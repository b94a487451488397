// Package httpapi serves the planner over HTTP.
package httpapi

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/Veraticus/loan-payoff/internal/planner"
)

// Config holds configuration options for the server.
type Config struct {
	// TLS serves HTTPS when set.
	TLS            *tls.Config
	Addr           string
	RequestTimeout time.Duration
	MaxBodySize    int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		RequestTimeout: 30 * time.Second,
		MaxBodySize:    1 << 20,
	}
}

// Server exposes planner operations as JSON endpoints.
type Server struct {
	planner *planner.Planner
	baseCtx context.Context
	server  *fasthttp.Server
	config  Config
}

// New creates a server for p.
func New(p *planner.Planner, config Config) *Server {
	defaults := DefaultConfig()
	if config.Addr == "" {
		config.Addr = defaults.Addr
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = defaults.RequestTimeout
	}
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = defaults.MaxBodySize
	}

	s := &Server{
		planner: p,
		baseCtx: context.Background(),
		config:  config,
	}
	s.server = &fasthttp.Server{
		Handler:            s.Handler,
		Name:               "payoff",
		MaxRequestBodySize: config.MaxBodySize,
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       config.RequestTimeout + 5*time.Second,
	}
	return s
}

// ListenAndServe listens on the configured address until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	if s.config.TLS != nil {
		ln = tls.NewListener(ln, s.config.TLS)
	}
	return s.Serve(ctx, ln)
}

// Serve handles connections from ln until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.baseCtx = ctx

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(ln)
	}()

	slog.Info("HTTP API listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down HTTP API")
	if err := s.server.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// Handler routes a request.
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	path := string(ctx.Path())

	route, ok := routes[path]
	switch {
	case !ok:
		writeError(ctx, fasthttp.StatusNotFound, "not_found", "no such endpoint: "+path)
	case string(ctx.Method()) != route.method:
		ctx.Response.Header.Set("Allow", route.method)
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "method_not_allowed",
			fmt.Sprintf("%s requires %s", path, route.method))
	default:
		route.handle(s, ctx)
	}

	slog.Debug("HTTP request",
		"method", string(ctx.Method()),
		"path", path,
		"status", ctx.Response.StatusCode(),
		"duration", time.Since(start))
}

type route struct {
	handle func(*Server, *fasthttp.RequestCtx)
	method string
}

var routes = map[string]route{
	"/healthz":     {method: fasthttp.MethodGet, handle: (*Server).health},
	"/v1/optimize": {method: fasthttp.MethodPost, handle: (*Server).optimize},
	"/v1/evaluate": {method: fasthttp.MethodPost, handle: (*Server).evaluate},
	"/v1/payment":  {method: fasthttp.MethodPost, handle: (*Server).payment},
}

func (s *Server) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(s.baseCtx, s.config.RequestTimeout)
}
