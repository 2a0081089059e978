// Package http serves trace construction over a gin engine.
package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kochabx/ciphertrace/log"
	"github.com/kochabx/ciphertrace/transport"
	"github.com/kochabx/ciphertrace/transport/http/metrics"
)

var _ transport.Server = (*Server)(nil)

const (
	defaultName = "http"
	defaultAddr = ":8080"
)

// Meta names the server in logs.
type Meta struct {
	Name string
}

// Server wraps an http.Server and mounts the operational endpoints on
// its gin handler.
type Server struct {
	meta    Meta
	options Options
	server  *http.Server
}

type Option func(*Server)

func WithMeta(meta Meta) Option {
	return func(s *Server) {
		s.meta = meta
	}
}

func WithMetricsOptions(m MetricsOption) Option {
	return func(s *Server) {
		if err := m.init(); err != nil {
			log.Error().Err(err).Send()
			return
		}
		s.options.Metrics = m
	}
}

func WithHealthOptions(h HealthOption) Option {
	return func(s *Server) {
		if err := h.init(); err != nil {
			log.Error().Err(err).Send()
			return
		}
		s.options.Health = h
	}
}

// NewServer creates a server for handler on addr.
func NewServer(addr string, handler http.Handler, opts ...Option) *Server {
	s := &Server{
		server: &http.Server{
			Addr:    addr,
			Handler: handler,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	s.mountOperational()

	return s
}

// Run blocks serving requests until Shutdown or a listener error.
func (s *Server) Run() error {
	if s.meta.Name == "" {
		s.meta.Name = defaultName
	}

	if !transport.ValidateAddress(s.server.Addr) {
		log.Warn().Msgf("invalid address %s, using default address %s", s.server.Addr, defaultAddr)
		s.server.Addr = defaultAddr
	}
	log.Info().Msgf("%s server listening on %s", s.meta.Name, s.server.Addr)

	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) mountOperational() {
	r, ok := s.server.Handler.(*gin.Engine)
	if !ok {
		return
	}

	if s.options.Metrics.Enabled {
		if s.options.Metrics.EnabledGoCollector {
			metrics.Prom.WithGoCollectorRuntimeMetrics()
		}
		if s.options.Metrics.EnabledBuildInfoCollector {
			metrics.Prom.WithBuildInfoCollector()
		}

		r.GET(s.options.Metrics.Path, gin.WrapH(promhttp.HandlerFor(metrics.Prom.Registry(), promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		})))
	}

	if s.options.Health.Enabled {
		r.GET(s.options.Health.Path, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}
}
