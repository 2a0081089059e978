// Package websocket streams playback over gorilla/websocket: one
// connection drives one session's stepper and receives a frame per
// announced step.
package websocket

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/kochabx/ciphertrace/log"
	"github.com/kochabx/ciphertrace/session"
	"github.com/kochabx/ciphertrace/transport"
)

var _ transport.Server = (*Server)(nil)

const (
	defaultName = "websocket"
	defaultAddr = ":8081"

	// PlaybackPath is the endpoint prefix; the session id follows it.
	PlaybackPath = "/ws/playback/"
)

// Server accepts playback connections for existing sessions.
type Server struct {
	name     string
	server   *http.Server
	sessions *session.Manager
	upgrader websocket.Upgrader
}

type Option func(*Server)

// WithName overrides the server's log name.
func WithName(name string) Option {
	return func(s *Server) {
		s.name = name
	}
}

// WithCheckOrigin overrides the upgrade origin policy. The default
// accepts any origin; trace data is public.
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(s *Server) {
		s.upgrader.CheckOrigin = fn
	}
}

// NewServer creates a playback server on addr backed by sessions.
func NewServer(addr string, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		name:     defaultName,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(PlaybackPath, s.handlePlayback)
	s.server = &http.Server{Addr: addr, Handler: mux}

	return s
}

// Run blocks serving connections until Shutdown.
func (s *Server) Run() error {
	if !transport.ValidateAddress(s.server.Addr) {
		log.Warn().Msgf("invalid address %s, using default address %s", s.server.Addr, defaultAddr)
		s.server.Addr = defaultAddr
	}
	log.Info().Msgf("%s server listening on %s", s.name, s.server.Addr)

	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections. Live connections terminate
// when their sessions close or their clients disconnect.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handlePlayback(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, PlaybackPath)
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "missing session id", http.StatusNotFound)
		return
	}

	sess, err := s.sessions.Get(id)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	log.Debug().Str("session", id).Str("remote", r.RemoteAddr).Msg("playback connection opened")
	newClient(conn, sess).run()
	log.Debug().Str("session", id).Msg("playback connection closed")
}
