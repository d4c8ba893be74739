// Package server streams live backdrops to browsers.
//
// Every page load opens a WebSocket; the server gives that connection its own
// spawner whose container forwards append and remove operations to the page.
// The package also serves the host page, its stylesheet, a JSON view of the
// shape library, still SVG snapshots, a health check and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/backdrop/pkg/cache"
	"github.com/matzehuels/backdrop/pkg/config"
	"github.com/matzehuels/backdrop/pkg/shapes"
)

const (
	defaultAddr      = ":8080"
	snapshotCacheLen = 128
	snapshotTTL      = time.Hour
)

// Server is the HTTP host for live backdrops.
type Server struct {
	Addr    string
	Config  config.Config
	Library shapes.Library
	Logger  *log.Logger

	// Title is the host page title.
	Title string

	// Metrics, when set, is served at /metrics.
	Metrics *Metrics

	// AllowedOrigins lists cross-origin pages that may open the WebSocket,
	// as scheme://host[:port]. Same-origin pages are always allowed.
	AllowedOrigins []string

	// Cache holds seeded snapshots. Unseeded requests are never cached.
	Cache cache.Cache

	mu       sync.Mutex
	srv      *http.Server
	ln       net.Listener
	closed   bool
	sessions map[*session]struct{}
}

// New creates a server for cfg. The shape library comes from the configuration.
func New(addr string, cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		Addr:    addr,
		Config:  cfg,
		Library: cfg.Library(),
		Logger:  logger,
		Title:   "backdrop",
		Cache:   cache.NewMemoryCache(snapshotCacheLen),
	}
}

// Start listens on Addr and serves in the background. Cancelling ctx stops
// the server.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("server already stopped")
	}
	if s.srv != nil {
		return nil
	}

	addr := s.Addr
	if addr == "" {
		addr = defaultAddr
	}

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.srv = nil
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.ln = ln

	go func() {
		<-ctx.Done()
		_ = s.Stop()
	}()

	srv := s.srv
	go func() {
		err := srv.Serve(ln)
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return
		}
		s.Logger.Error("server stopped", "err", err)
	}()

	s.Logger.Info("listening", "addr", ln.Addr().String())
	return nil
}

// ListenAddr returns the bound address once started.
func (s *Server) ListenAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Stop closes open sessions and shuts the listener down. It is safe to call
// more than once.
func (s *Server) Stop() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	srv := s.srv
	ln := s.ln
	s.srv = nil
	s.ln = nil
	sessions := make([]*session, 0, len(s.sessions))
	for sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	// Hijacked connections are not covered by Shutdown.
	for _, sess := range sessions {
		sess.close()
	}
	if ln != nil {
		_ = ln.Close()
	}
	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func (s *Server) track(sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if s.sessions == nil {
		s.sessions = make(map[*session]struct{})
	}
	s.sessions[sess] = struct{}{}
	return true
}

func (s *Server) untrack(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess)
}

// Sessions returns the number of open display sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func formatSize(w, h float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64) + "x" + strconv.FormatFloat(h, 'f', -1, 64)
}
