// Package ui serves the message board and the FMS report over HTTP.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/fmsboard/internal/fms"
	"github.com/leapstack-labs/fmsboard/internal/store"
	"github.com/leapstack-labs/fmsboard/internal/ui/notifier"
	"github.com/leapstack-labs/fmsboard/internal/ui/router"
)

const (
	sessionKeyLength = 32
	shutdownTimeout  = 5 * time.Second
)

// Server is the board's HTTP server.
type Server struct {
	board             store.Board
	fms               *fms.Service
	sessionStore      *sessions.CookieStore
	port              int
	trustProxy        bool
	readHeaderTimeout time.Duration
	logger            *slog.Logger
	notifier          *notifier.Notifier
}

// Config holds configuration for the server.
type Config struct {
	Board             store.Board
	FMS               *fms.Service
	Port              int
	TrustProxy        bool
	SessionSecret     string
	ReadHeaderTimeout time.Duration
	Logger            *slog.Logger
}

// NewServer creates a new server instance. An empty SessionSecret gets a
// random key, so flashes do not survive a restart.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	key := []byte(cfg.SessionSecret)
	if len(key) == 0 {
		logger.Warn("no session secret configured, using a random key")
		key = securecookie.GenerateRandomKey(sessionKeyLength)
	}
	sessionStore := sessions.NewCookieStore(key)
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	timeout := cfg.ReadHeaderTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Server{
		board:             cfg.Board,
		fms:               cfg.FMS,
		sessionStore:      sessionStore,
		port:              cfg.Port,
		trustProxy:        cfg.TrustProxy,
		readHeaderTimeout: timeout,
		logger:            logger,
		notifier:          notifier.New(),
	}
}

// Handler builds the middleware stack and routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	if s.trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	router.SetupRoutes(r, router.Deps{
		Board:        s.board,
		FMS:          s.fms,
		SessionStore: s.sessionStore,
		Notifier:     s.notifier,
		Logger:       s.logger,
	})
	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting board server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: s.readHeaderTimeout,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down board server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}
