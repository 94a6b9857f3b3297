// Package router sets up HTTP routes for the board server.
package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/fmsboard/internal/fms"
	"github.com/leapstack-labs/fmsboard/internal/store"
	boardFeature "github.com/leapstack-labs/fmsboard/internal/ui/features/board"
	reportFeature "github.com/leapstack-labs/fmsboard/internal/ui/features/report"
	"github.com/leapstack-labs/fmsboard/internal/ui/notifier"
	"github.com/leapstack-labs/fmsboard/internal/ui/resources"
)

// healthTimeout bounds the database ping behind /healthz.
const healthTimeout = 2 * time.Second

// Deps are the collaborators the routes are built from.
type Deps struct {
	Board        store.Board
	FMS          *fms.Service
	SessionStore sessions.Store
	Notifier     *notifier.Notifier
	Logger       *slog.Logger
}

// SetupRoutes configures all routes for the board server.
func SetupRoutes(router chi.Router, deps Deps) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler())

	router.Get("/healthz", healthHandler(deps.Board, logger))

	// Feature routes
	boardFeature.SetupRoutes(router, deps.Board, deps.SessionStore, deps.Notifier, logger)
	reportFeature.SetupRoutes(router, deps.FMS, deps.SessionStore, logger)
}

func healthHandler(board store.Board, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := board.Ping(ctx); err != nil {
			logger.Warn("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("database unavailable"))
			return
		}
		_, _ = w.Write([]byte("ok"))
	}
}
