// Package report serves the FMS result report and its CSV download.
package report

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/fmsboard/internal/fms"
)

// SetupRoutes configures routes for the FMS feature.
func SetupRoutes(router chi.Router, svc *fms.Service, sessionStore sessions.Store, logger *slog.Logger) {
	h := NewHandlers(svc, sessionStore, logger)

	router.Route("/fms", func(r chi.Router) {
		r.Get("/result", h.Result)
		r.Get("/export", h.Export)
	})
}
