// Package board implements the message board pages: posts, comments and
// likes.
package board

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/fmsboard/internal/store"
	"github.com/leapstack-labs/fmsboard/internal/ui/notifier"
)

// SetupRoutes configures routes for the board feature. Ids are constrained
// to digits so anything else falls through to 404.
func SetupRoutes(
	router chi.Router,
	board store.Board,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
) {
	h := NewHandlers(board, sessionStore, notify, logger)

	router.Get("/", h.ListPosts)
	router.Get("/updates", h.ListUpdates)

	router.Get("/create/", h.CreateForm)
	router.Post("/create/", h.CreatePost)

	router.Get("/post/{id:[0-9]+}", h.ViewPost)
	router.Get("/post/{id:[0-9]+}/updates", h.PostUpdates)

	router.Get("/edit/{id:[0-9]+}", h.EditForm)
	router.Post("/edit/{id:[0-9]+}", h.UpdatePost)

	router.Post("/delete/{id:[0-9]+}", h.DeletePost)
	router.Post("/post/comment/{id:[0-9]+}", h.AddComment)
	router.Post("/post/like/{id:[0-9]+}", h.ToggleLike)
}
