package common

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
)

// SessionName is the cookie session holding flash messages.
const SessionName = "fmsboard"

// AddFlash queues msg for the next rendered page.
func AddFlash(w http.ResponseWriter, r *http.Request, store sessions.Store, msg string) error {
	// Get returns a fresh session alongside a decode error for a stale cookie.
	session, err := store.Get(r, SessionName)
	if session == nil {
		return fmt.Errorf("loading session: %w", err)
	}
	session.AddFlash(msg)
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// ConsumeFlashes returns and clears pending flash messages. It must run
// before anything is written to w.
func ConsumeFlashes(w http.ResponseWriter, r *http.Request, store sessions.Store, logger *slog.Logger) []string {
	session, _ := store.Get(r, SessionName)
	if session == nil {
		return nil
	}
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		logger.Warn("failed to clear flashes", "error", err)
	}
	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			msgs = append(msgs, s)
		}
	}
	return msgs
}

// FlashRedirect queues msg and redirects to url with 303 See Other.
// A failed flash is logged; the redirect still happens.
func FlashRedirect(w http.ResponseWriter, r *http.Request, store sessions.Store, logger *slog.Logger, msg, url string) {
	if err := AddFlash(w, r, store, msg); err != nil {
		logger.Warn("failed to store flash", "error", err)
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
