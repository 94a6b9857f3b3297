package common

import (
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// IDParam parses the numeric {name} path parameter. Negative or non-numeric
// values are rejected.
func IDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

// ClientIP returns the host part of r.RemoteAddr. Behind a trusted proxy the
// RealIP middleware has already rewritten RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Render writes a full HTML page.
func Render(w http.ResponseWriter, r *http.Request, p Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := Layout(p).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
