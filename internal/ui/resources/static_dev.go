//go:build dev

package resources

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

// staticDir locates static/ next to this file so a dev binary can run from
// any working directory.
func staticDir() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return StaticDirectoryPath
	}
	return filepath.Join(filepath.Dir(filename), "static")
}

// Handler serves static/ from the source tree so edits to board.css or
// fms.js show up on reload without rebuilding.
func Handler() http.Handler {
	dir := staticDir()
	slog.Debug("static assets served from filesystem", "path", dir)

	files := http.FileServer(http.FS(os.DirFS(dir)))
	return http.StripPrefix("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		files.ServeHTTP(w, r)
	}))
}
