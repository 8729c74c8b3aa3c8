package api

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	apimiddleware "github.com/gdp-poc/gdp/infrastructure/api/middleware"
)

// SPAHandler serves a built single-page front-end. Requests for files that
// exist are served as is; every other path gets index.html so the client
// router can handle it.
type SPAHandler struct {
	dir    string
	logger *slog.Logger
}

// NewSPAHandler creates an SPAHandler for the files under dir.
func NewSPAHandler(dir string, logger *slog.Logger) SPAHandler {
	return SPAHandler{dir: dir, logger: logger}
}

// ServeHTTP implements http.Handler.
func (h SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.dir == "" {
		h.notBuilt(w, r)
		return
	}

	name := path.Clean("/" + r.URL.Path)
	if strings.Contains(path.Base(name), ".") {
		if h.serveFile(w, r, filepath.Join(h.dir, filepath.FromSlash(name))) {
			return
		}
	}

	if !h.serveFile(w, r, filepath.Join(h.dir, "index.html")) {
		h.notBuilt(w, r)
	}
}

// serveFile writes the file at p and reports whether it existed.
func (h SPAHandler) serveFile(w http.ResponseWriter, r *http.Request, p string) bool {
	f, err := os.Open(p)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			h.logger.Warn("failed to open static file", slog.String("path", p), slog.Any("error", err))
		}
		return false
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return true
}

func (h SPAHandler) notBuilt(w http.ResponseWriter, r *http.Request) {
	err := apimiddleware.NewAPIError(http.StatusNotFound, "frontend not built", nil)
	apimiddleware.WriteError(w, r, err, nil)
}
