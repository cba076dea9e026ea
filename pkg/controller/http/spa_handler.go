package http

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// SPAHandler serves the dashboard page and its assets. Paths that do not name
// an asset fall back to index.html.
type SPAHandler struct {
	fsys      fs.FS
	indexFile []byte
}

// NewSPAHandler creates a new SPA handler
func NewSPAHandler(fsys fs.FS) (*SPAHandler, error) {
	index, err := fs.ReadFile(fsys, "index.html")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open index.html for SPA handler")
	}

	return &SPAHandler{
		fsys:      fsys,
		indexFile: index,
	}, nil
}

// ServeHTTP implements the http.Handler interface for SPA routing
func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// fs.FS paths are unrooted; Clean also strips any ".." segments
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		h.serveIndex(w, r)
		return
	}

	stat, err := fs.Stat(h.fsys, name)
	if err != nil || stat.IsDir() {
		h.serveIndex(w, r)
		return
	}

	data, err := fs.ReadFile(h.fsys, name)
	if err != nil {
		ctxlog.From(r.Context()).Error("Failed to read asset", "path", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if contentType := getContentType(name); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write asset", "path", name, "error", err)
	}
}

func (h *SPAHandler) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.indexFile); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write index.html", "error", err)
	}
}

var mimeTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "application/javascript; charset=utf-8",
	".json": "application/json; charset=utf-8",
	".png":  "image/png",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
}

// getContentType returns the content type for common file extensions
func getContentType(filePath string) string {
	return mimeTypes[path.Ext(filePath)]
}
