package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/launchboard/frontend"
	"github.com/secmon-lab/launchboard/pkg/domain/interfaces"
)

// Server represents the HTTP server
type Server struct {
	*http.Server
	router    chi.Router
	dashboard interfaces.Dashboard
	sessions  interfaces.SessionStore
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	addr string,
	dashboard interfaces.Dashboard,
	sessions interfaces.SessionStore,
) (*Server, error) {
	if dashboard == nil {
		return nil, goerr.New("dashboard is required")
	}
	if sessions == nil {
		return nil, goerr.New("session store is required")
	}

	router := chi.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	charts := &chartHandler{dashboard: dashboard}
	sessionsHandler := &sessionHandler{sessions: sessions}

	// Health check
	router.Get("/health", handleHealth)

	// API routes
	router.Route("/api", func(r chi.Router) {
		r.Use(CORS)

		r.Get("/options", charts.handleOptions)

		r.Route("/charts", func(r chi.Router) {
			r.Get("/pie", charts.handlePie)
			r.Get("/scatter", charts.handleScatter)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionsHandler.handleCreate)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", sessionsHandler.handleGet)
				r.Delete("/", sessionsHandler.handleDelete)
				r.Put("/site", sessionsHandler.handleSetSite)
				r.Put("/payload", sessionsHandler.handleSetPayload)
				r.Get("/events", sessionsHandler.handleEvents)
			})
		})
	})

	// Frontend routes
	if fsys, err := frontend.GetFS(); err != nil {
		ctxlog.From(ctx).Warn("Failed to get embedded frontend, using fallback",
			"error", err,
		)
		router.Get("/*", handleFallbackHome)
	} else if spa, err := NewSPAHandler(fsys); err != nil {
		ctxlog.From(ctx).Warn("Failed to create SPA handler, using fallback",
			"error", err,
		)
		router.Get("/*", handleFallbackHome)
	} else {
		ctxlog.From(ctx).Info("Serving frontend from embedded files")
		router.Handle("/*", spa)
	}

	server := &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router:    router,
		dashboard: dashboard,
		sessions:  sessions,
	}

	return server, nil
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "launchboard",
	})
}

// handleFallbackHome handles the root path when frontend is not available
func handleFallbackHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>Launchboard</title>
</head>
<body>
    <h1>Launchboard</h1>
    <p>The dashboard page is not built. The JSON API is available under <a href="/api/options">/api</a>.</p>
</body>
</html>`)); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write fallback home page", "error", err)
	}
}

// writeJSON writes v as a JSON response
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}
