// Package http exposes the assessment service over REST and WebSocket.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig holds the handlers and options for NewRouter.
type RouterConfig struct {
	Assessments    *AssessmentHandler
	Sessions       *SessionHandler
	WS             *WSHandler
	AllowedOrigins []string
}

// NewRouter mounts the REST API under /api, the WebSocket endpoint at /ws and a
// liveness probe at /healthz.
func NewRouter(cfg RouterConfig) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Heartbeat("/healthz"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	if cfg.WS != nil {
		r.Get("/ws", cfg.WS.ServeWS)
	}

	r.Route("/api", func(api chi.Router) {
		// /ws is mounted outside this group so long-lived connections are not cut.
		api.Use(middleware.Timeout(60 * time.Second))
		if cfg.Assessments != nil {
			cfg.Assessments.Routes(api)
		}
		if cfg.Sessions != nil {
			api.Route("/sessions", cfg.Sessions.Routes)
		}
	})
	return r
}
