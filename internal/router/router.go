package router

import (
	"vintelli-api/internal/handler"
	"vintelli-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler        *handler.Handler
	PageHandler    *handler.PageHandler
	AnalyzeHandler *handler.AnalyzeHandler
	AdminHandler   *handler.AdminHandler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	// Browser view and its form endpoint
	if cfg.PageHandler != nil {
		r.Get("/", cfg.PageHandler.Index)
	}
	if cfg.AnalyzeHandler != nil {
		r.Post("/analyze", cfg.AnalyzeHandler.Analyze)
	}

	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Handler != nil {
			r.Get("/health", cfg.Handler.Health)
			r.Get("/ready", cfg.Handler.Ready)
		}

		if cfg.AnalyzeHandler != nil {
			r.Post("/analyze", cfg.AnalyzeHandler.Analyze)
			r.Get("/reference", cfg.AnalyzeHandler.Reference)
		}

		// Admin endpoints
		if cfg.AdminHandler != nil {
			r.Route("/admin", func(r chi.Router) {
				r.Get("/stats", cfg.AdminHandler.GetStats)
				r.Get("/health", cfg.AdminHandler.GetHealth)
				r.Post("/cache/clear", cfg.AdminHandler.ClearCache)
			})
		}
	})

	return r
}
