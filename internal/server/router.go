package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cloo-solutions/faqd/internal/api"
	"github.com/cloo-solutions/faqd/internal/api/handlers"
	"github.com/cloo-solutions/faqd/internal/api/middleware"
)

type RouterConfig struct {
	EntryHandler   *handlers.EntryHandler
	ArchiveHandler *handlers.ArchiveHandler
	Logger         *zap.Logger
	// APIToken enables bearer auth on every route but /health and /metrics
	APIToken    string
	CORSOrigins []string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog(cfg.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(middleware.MaxBodyBytes(middleware.DefaultMaxBodyBytes))
	r.Use(middleware.TokenAuth(cfg.APIToken, "/health", "/metrics"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/faq", func(r chi.Router) {
		r.Get("/", cfg.EntryHandler.List)
		r.Post("/", cfg.EntryHandler.Create)
		r.Get("/{id}", cfg.EntryHandler.Get)
		r.Put("/{id}", cfg.EntryHandler.Update)
		r.Delete("/{id}", cfg.EntryHandler.Delete)
	})

	r.Get("/vector", cfg.ArchiveHandler.ListFiles)
	r.Get("/vector-files/*", cfg.ArchiveHandler.GetFileContent)

	return r
}
