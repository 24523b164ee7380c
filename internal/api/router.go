package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Adityaaz10/decision-intelligence-platform/internal/engine"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/events"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/metrics"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/store"
)

const serviceVersion = "1.0.0"

func NewRouter(s store.Store, ec events.Client, eng *engine.Engine, m *metrics.Metrics, adminToken string, rateLimitPerMinute int, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(rateLimitPerMinute))

	comparisons := NewComparisonsHandler(s, ec, eng, m)
	explain := NewExplainHandler(s)
	admin := NewAdminHandler(s)

	r.Get("/health", healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{
				"service": "decision-intelligence-platform",
				"version": serviceVersion,
			})
		})

		r.Post("/compare", comparisons.Compare)
		r.Get("/comparisons", comparisons.List)
		r.Get("/comparisons/search", comparisons.Search)
		r.Get("/comparisons/{id}", comparisons.Get)
		r.Get("/comparisons/{id}/explain", explain.Explain)
		r.Get("/options/popular", comparisons.PopularOptions)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Get("/admin/stats", admin.Stats)
			r.Delete("/admin/comparisons/{id}", admin.Delete)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
