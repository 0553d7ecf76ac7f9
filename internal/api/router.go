package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Cheertaboi/coupon-dashboard/internal/api/handlers"
	"github.com/Cheertaboi/coupon-dashboard/internal/api/middleware"
)

// NewRouter builds the HTTP router for the coupon dashboard
func NewRouter(dashboard *handlers.DashboardHandler, api *handlers.APIHandler, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimw.Recoverer)

	// HTML dashboard
	r.Get("/", dashboard.Index)
	r.Post("/filters", dashboard.ApplyFilters)
	r.Get("/export", dashboard.Export)

	// JSON endpoints
	r.Route("/api", func(r chi.Router) {
		r.Get("/cupons", api.Cupons)
		r.Get("/export", api.Export)
		r.Get("/lojas", api.Lojas)
		r.Get("/estados", api.Estados)
		r.Get("/estados/{uf}/municipios", api.Municipios)
	})

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
