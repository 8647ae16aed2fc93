package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/parfold/parfold/internal/api/handler"
	apimw "github.com/parfold/parfold/internal/api/middleware"
	"github.com/parfold/parfold/internal/service"
	"github.com/parfold/parfold/internal/sim"
)

// NewRouter wires the chi router, attaches all middleware, and registers
// every route. It is the single source of truth for the HTTP surface area.
func NewRouter(
	svc *service.AlertService,
	s *sim.Simulation,
	reg prometheus.Gatherer,
	journalBackend string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)     // recover panics, return 500
	r.Use(chimw.RealIP)        // trust X-Forwarded-For / X-Real-IP
	r.Use(apimw.RequestID)     // X-Request-ID inject / echo
	r.Use(apimw.RequestLogger(logger))

	// --- handler instances ---
	eh := handler.NewEventHandler(svc, logger)
	sh := handler.NewStatsHandler(s)
	hh := handler.NewHealthHandler(journalBackend)

	// --- routes ---
	r.Get("/health", hh.Health)

	// Raw Prometheus scrape endpoint (for Prometheus server / Grafana)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/events", eh.List)
		r.Get("/stats", sh.GetStats)
	})

	return r
}
