package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Shivanand-hulikatti/event-seat-booking/internal/config"
	"github.com/Shivanand-hulikatti/event-seat-booking/internal/metrics"
)

// RouterOptions carries the cross-cutting dependencies of the router.
type RouterOptions struct {
	Log       *zap.Logger
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer // nil disables /metrics
	RateLimit config.RateLimitConfig
}

// NewRouter builds the chi router with the full middleware stack.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger(opts.Log))        // structured access log
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(CORS)
	r.Use(Metrics(opts.Metrics))

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	// Health
	r.Get("/health", h.Health)

	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Get("/{id}", h.GetEvent)
			r.Get("/{id}/bookings", h.ListBookings)
		})

		reserve := r.With()
		if opts.RateLimit.RPS > 0 {
			limiter := rate.NewLimiter(rate.Limit(opts.RateLimit.RPS), opts.RateLimit.Burst)
			reserve = r.With(RateLimit(limiter, opts.Log))
		}
		reserve.Post("/bookings/reserve", h.Reserve)
	})

	return r
}
