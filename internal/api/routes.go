package api

import (
	"net/http"
	"time"

	"trade-journal/config"
	"trade-journal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates and configures a Chi router with all routes
func NewRouter(h *Handler, auth services.Authenticator, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(CORSMiddleware(cfg.HTTP.CORSAllowedOrigins))
	r.Use(MetricsMiddleware)

	// Metrics endpoint for Prometheus
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Health check, outside the auth wall
		r.Get("/health", h.HandleHealth)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(auth))

			// Trades
			r.Route("/trades", func(r chi.Router) {
				r.Post("/", h.HandleCreateTrade)
				r.Get("/", h.HandleListTrades)
				r.Post("/import", h.HandleImportTrades)
				r.Get("/stats", h.HandleStats)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.HandleGetTrade)
					r.Patch("/", h.HandleUpdateTrade)
					r.Delete("/", h.HandleDeleteTrade)
					r.Post("/close", h.HandleCloseTrade)
					r.Post("/critique", h.HandleCritiqueTrade)
					r.Post("/legs", h.HandleAddTradeLeg)
					r.Get("/legs", h.HandleGetTradeLegs)
				})
			})

			// Analytics
			r.Route("/analytics", func(r chi.Router) {
				r.Get("/equity-curve", h.HandleEquityCurve)
				r.Get("/drawdown", h.HandleDrawdown)
				r.Get("/win-loss", h.HandleWinLoss)
				r.Get("/setups", h.HandleSetupPerformance)
				r.Get("/time", h.HandleTimeBased)
			})

			// Risk calculators
			r.Route("/risk", func(r chi.Router) {
				r.Post("/position-size", h.HandleRiskPositionSize)
				r.Post("/kelly", h.HandleRiskKelly)
				r.Get("/portfolio-heat", h.HandleRiskPortfolioHeat)
			})
		})
	})

	return r
}
