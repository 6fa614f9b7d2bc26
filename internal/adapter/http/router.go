package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tourdesk/ledger/internal/adapter/http/handler"
	"github.com/tourdesk/ledger/internal/adapter/http/middleware"
	"github.com/tourdesk/ledger/internal/infrastructure/metrics"
	"github.com/tourdesk/ledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	PartyHandler          *handler.PartyHandler
	TransactionHandler    *handler.TransactionHandler
	DirectCashHandler     *handler.DirectCashHandler
	VendorPaymentHandler  *handler.VendorPaymentHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler
	IdempotencyStore      usecase.IdempotencyStore
	Metrics               *metrics.Metrics
	Logger                zerolog.Logger
	ReconcileRateLimit    float64
	ReconcileRateBurst    int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Parties
		r.Route("/parties", func(r chi.Router) {
			r.Post("/", cfg.PartyHandler.Create)
			r.Get("/", cfg.PartyHandler.List)
			r.Get("/{id}", cfg.PartyHandler.Get)
			r.Get("/{id}/ledger", cfg.PartyHandler.Ledger)
			r.Get("/{id}/audits", cfg.PartyHandler.AuditHistory)
			r.Get("/{id}/transactions", cfg.TransactionHandler.ListByParty)
			r.Get("/{id}/direct-transactions", cfg.DirectCashHandler.ListByParty)
			r.Get("/{id}/payments", cfg.VendorPaymentHandler.ListByVendor)
		})

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Create)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Put("/{id}", cfg.TransactionHandler.Update)
			r.Delete("/{id}", cfg.TransactionHandler.Delete)
		})

		// Direct cash transactions
		r.Route("/direct-transactions", func(r chi.Router) {
			r.Post("/", cfg.DirectCashHandler.Create)
			r.Get("/{id}", cfg.DirectCashHandler.Get)
			r.Put("/{id}", cfg.DirectCashHandler.Update)
			r.Delete("/{id}", cfg.DirectCashHandler.Delete)
		})

		// Vendor payments
		r.Route("/vendor-payments", func(r chi.Router) {
			r.Post("/", cfg.VendorPaymentHandler.Create)
			r.Get("/{id}", cfg.VendorPaymentHandler.Get)
			r.Delete("/{id}", cfg.VendorPaymentHandler.Delete)
			r.Delete("/by-no/{paymentNo}", cfg.VendorPaymentHandler.DeleteByPaymentNo)
		})

		// Reconciliation
		r.Route("/reconciliation", func(r chi.Router) {
			r.Get("/report", cfg.ReconciliationHandler.Report)

			// Full runs rescan every party; keep them rate limited.
			limiter := middleware.NewRateLimiter(cfg.ReconcileRateLimit, cfg.ReconcileRateBurst)
			r.With(limiter.Limit).Post("/run", cfg.ReconciliationHandler.RunAll)
			r.With(limiter.Limit).Post("/parties/{id}/run", cfg.ReconciliationHandler.RunParty)
		})
	})

	return r
}
