package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Movement metrics
	TransactionsCreated  prometheus.Counter
	TransactionsReversed prometheus.Counter
	MovementAmount       prometheus.Histogram
	MovementErrors       *prometheus.CounterVec

	// Party metrics
	PartiesCreated  prometheus.Counter
	PartyOperations *prometheus.CounterVec

	// Vendor payment metrics
	PaymentsCreated prometheus.Counter
	PaymentSplits   prometheus.Histogram

	// Reconciliation metrics
	ReconciliationChecks      *prometheus.CounterVec
	ReconciliationDrift       prometheus.Histogram
	ReconciliationCorrections prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBErrors *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Movement metrics
		TransactionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_transactions_created_total",
			Help: "Total number of transactions created",
		}),
		TransactionsReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_transactions_reversed_total",
			Help: "Total number of transactions reversed by edit or delete",
		}),
		MovementAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_movement_amount",
			Help:    "Movement amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		MovementErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_movement_errors_total",
				Help: "Total number of movement errors by type",
			},
			[]string{"error_type"},
		),

		// Party metrics
		PartiesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_parties_created_total",
			Help: "Total number of parties created",
		}),
		PartyOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_party_operations_total",
				Help: "Total party operations by type",
			},
			[]string{"operation"},
		),

		// Vendor payment metrics
		PaymentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_vendor_payments_created_total",
			Help: "Total number of vendor payments created",
		}),
		PaymentSplits: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_vendor_payment_splits",
			Help:    "Number of splits per vendor payment",
			Buckets: []float64{1, 2, 3, 5, 10, 20},
		}),

		// Reconciliation metrics
		ReconciliationChecks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_reconciliation_checks_total",
				Help: "Total reconciliation checks by outcome",
			},
			[]string{"outcome"},
		),
		ReconciliationDrift: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_reconciliation_drift",
			Help:    "Absolute drift observed per reconciliation check",
			Buckets: []float64{0.01, 0.1, 1, 10, 100, 1000, 10000},
		}),
		ReconciliationCorrections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_reconciliation_corrections_total",
			Help: "Total balance corrections applied",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}

// ReconciliationChecked implements usecase.MetricsRecorder.
func (m *Metrics) ReconciliationChecked(corrected bool) {
	outcome := "clean"
	if corrected {
		outcome = "corrected"
		m.ReconciliationCorrections.Inc()
	}

	m.ReconciliationChecks.WithLabelValues(outcome).Inc()
}

// DriftObserved implements usecase.MetricsRecorder.
func (m *Metrics) DriftObserved(drift float64) {
	m.ReconciliationDrift.Observe(drift)
}
