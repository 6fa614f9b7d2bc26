package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// ReconcileListLimit bounds how many parties a single reconciliation
	// batch will load
	ReconcileListLimit = 10000

	// DefaultReconcileConcurrency is how many parties reconcile in parallel
	DefaultReconcileConcurrency = 4

	// ReportCacheKey and ReportCacheTTL control dry-run report caching
	ReportCacheKey = "reconciliation:report"
	ReportCacheTTL = 30 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
