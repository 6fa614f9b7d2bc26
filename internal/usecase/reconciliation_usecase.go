package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tourdesk/ledger/internal/domain"
)

// MetricsRecorder receives reconciliation observations. Implementations live
// in the metrics infrastructure; a nil recorder disables recording.
type MetricsRecorder interface {
	ReconciliationChecked(corrected bool)
	DriftObserved(drift float64)
}

// ReconciliationUseCase recomputes party balances from source transactions,
// corrects drift beyond tolerance, and writes an audit trail.
type ReconciliationUseCase struct {
	txManager   TransactionManager
	partyRepo   PartyRepository
	auditRepo   AuditRepository
	outboxRepo  OutboxRepository
	source      EntrySource
	idGen       IDGenerator
	retrier     Retrier
	cache       Cache
	metrics     MetricsRecorder
	concurrency int
}

// NewReconciliationUseCase creates a new ReconciliationUseCase. The retrier,
// cache, and metrics may be nil; concurrency <= 0 falls back to the default.
func NewReconciliationUseCase(
	txManager TransactionManager,
	partyRepo PartyRepository,
	auditRepo AuditRepository,
	outboxRepo OutboxRepository,
	source EntrySource,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
	metrics MetricsRecorder,
	concurrency int,
) *ReconciliationUseCase {
	if concurrency <= 0 {
		concurrency = DefaultReconcileConcurrency
	}

	return &ReconciliationUseCase{
		txManager:   txManager,
		partyRepo:   partyRepo,
		auditRepo:   auditRepo,
		outboxRepo:  outboxRepo,
		source:      source,
		idGen:       idGen,
		retrier:     retrier,
		cache:       cache,
		metrics:     metrics,
		concurrency: concurrency,
	}
}

// ReconciliationResult is the outcome for one party.
type ReconciliationResult struct {
	PartyID       string          `json:"party_id"`
	OldBalance    decimal.Decimal `json:"old_balance"`
	ActualBalance decimal.Decimal `json:"actual_balance"`
	Difference    decimal.Decimal `json:"difference"`
	WasReconciled bool            `json:"was_reconciled"`
	CheckedAt     time.Time       `json:"checked_at"`
}

// PartyError captures a per-party failure in a batch run.
type PartyError struct {
	PartyID string `json:"party_id"`
	Error   string `json:"error"`
}

// ReconciliationSummary is the outcome of a batch run.
type ReconciliationSummary struct {
	TotalParties            int                     `json:"total_parties"`
	ReconciledCount         int                     `json:"reconciled_count"`
	TotalAbsoluteDifference decimal.Decimal         `json:"total_absolute_difference"`
	PerParty                []*ReconciliationResult `json:"per_party"`
	Errors                  []PartyError            `json:"errors"`
	CheckedAt               time.Time               `json:"checked_at"`
}

// ReconcileParty recomputes one party's balance from its full source history
// and corrects the cached balance when the drift exceeds tolerance. The
// correction and its audit entry commit atomically; a run without drift
// writes nothing, so immediately reconciling again is a no-op.
func (uc *ReconciliationUseCase) ReconcileParty(ctx context.Context, partyID string) (*ReconciliationResult, error) {
	party, err := uc.partyRepo.GetByID(ctx, partyID)
	if err != nil {
		return nil, err
	}

	// Cheap unlocked check first; most parties carry no drift
	result, err := uc.check(ctx, party)
	if err != nil {
		return nil, err
	}

	if !result.WasReconciled {
		uc.record(result)
		return result, nil
	}

	correct := func() error {
		return uc.correct(ctx, partyID, result)
	}

	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, correct)
	} else {
		err = correct()
	}

	if err != nil {
		return nil, fmt.Errorf("reconcile party %s: %w", partyID, err)
	}

	uc.record(result)

	return result, nil
}

// ReconcileAll reconciles every party. Parties are processed independently on
// a bounded worker pool; a failure on one party is collected and never aborts
// the batch.
func (uc *ReconciliationUseCase) ReconcileAll(ctx context.Context) (*ReconciliationSummary, error) {
	return uc.runBatch(ctx, uc.ReconcileParty)
}

// Report is the dry-run variant of ReconcileAll: it computes differences
// without writing balance corrections or audit entries. Results are cached
// briefly so operators refreshing a drift dashboard do not rescan the ledger.
func (uc *ReconciliationUseCase) Report(ctx context.Context) (*ReconciliationSummary, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, ReportCacheKey); err == nil && cached != "" {
			var summary ReconciliationSummary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return &summary, nil
			}
		}
	}

	summary, err := uc.runBatch(ctx, func(ctx context.Context, partyID string) (*ReconciliationResult, error) {
		party, err := uc.partyRepo.GetByID(ctx, partyID)
		if err != nil {
			return nil, err
		}

		return uc.check(ctx, party)
	})
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if encoded, err := json.Marshal(summary); err == nil {
			_ = uc.cache.Set(ctx, ReportCacheKey, string(encoded), ReportCacheTTL)
		}
	}

	return summary, nil
}

// check computes the actual balance without taking locks or writing.
func (uc *ReconciliationUseCase) check(ctx context.Context, party *domain.Party) (*ReconciliationResult, error) {
	actual, err := uc.computeActual(ctx, party)
	if err != nil {
		return nil, err
	}

	difference := actual.Sub(party.PresentBalance)

	return &ReconciliationResult{
		PartyID:       party.ID,
		OldBalance:    party.PresentBalance,
		ActualBalance: actual,
		Difference:    difference,
		WasReconciled: !domain.WithinTolerance(difference),
		CheckedAt:     time.Now().UTC(),
	}, nil
}

// correct re-reads the party under lock, recomputes with the lock held (a
// writer that committed between the unlocked check and the lock acquisition
// is visible by then), and applies the correction plus audit entry.
func (uc *ReconciliationUseCase) correct(ctx context.Context, partyID string, result *ReconciliationResult) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	party, err := uc.partyRepo.GetByIDForUpdate(ctx, tx, partyID)
	if err != nil {
		return err
	}

	actual, err := uc.computeActual(ctx, party)
	if err != nil {
		return err
	}

	oldBalance := party.PresentBalance
	difference := actual.Sub(oldBalance)
	now := time.Now().UTC()

	result.OldBalance = oldBalance
	result.ActualBalance = actual
	result.Difference = difference
	result.CheckedAt = now

	if domain.WithinTolerance(difference) {
		// Drift resolved itself between check and lock; nothing to write
		result.WasReconciled = false
		return nil
	}

	result.WasReconciled = true

	if err := uc.partyRepo.UpdateBalance(ctx, tx, party.ID, actual, now); err != nil {
		return err
	}

	audit := &domain.ReconciliationAudit{
		ID:         uc.idGen.Generate(),
		PartyID:    party.ID,
		OldBalance: oldBalance,
		NewBalance: actual,
		Difference: difference,
		Metadata: domain.JSON{
			"party_kind":   string(party.Kind),
			"opening_type": string(party.OpeningBalanceType),
		},
		CreatedAt: now,
	}

	if err := uc.auditRepo.Create(ctx, tx, audit); err != nil {
		return err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   party.ID,
		AggregateType: domain.AggregateTypeParty,
		EventType:     domain.EventTypePartyReconciled,
		Payload: domain.PartyReconciledEvent{
			PartyID:    party.ID,
			OldBalance: oldBalance.String(),
			NewBalance: actual.String(),
			Difference: difference.String(),
		},
		CreatedAt: now,
	}

	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// computeActual recomputes the balance from the opening configuration and the
// party's full source history. Balances stay signed for both party kinds:
// negative simply means advance, so no clamping happens here.
func (uc *ReconciliationUseCase) computeActual(ctx context.Context, party *domain.Party) (decimal.Decimal, error) {
	if err := party.ValidateOpening(); err != nil {
		return decimal.Zero, fmt.Errorf("party %s: %w", party.ID, err)
	}

	totals, err := uc.source.SumEntries(ctx, party.ID, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum sources for party %s: %w", party.ID, err)
	}

	return domain.BroughtForward(party.OpeningBalance(), totals), nil
}

func (uc *ReconciliationUseCase) runBatch(
	ctx context.Context,
	reconcile func(ctx context.Context, partyID string) (*ReconciliationResult, error),
) (*ReconciliationSummary, error) {
	// Page through the full party set; a single page would silently skip
	// everything past the page bound.
	var parties []*domain.Party
	for offset := 0; ; offset += ReconcileListLimit {
		page, err := uc.partyRepo.List(ctx, nil, ReconcileListLimit, offset)
		if err != nil {
			return nil, fmt.Errorf("list parties: %w", err)
		}

		parties = append(parties, page...)

		if len(page) < ReconcileListLimit {
			break
		}
	}

	summary := &ReconciliationSummary{
		TotalParties:            len(parties),
		TotalAbsoluteDifference: decimal.Zero,
		CheckedAt:               time.Now().UTC(),
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		slot = make(chan struct{}, uc.concurrency)
	)

	for _, party := range parties {
		wg.Add(1)

		go func(partyID string) {
			defer wg.Done()

			slot <- struct{}{}
			defer func() { <-slot }()

			result, err := reconcile(ctx, partyID)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				summary.Errors = append(summary.Errors, PartyError{PartyID: partyID, Error: err.Error()})
				return
			}

			summary.PerParty = append(summary.PerParty, result)
			summary.TotalAbsoluteDifference = summary.TotalAbsoluteDifference.Add(result.Difference.Abs())
			if result.WasReconciled {
				summary.ReconciledCount++
			}
		}(party.ID)
	}

	wg.Wait()

	return summary, nil
}

func (uc *ReconciliationUseCase) record(result *ReconciliationResult) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.ReconciliationChecked(result.WasReconciled)
	drift, _ := result.Difference.Abs().Float64()
	uc.metrics.DriftObserved(drift)
}
