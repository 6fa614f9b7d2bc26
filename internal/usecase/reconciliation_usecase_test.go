package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/tourdesk/ledger/internal/domain"
	"github.com/tourdesk/ledger/internal/usecase"
	"github.com/tourdesk/ledger/internal/usecase/mocks"
)

type reconcileFixture struct {
	uc         *usecase.ReconciliationUseCase
	partyRepo  *mocks.MockPartyRepository
	auditRepo  *mocks.MockAuditRepository
	outboxRepo *mocks.MockOutboxRepository
	cache      *mocks.MockCache
	source     *mocks.MockEntrySource
}

func newReconcileFixture(t *testing.T) *reconcileFixture {
	ctrl := gomock.NewController(t)

	f := &reconcileFixture{
		partyRepo:  mocks.NewMockPartyRepository(),
		auditRepo:  mocks.NewMockAuditRepository(),
		outboxRepo: mocks.NewMockOutboxRepository(),
		cache:      mocks.NewMockCache(),
		source:     mocks.NewMockEntrySource(ctrl),
	}

	f.uc = usecase.NewReconciliationUseCase(
		mocks.NewMockTransactionManager(),
		f.partyRepo,
		f.auditRepo,
		f.outboxRepo,
		f.source,
		mocks.NewMockIDGenerator(),
		mocks.NewMockRetrier(),
		f.cache,
		nil,
		1,
	)

	return f
}

func TestReconciliationUseCase_ReconcileParty_NoDrift(t *testing.T) {
	f := newReconcileFixture(t)

	f.partyRepo.Create(context.Background(), &domain.Party{
		ID:                 "party-1",
		Kind:               domain.PartyKindClient,
		OpeningBalanceType: domain.OpeningBalanceNone,
		PresentBalance:     decimal.NewFromInt(700),
	})

	// Sources sum to exactly the cached balance
	f.source.EXPECT().SumEntries(gomock.Any(), "party-1", gomock.Nil()).Return(domain.EntryTotals{
		Debit:  decimal.NewFromInt(1200),
		Credit: decimal.NewFromInt(500),
	}, nil)

	result, err := f.uc.ReconcileParty(context.Background(), "party-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.WasReconciled {
		t.Error("expected no correction")
	}

	if !result.Difference.IsZero() {
		t.Errorf("expected zero difference, got %s", result.Difference)
	}

	if len(f.auditRepo.Audits()) != 0 {
		t.Errorf("expected no audit entries, got %d", len(f.auditRepo.Audits()))
	}
}

func TestReconciliationUseCase_ReconcileParty_CorrectsDrift(t *testing.T) {
	f := newReconcileFixture(t)

	// Cached balance has drifted 100 below the recomputed value
	f.partyRepo.Create(context.Background(), &domain.Party{
		ID:                   "party-1",
		Kind:                 domain.PartyKindClient,
		OpeningBalanceType:   domain.OpeningBalanceDue,
		OpeningBalanceAmount: decimal.NewFromInt(1000),
		PresentBalance:       decimal.NewFromInt(400),
	})

	// Opening 1000 + 0 - 500 = 500 actual
	f.source.EXPECT().SumEntries(gomock.Any(), "party-1", gomock.Nil()).Return(domain.EntryTotals{
		Debit:  decimal.Zero,
		Credit: decimal.NewFromInt(500),
	}, nil).Times(2)

	result, err := f.uc.ReconcileParty(context.Background(), "party-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.WasReconciled {
		t.Fatal("expected a correction")
	}

	if !result.ActualBalance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected actual 500, got %s", result.ActualBalance)
	}

	if !result.Difference.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected difference 100, got %s", result.Difference)
	}

	party, _ := f.partyRepo.GetByID(context.Background(), "party-1")
	if !party.PresentBalance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected stored balance 500, got %s", party.PresentBalance)
	}

	audits := f.auditRepo.Audits()
	if len(audits) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(audits))
	}
	if !audits[0].OldBalance.Equal(decimal.NewFromInt(400)) || !audits[0].NewBalance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("audit recorded %s -> %s, want 400 -> 500", audits[0].OldBalance, audits[0].NewBalance)
	}

	events := f.outboxRepo.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 outbox event, got %d", len(events))
	}
	if events[0].EventType != domain.EventTypePartyReconciled {
		t.Errorf("expected event %s, got %s", domain.EventTypePartyReconciled, events[0].EventType)
	}

	payload, ok := events[0].Payload.(domain.PartyReconciledEvent)
	if !ok {
		t.Fatalf("expected PartyReconciledEvent payload, got %T", events[0].Payload)
	}
	if payload.OldBalance != "400" || payload.NewBalance != "500" {
		t.Errorf("payload recorded %s -> %s, want 400 -> 500", payload.OldBalance, payload.NewBalance)
	}
}

func TestReconciliationUseCase_ReconcileParty_ConvergesAfterCorrection(t *testing.T) {
	f := newReconcileFixture(t)

	f.partyRepo.Create(context.Background(), &domain.Party{
		ID:                   "party-1",
		Kind:                 domain.PartyKindClient,
		OpeningBalanceType:   domain.OpeningBalanceDue,
		OpeningBalanceAmount: decimal.NewFromInt(1000),
		PresentBalance:       decimal.NewFromInt(400),
	})

	// Check + correct on the first run, check again on the second
	f.source.EXPECT().SumEntries(gomock.Any(), "party-1", gomock.Nil()).Return(domain.EntryTotals{
		Credit: decimal.NewFromInt(500),
	}, nil).Times(3)

	first, err := f.uc.ReconcileParty(context.Background(), "party-1")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if !first.WasReconciled {
		t.Fatal("expected the first run to correct")
	}

	second, err := f.uc.ReconcileParty(context.Background(), "party-1")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if second.WasReconciled {
		t.Error("expected the second run to find no drift")
	}

	if !second.Difference.IsZero() {
		t.Errorf("expected zero difference on the second run, got %s", second.Difference)
	}

	if len(f.auditRepo.Audits()) != 1 {
		t.Errorf("expected exactly 1 audit entry, got %d", len(f.auditRepo.Audits()))
	}
}

func TestReconciliationUseCase_ReconcileParty_DriftResolvedUnderLock(t *testing.T) {
	f := newReconcileFixture(t)

	f.partyRepo.Create(context.Background(), &domain.Party{
		ID:                 "party-1",
		Kind:               domain.PartyKindClient,
		OpeningBalanceType: domain.OpeningBalanceNone,
		PresentBalance:     decimal.NewFromInt(500),
	})

	// The unlocked check sees drift; by the time the lock is held a concurrent
	// writer has already fixed the balance.
	gomock.InOrder(
		f.source.EXPECT().SumEntries(gomock.Any(), "party-1", gomock.Nil()).Return(domain.EntryTotals{
			Debit: decimal.NewFromInt(600),
		}, nil),
		f.source.EXPECT().SumEntries(gomock.Any(), "party-1", gomock.Nil()).Return(domain.EntryTotals{
			Debit: decimal.NewFromInt(500),
		}, nil),
	)

	result, err := f.uc.ReconcileParty(context.Background(), "party-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.WasReconciled {
		t.Error("expected no correction once drift resolved")
	}

	if len(f.auditRepo.Audits()) != 0 {
		t.Errorf("expected no audit entries, got %d", len(f.auditRepo.Audits()))
	}
}

func TestReconciliationUseCase_ReconcileParty_InvalidOpening(t *testing.T) {
	f := newReconcileFixture(t)

	f.partyRepo.Create(context.Background(), &domain.Party{
		ID:                 "party-1",
		OpeningBalanceType: "loan",
	})

	_, err := f.uc.ReconcileParty(context.Background(), "party-1")
	if !errors.Is(err, domain.ErrInvalidOpeningBalance) {
		t.Errorf("expected ErrInvalidOpeningBalance, got %v", err)
	}
}

func TestReconciliationUseCase_Report_IsDryRun(t *testing.T) {
	f := newReconcileFixture(t)

	f.partyRepo.Create(context.Background(), &domain.Party{
		ID:                 "party-1",
		Kind:               domain.PartyKindClient,
		OpeningBalanceType: domain.OpeningBalanceNone,
		PresentBalance:     decimal.NewFromInt(400),
	})

	// Drifted by 100, but a report must not correct it
	f.source.EXPECT().SumEntries(gomock.Any(), "party-1", gomock.Nil()).Return(domain.EntryTotals{
		Debit: decimal.NewFromInt(500),
	}, nil)

	summary, err := f.uc.Report(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.ReconciledCount != 1 {
		t.Errorf("expected 1 drifted party, got %d", summary.ReconciledCount)
	}

	if !summary.TotalAbsoluteDifference.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected total difference 100, got %s", summary.TotalAbsoluteDifference)
	}

	party, _ := f.partyRepo.GetByID(context.Background(), "party-1")
	if !party.PresentBalance.Equal(decimal.NewFromInt(400)) {
		t.Errorf("report corrected the balance to %s", party.PresentBalance)
	}

	if len(f.auditRepo.Audits()) != 0 {
		t.Errorf("report wrote %d audit entries", len(f.auditRepo.Audits()))
	}

	// Second call is served from cache; no further source scans expected
	cached, err := f.uc.Report(context.Background())
	if err != nil {
		t.Fatalf("cached report: %v", err)
	}
	if cached.ReconciledCount != 1 {
		t.Errorf("cached report lost results: %d", cached.ReconciledCount)
	}
}

func TestReconciliationUseCase_ReconcileAll_IsolatesFailures(t *testing.T) {
	f := newReconcileFixture(t)

	f.partyRepo.Create(context.Background(), &domain.Party{
		ID:                 "good",
		Kind:               domain.PartyKindClient,
		OpeningBalanceType: domain.OpeningBalanceNone,
		PresentBalance:     decimal.NewFromInt(100),
	})
	f.partyRepo.Create(context.Background(), &domain.Party{
		ID:                 "bad",
		Kind:               domain.PartyKindClient,
		OpeningBalanceType: domain.OpeningBalanceNone,
	})

	f.source.EXPECT().SumEntries(gomock.Any(), "good", gomock.Nil()).Return(domain.EntryTotals{
		Debit: decimal.NewFromInt(100),
	}, nil)
	f.source.EXPECT().SumEntries(gomock.Any(), "bad", gomock.Nil()).Return(domain.EntryTotals{}, errors.New("source offline"))

	summary, err := f.uc.ReconcileAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.TotalParties != 2 {
		t.Errorf("expected 2 parties, got %d", summary.TotalParties)
	}

	if len(summary.Errors) != 1 || summary.Errors[0].PartyID != "bad" {
		t.Fatalf("expected one error for party bad, got %+v", summary.Errors)
	}

	if len(summary.PerParty) != 1 || summary.PerParty[0].PartyID != "good" {
		t.Fatalf("expected one result for party good, got %+v", summary.PerParty)
	}
}

func TestReconciliationUseCase_ReconcileAll_PagesThroughAllParties(t *testing.T) {
	f := newReconcileFixture(t)

	total := usecase.ReconcileListLimit + 3

	var offsets []int
	f.partyRepo.ListFunc = func(ctx context.Context, kind *domain.PartyKind, limit, offset int) ([]*domain.Party, error) {
		offsets = append(offsets, offset)
		var page []*domain.Party
		for i := offset; i < total && i < offset+limit; i++ {
			page = append(page, &domain.Party{
				ID:                 fmt.Sprintf("party-%d", i),
				Kind:               domain.PartyKindClient,
				OpeningBalanceType: domain.OpeningBalanceNone,
			})
		}
		return page, nil
	}
	f.partyRepo.GetByIDFunc = func(ctx context.Context, id string) (*domain.Party, error) {
		return &domain.Party{
			ID:                 id,
			Kind:               domain.PartyKindClient,
			OpeningBalanceType: domain.OpeningBalanceNone,
		}, nil
	}

	f.source.EXPECT().SumEntries(gomock.Any(), gomock.Any(), gomock.Nil()).Return(domain.EntryTotals{}, nil).AnyTimes()

	summary, err := f.uc.ReconcileAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.TotalParties != total {
		t.Errorf("expected %d parties, got %d", total, summary.TotalParties)
	}

	if len(summary.Errors) != 0 {
		t.Errorf("expected no errors, got %d", len(summary.Errors))
	}

	if len(offsets) != 2 || offsets[0] != 0 || offsets[1] != usecase.ReconcileListLimit {
		t.Errorf("expected offsets [0 %d], got %v", usecase.ReconcileListLimit, offsets)
	}
}
