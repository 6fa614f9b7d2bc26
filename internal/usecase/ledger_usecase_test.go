package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/tourdesk/ledger/internal/domain"
	"github.com/tourdesk/ledger/internal/usecase"
	"github.com/tourdesk/ledger/internal/usecase/mocks"
)

func TestLedgerUseCase_Statement_FullHistory(t *testing.T) {
	ctrl := gomock.NewController(t)

	partyRepo := mocks.NewMockPartyRepository()
	source := mocks.NewMockEntrySource(ctrl)

	partyRepo.Create(context.Background(), &domain.Party{
		ID:                   "party-1",
		Kind:                 domain.PartyKindClient,
		OpeningBalanceType:   domain.OpeningBalanceDue,
		OpeningBalanceAmount: decimal.NewFromInt(1000),
	})

	day := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	// Unbounded statement: no pre-window sum, opening balance carries straight in
	source.EXPECT().ListEntries(gomock.Any(), "party-1", gomock.Nil(), gomock.Nil()).Return([]domain.LedgerEntry{
		{Date: day, CreatedAt: day, Credit: decimal.NewFromInt(500), SourceID: "t1"},
		{Date: day.Add(time.Hour), CreatedAt: day.Add(time.Hour), Debit: decimal.NewFromInt(200), SourceID: "t2"},
	}, nil)

	uc := usecase.NewLedgerUseCase(partyRepo, source)

	stmt, err := uc.Statement(context.Background(), usecase.StatementInput{PartyID: "party-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !stmt.Result.BroughtForward.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected brought forward 1000, got %s", stmt.Result.BroughtForward)
	}

	if !stmt.Result.ClosingBalance.Equal(decimal.NewFromInt(700)) {
		t.Errorf("expected closing 700, got %s", stmt.Result.ClosingBalance)
	}

	if len(stmt.Result.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(stmt.Result.Lines))
	}
}

func TestLedgerUseCase_Statement_Window(t *testing.T) {
	ctrl := gomock.NewController(t)

	partyRepo := mocks.NewMockPartyRepository()
	source := mocks.NewMockEntrySource(ctrl)

	partyRepo.Create(context.Background(), &domain.Party{
		ID:                 "party-1",
		Kind:               domain.PartyKindClient,
		OpeningBalanceType: domain.OpeningBalanceNone,
	})

	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)

	// History before the window folds into the brought-forward line
	source.EXPECT().SumEntries(gomock.Any(), "party-1", &from).Return(domain.EntryTotals{
		Debit:  decimal.NewFromInt(900),
		Credit: decimal.NewFromInt(300),
	}, nil)

	source.EXPECT().ListEntries(gomock.Any(), "party-1", &from, &to).Return([]domain.LedgerEntry{
		{Date: from.AddDate(0, 0, 5), CreatedAt: from, Credit: decimal.NewFromInt(100), SourceID: "t1"},
	}, nil)

	uc := usecase.NewLedgerUseCase(partyRepo, source)

	stmt, err := uc.Statement(context.Background(), usecase.StatementInput{
		PartyID: "party-1",
		From:    &from,
		To:      &to,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !stmt.Result.BroughtForward.Equal(decimal.NewFromInt(600)) {
		t.Errorf("expected brought forward 600, got %s", stmt.Result.BroughtForward)
	}

	if !stmt.Result.ClosingBalance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected closing 500, got %s", stmt.Result.ClosingBalance)
	}
}

func TestLedgerUseCase_Statement_UnknownParty(t *testing.T) {
	ctrl := gomock.NewController(t)

	uc := usecase.NewLedgerUseCase(mocks.NewMockPartyRepository(), mocks.NewMockEntrySource(ctrl))

	if _, err := uc.Statement(context.Background(), usecase.StatementInput{PartyID: "ghost"}); err != domain.ErrPartyNotFound {
		t.Errorf("expected ErrPartyNotFound, got %v", err)
	}
}

func TestCompositeSource_MergesAndSums(t *testing.T) {
	ctrl := gomock.NewController(t)

	day := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	a := mocks.NewMockEntrySource(ctrl)
	a.EXPECT().ListEntries(gomock.Any(), "party-1", gomock.Nil(), gomock.Nil()).Return([]domain.LedgerEntry{
		{Date: day, CreatedAt: day, Debit: decimal.NewFromInt(100)},
	}, nil)
	a.EXPECT().SumEntries(gomock.Any(), "party-1", gomock.Nil()).Return(domain.EntryTotals{
		Debit: decimal.NewFromInt(100),
	}, nil)

	b := mocks.NewMockEntrySource(ctrl)
	b.EXPECT().ListEntries(gomock.Any(), "party-1", gomock.Nil(), gomock.Nil()).Return([]domain.LedgerEntry{
		{Date: day, CreatedAt: day, Credit: decimal.NewFromInt(40)},
	}, nil)
	b.EXPECT().SumEntries(gomock.Any(), "party-1", gomock.Nil()).Return(domain.EntryTotals{
		Credit: decimal.NewFromInt(40),
	}, nil)

	composite := usecase.NewCompositeSource(a, b)

	entries, err := composite.ListEntries(context.Background(), "party-1", nil, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(entries))
	}

	totals, err := composite.SumEntries(context.Background(), "party-1", nil)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if !totals.Debit.Equal(decimal.NewFromInt(100)) || !totals.Credit.Equal(decimal.NewFromInt(40)) {
		t.Errorf("expected totals 100/40, got %s/%s", totals.Debit, totals.Credit)
	}
}
