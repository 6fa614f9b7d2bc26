package usecase

import (
	"context"
	"time"

	"github.com/tourdesk/ledger/internal/domain"
)

// LedgerUseCase builds party statements: brought-forward balance plus the
// running ledger over a date window. It shares the balance arithmetic with
// reconciliation via domain.RunningLedger, so the statement a user sees and
// the balance reconciliation recomputes can never diverge.
type LedgerUseCase struct {
	partyRepo PartyRepository
	source    EntrySource
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(partyRepo PartyRepository, source EntrySource) *LedgerUseCase {
	return &LedgerUseCase{
		partyRepo: partyRepo,
		source:    source,
	}
}

// StatementInput represents input for a statement. Nil bounds are unbounded.
type StatementInput struct {
	PartyID string
	From    *time.Time
	To      *time.Time
}

// Statement is a party ledger over a window.
type Statement struct {
	Party  *domain.Party
	Result domain.LedgerResult
}

// Statement computes the party's ledger for the window.
func (uc *LedgerUseCase) Statement(ctx context.Context, input StatementInput) (*Statement, error) {
	party, err := uc.partyRepo.GetByID(ctx, input.PartyID)
	if err != nil {
		return nil, err
	}

	if err := party.ValidateOpening(); err != nil {
		return nil, err
	}

	pre := domain.EntryTotals{}
	if input.From != nil {
		pre, err = uc.source.SumEntries(ctx, party.ID, input.From)
		if err != nil {
			return nil, err
		}
	}

	broughtForward := domain.BroughtForward(party.OpeningBalance(), pre)

	entries, err := uc.source.ListEntries(ctx, party.ID, input.From, input.To)
	if err != nil {
		return nil, err
	}

	return &Statement{
		Party:  party,
		Result: domain.RunningLedger(broughtForward, entries),
	}, nil
}
