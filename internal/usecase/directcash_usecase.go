package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tourdesk/ledger/internal/domain"
)

// DirectCashUseCase is the write path for unattributed cash-in/cash-out
// movements. Same atomicity and reversal discipline as TransactionUseCase,
// but with the cash_in/cash_out sign convention.
type DirectCashUseCase struct {
	txManager  TransactionManager
	partyRepo  PartyRepository
	directRepo DirectTransactionRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
}

// NewDirectCashUseCase creates a new DirectCashUseCase.
func NewDirectCashUseCase(
	txManager TransactionManager,
	partyRepo PartyRepository,
	directRepo DirectTransactionRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *DirectCashUseCase {
	return &DirectCashUseCase{
		txManager:  txManager,
		partyRepo:  partyRepo,
		directRepo: directRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
	}
}

// CreateDirectInput represents input for a direct cash movement.
type CreateDirectInput struct {
	PartyID string
	Type    domain.CashType
	Amount  decimal.Decimal
	Note    string
}

// DirectResult carries the movement plus the balance change for display.
type DirectResult struct {
	Direct     *domain.DirectTransaction
	OldBalance decimal.Decimal
	NewBalance decimal.Decimal
}

// Create records a cash movement and applies its delta to the party balance.
func (uc *DirectCashUseCase) Create(ctx context.Context, input CreateDirectInput) (*DirectResult, error) {
	if err := domain.ValidateCashType(input.Type); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	change, err := domain.CashBalanceChange(input.Type, input.Amount)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	party, err := uc.partyRepo.GetByIDForUpdate(ctx, tx, input.PartyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	oldBalance := party.PresentBalance
	newBalance := oldBalance.Add(change)

	direct := &domain.DirectTransaction{
		ID:              uc.idGen.Generate(),
		PartyID:         party.ID,
		Type:            input.Type,
		Amount:          input.Amount,
		Note:            input.Note,
		BalanceChange:   change,
		PreviousBalance: oldBalance,
		NewBalance:      newBalance,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.directRepo.Create(ctx, tx, direct); err != nil {
		return nil, err
	}

	if err := uc.partyRepo.UpdateBalance(ctx, tx, party.ID, newBalance, now); err != nil {
		return nil, err
	}

	if err := uc.writeBalanceEvent(ctx, tx, direct, oldBalance, newBalance, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &DirectResult{Direct: direct, OldBalance: oldBalance, NewBalance: newBalance}, nil
}

// UpdateDirectInput patches a direct cash movement. Nil fields keep their value.
type UpdateDirectInput struct {
	Type   *domain.CashType
	Amount *decimal.Decimal
	Note   *string
}

// Update reverses the applied delta, recomputes it from the patched fields,
// and applies it within one transaction.
func (uc *DirectCashUseCase) Update(ctx context.Context, id string, patch UpdateDirectInput) (*DirectResult, error) {
	existing, err := uc.directRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	typ := existing.Type
	if patch.Type != nil {
		typ = *patch.Type
		if err := domain.ValidateCashType(typ); err != nil {
			return nil, err
		}
	}

	amount := existing.Amount
	if patch.Amount != nil {
		amount = *patch.Amount
		if err := domain.ValidateAmount(amount); err != nil {
			return nil, err
		}
	}

	change, err := domain.CashBalanceChange(typ, amount)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	party, err := uc.partyRepo.GetByIDForUpdate(ctx, tx, existing.PartyID)
	if err != nil {
		return nil, err
	}

	direct, err := uc.directRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	oldBalance := party.PresentBalance
	reversed := oldBalance.Sub(direct.BalanceChange)
	newBalance := reversed.Add(change)

	direct.Type = typ
	direct.Amount = amount
	if patch.Note != nil {
		direct.Note = *patch.Note
	}
	direct.BalanceChange = change
	direct.PreviousBalance = reversed
	direct.NewBalance = newBalance
	direct.UpdatedAt = now

	if err := uc.directRepo.Update(ctx, tx, direct); err != nil {
		return nil, err
	}

	if err := uc.partyRepo.UpdateBalance(ctx, tx, party.ID, newBalance, now); err != nil {
		return nil, err
	}

	if err := uc.writeBalanceEvent(ctx, tx, direct, oldBalance, newBalance, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &DirectResult{Direct: direct, OldBalance: oldBalance, NewBalance: newBalance}, nil
}

// Delete reverses the applied delta and removes the movement.
func (uc *DirectCashUseCase) Delete(ctx context.Context, id string) (*DirectResult, error) {
	existing, err := uc.directRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	party, err := uc.partyRepo.GetByIDForUpdate(ctx, tx, existing.PartyID)
	if err != nil {
		return nil, err
	}

	direct, err := uc.directRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	oldBalance := party.PresentBalance
	newBalance := oldBalance.Sub(direct.BalanceChange)

	if err := uc.directRepo.Delete(ctx, tx, id); err != nil {
		return nil, err
	}

	if err := uc.partyRepo.UpdateBalance(ctx, tx, party.ID, newBalance, now); err != nil {
		return nil, err
	}

	if err := uc.writeBalanceEvent(ctx, tx, direct, oldBalance, newBalance, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &DirectResult{Direct: direct, OldBalance: oldBalance, NewBalance: newBalance}, nil
}

// Get retrieves a direct cash movement by ID.
func (uc *DirectCashUseCase) Get(ctx context.Context, id string) (*domain.DirectTransaction, error) {
	return uc.directRepo.GetByID(ctx, id)
}

// ListByParty lists direct cash movements for a party.
func (uc *DirectCashUseCase) ListByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.DirectTransaction, error) {
	limit, offset, _ = domain.ValidatePagination(limit, offset)

	return uc.directRepo.ListByParty(ctx, partyID, limit, offset)
}

func (uc *DirectCashUseCase) writeBalanceEvent(
	ctx context.Context,
	tx Transaction,
	direct *domain.DirectTransaction,
	oldBalance, newBalance decimal.Decimal,
	now time.Time,
) error {
	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   direct.PartyID,
		AggregateType: domain.AggregateTypeParty,
		EventType:     domain.EventTypeBalanceChanged,
		Payload: domain.BalanceChangedEvent{
			PartyID:    direct.PartyID,
			SourceType: string(domain.SourceDirect),
			SourceID:   direct.ID,
			OldBalance: oldBalance.String(),
			NewBalance: newBalance.String(),
		},
		CreatedAt: now,
	})
}
