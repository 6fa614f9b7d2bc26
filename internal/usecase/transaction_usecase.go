package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tourdesk/ledger/internal/domain"
)

// TransactionUseCase is the write path for signed movements against a single
// party. Every operation runs its ledger record and the party balance update
// inside one database transaction with the party row locked, so concurrent
// writers against the same party serialize.
type TransactionUseCase struct {
	txManager  TransactionManager
	partyRepo  PartyRepository
	txnRepo    TransactionRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TransactionManager,
	partyRepo PartyRepository,
	txnRepo TransactionRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:  txManager,
		partyRepo:  partyRepo,
		txnRepo:    txnRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
	}
}

// CreateTransactionInput represents input for creating a transaction.
type CreateTransactionInput struct {
	PartyID   string
	Date      time.Time
	Direction domain.TransactionDirection
	Amount    decimal.Decimal
	VoucherNo string
	Metadata  map[string]any
}

// TransactionResult carries the movement plus the balance change for display.
type TransactionResult struct {
	Transaction *domain.Transaction
	OldBalance  decimal.Decimal
	NewBalance  decimal.Decimal
}

// Create records a movement and applies its signed delta to the party balance.
func (uc *TransactionUseCase) Create(ctx context.Context, input CreateTransactionInput) (*TransactionResult, error) {
	// Validate before any mutation
	if err := domain.ValidateDirection(input.Direction); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateMetadata(input.Metadata); err != nil {
		return nil, err
	}

	change, err := domain.BalanceChangeFor(input.Direction, input.Amount)
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

	date := input.Date
	if date.IsZero() {
		date = now
	}

	oldBalance := party.PresentBalance
	newBalance := oldBalance.Add(change)

	txn := &domain.Transaction{
		ID:              uc.idGen.Generate(),
		PartyID:         party.ID,
		Date:            date,
		Direction:       input.Direction,
		Amount:          input.Amount,
		VoucherNo:       input.VoucherNo,
		Metadata:        input.Metadata,
		BalanceChange:   change,
		PreviousBalance: oldBalance,
		NewBalance:      newBalance,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.partyRepo.UpdateBalance(ctx, tx, party.ID, newBalance, now); err != nil {
		return nil, err
	}

	if err := uc.writeBalanceEvent(ctx, tx, txn, oldBalance, newBalance, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &TransactionResult{Transaction: txn, OldBalance: oldBalance, NewBalance: newBalance}, nil
}

// UpdateTransactionInput patches a transaction. Nil fields keep their value.
type UpdateTransactionInput struct {
	Date      *time.Time
	Direction *domain.TransactionDirection
	Amount    *decimal.Decimal
	VoucherNo *string
	Metadata  map[string]any
}

// Update reverses the previously applied delta, recomputes the delta from the
// patched fields, and applies it, all within one transaction.
func (uc *TransactionUseCase) Update(ctx context.Context, id string, patch UpdateTransactionInput) (*TransactionResult, error) {
	existing, err := uc.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Resolve and validate the patched fields before any mutation
	direction := existing.Direction
	if patch.Direction != nil {
		direction = *patch.Direction
		if err := domain.ValidateDirection(direction); err != nil {
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

	if err := domain.ValidateMetadata(patch.Metadata); err != nil {
		return nil, err
	}

	change, err := domain.BalanceChangeFor(direction, amount)
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

	// Lock order is party first, then the movement row
	party, err := uc.partyRepo.GetByIDForUpdate(ctx, tx, existing.PartyID)
	if err != nil {
		return nil, err
	}

	txn, err := uc.txnRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	oldBalance := party.PresentBalance
	reversed := oldBalance.Sub(txn.BalanceChange)
	newBalance := reversed.Add(change)

	txn.Direction = direction
	txn.Amount = amount
	if patch.Date != nil {
		txn.Date = *patch.Date
	}
	if patch.VoucherNo != nil {
		txn.VoucherNo = *patch.VoucherNo
	}
	if patch.Metadata != nil {
		txn.Metadata = patch.Metadata
	}
	txn.BalanceChange = change
	txn.PreviousBalance = reversed
	txn.NewBalance = newBalance
	txn.UpdatedAt = now

	if err := uc.txnRepo.Update(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.partyRepo.UpdateBalance(ctx, tx, party.ID, newBalance, now); err != nil {
		return nil, err
	}

	if err := uc.writeBalanceEvent(ctx, tx, txn, oldBalance, newBalance, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &TransactionResult{Transaction: txn, OldBalance: oldBalance, NewBalance: newBalance}, nil
}

// Delete reverses the applied delta and removes the movement. A movement
// whose party no longer exists fails with ErrPartyNotFound; the ledger does
// not silently clean up orphans.
func (uc *TransactionUseCase) Delete(ctx context.Context, id string) (*TransactionResult, error) {
	existing, err := uc.txnRepo.GetByID(ctx, id)
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

	txn, err := uc.txnRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	oldBalance := party.PresentBalance
	newBalance := oldBalance.Sub(txn.BalanceChange)

	if err := uc.txnRepo.Delete(ctx, tx, id); err != nil {
		return nil, err
	}

	if err := uc.partyRepo.UpdateBalance(ctx, tx, party.ID, newBalance, now); err != nil {
		return nil, err
	}

	if err := uc.writeBalanceEvent(ctx, tx, txn, oldBalance, newBalance, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &TransactionResult{Transaction: txn, OldBalance: oldBalance, NewBalance: newBalance}, nil
}

// Get retrieves a transaction by ID.
func (uc *TransactionUseCase) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txnRepo.GetByID(ctx, id)
}

// ListByParty lists transactions for a party.
func (uc *TransactionUseCase) ListByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.Transaction, error) {
	limit, offset, _ = domain.ValidatePagination(limit, offset)

	return uc.txnRepo.ListByParty(ctx, partyID, limit, offset)
}

func (uc *TransactionUseCase) writeBalanceEvent(
	ctx context.Context,
	tx Transaction,
	txn *domain.Transaction,
	oldBalance, newBalance decimal.Decimal,
	now time.Time,
) error {
	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   txn.PartyID,
		AggregateType: domain.AggregateTypeParty,
		EventType:     domain.EventTypeBalanceChanged,
		Payload: domain.BalanceChangedEvent{
			PartyID:    txn.PartyID,
			SourceType: string(domain.SourceTransaction),
			SourceID:   txn.ID,
			OldBalance: oldBalance.String(),
			NewBalance: newBalance.String(),
		},
		CreatedAt: now,
	})
}
