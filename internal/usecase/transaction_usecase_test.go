package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tourdesk/ledger/internal/domain"
	"github.com/tourdesk/ledger/internal/usecase"
	"github.com/tourdesk/ledger/internal/usecase/mocks"
)

func newTransactionFixture() (*usecase.TransactionUseCase, *mocks.MockPartyRepository, *mocks.MockTransactionRepository, *mocks.MockOutboxRepository) {
	partyRepo := mocks.NewMockPartyRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	outboxRepo := mocks.NewMockOutboxRepository()
	txMgr := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()

	uc := usecase.NewTransactionUseCase(txMgr, partyRepo, txnRepo, outboxRepo, idGen)

	return uc, partyRepo, txnRepo, outboxRepo
}

func TestTransactionUseCase_Create(t *testing.T) {
	tests := []struct {
		name        string
		balance     decimal.Decimal
		input       usecase.CreateTransactionInput
		wantBalance decimal.Decimal
		expectError bool
		errorType   error
	}{
		{
			name:    "receipt reduces due",
			balance: decimal.NewFromInt(1000),
			input: usecase.CreateTransactionInput{
				PartyID:   "party-1",
				Direction: domain.DirectionReceiv,
				Amount:    decimal.NewFromInt(500),
			},
			wantBalance: decimal.NewFromInt(500),
		},
		{
			name:    "payout raises due",
			balance: decimal.NewFromInt(1000),
			input: usecase.CreateTransactionInput{
				PartyID:   "party-1",
				Direction: domain.DirectionPayout,
				Amount:    decimal.NewFromInt(200),
			},
			wantBalance: decimal.NewFromInt(1200),
		},
		{
			name:    "receipt can push balance negative",
			balance: decimal.NewFromInt(100),
			input: usecase.CreateTransactionInput{
				PartyID:   "party-1",
				Direction: domain.DirectionReceiv,
				Amount:    decimal.NewFromInt(300),
			},
			wantBalance: decimal.NewFromInt(-200),
		},
		{
			name:    "reject invalid direction",
			balance: decimal.NewFromInt(1000),
			input: usecase.CreateTransactionInput{
				PartyID:   "party-1",
				Direction: "sideways",
				Amount:    decimal.NewFromInt(100),
			},
			expectError: true,
			errorType:   domain.ErrInvalidDirection,
		},
		{
			name:    "reject non-positive amount",
			balance: decimal.NewFromInt(1000),
			input: usecase.CreateTransactionInput{
				PartyID:   "party-1",
				Direction: domain.DirectionReceiv,
				Amount:    decimal.Zero,
			},
			expectError: true,
			errorType:   domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, partyRepo, _, outboxRepo := newTransactionFixture()

			partyRepo.Create(context.Background(), &domain.Party{
				ID:             "party-1",
				Kind:           domain.PartyKindClient,
				PresentBalance: tt.balance,
			})

			result, err := uc.Create(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errorType != nil && err != tt.errorType {
					t.Errorf("expected error %v, got %v", tt.errorType, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !result.NewBalance.Equal(tt.wantBalance) {
				t.Errorf("expected new balance %s, got %s", tt.wantBalance, result.NewBalance)
			}

			party, _ := partyRepo.GetByID(context.Background(), "party-1")
			if !party.PresentBalance.Equal(tt.wantBalance) {
				t.Errorf("expected stored balance %s, got %s", tt.wantBalance, party.PresentBalance)
			}

			// The stored delta must let a later delete reverse exactly
			if !result.Transaction.PreviousBalance.Add(result.Transaction.BalanceChange).Equal(result.Transaction.NewBalance) {
				t.Error("previous + change != new")
			}

			events := outboxRepo.Events()
			if len(events) != 1 {
				t.Fatalf("expected 1 outbox event, got %d", len(events))
			}
			if events[0].EventType != domain.EventTypeBalanceChanged {
				t.Errorf("expected event %s, got %s", domain.EventTypeBalanceChanged, events[0].EventType)
			}

			payload, ok := events[0].Payload.(domain.BalanceChangedEvent)
			if !ok {
				t.Fatalf("expected BalanceChangedEvent payload, got %T", events[0].Payload)
			}
			if payload.NewBalance != tt.wantBalance.String() {
				t.Errorf("expected payload new balance %s, got %s", tt.wantBalance, payload.NewBalance)
			}
		})
	}
}

func TestTransactionUseCase_Delete_ReversesExactly(t *testing.T) {
	uc, partyRepo, _, _ := newTransactionFixture()

	partyRepo.Create(context.Background(), &domain.Party{
		ID:             "party-1",
		Kind:           domain.PartyKindClient,
		PresentBalance: decimal.NewFromInt(1000),
	})

	created, err := uc.Create(context.Background(), usecase.CreateTransactionInput{
		PartyID:   "party-1",
		Direction: domain.DirectionReceiv,
		Amount:    decimal.NewFromInt(400),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := uc.Delete(context.Background(), created.Transaction.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	if !deleted.NewBalance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected balance restored to 1000, got %s", deleted.NewBalance)
	}

	party, _ := partyRepo.GetByID(context.Background(), "party-1")
	if !party.PresentBalance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected stored balance 1000, got %s", party.PresentBalance)
	}

	if _, err := uc.Get(context.Background(), created.Transaction.ID); err != domain.ErrTransactionNotFound {
		t.Errorf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestTransactionUseCase_Update_ReversesThenApplies(t *testing.T) {
	uc, partyRepo, _, _ := newTransactionFixture()

	partyRepo.Create(context.Background(), &domain.Party{
		ID:             "party-1",
		Kind:           domain.PartyKindClient,
		PresentBalance: decimal.NewFromInt(1000),
	})

	created, err := uc.Create(context.Background(), usecase.CreateTransactionInput{
		PartyID:   "party-1",
		Direction: domain.DirectionReceiv,
		Amount:    decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Balance is 500 now. Flipping the movement to a 200 payout must land on
	// 1000 + 200 = 1200, not on any value built from the stale delta.
	payout := domain.DirectionPayout
	amount := decimal.NewFromInt(200)

	updated, err := uc.Update(context.Background(), created.Transaction.ID, usecase.UpdateTransactionInput{
		Direction: &payout,
		Amount:    &amount,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if !updated.NewBalance.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("expected balance 1200, got %s", updated.NewBalance)
	}

	if !updated.Transaction.BalanceChange.Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected stored change 200, got %s", updated.Transaction.BalanceChange)
	}

	party, _ := partyRepo.GetByID(context.Background(), "party-1")
	if !party.PresentBalance.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("expected stored balance 1200, got %s", party.PresentBalance)
	}
}

func TestTransactionUseCase_Update_RoundTripRestoresBalance(t *testing.T) {
	uc, partyRepo, _, _ := newTransactionFixture()

	partyRepo.Create(context.Background(), &domain.Party{
		ID:             "party-1",
		Kind:           domain.PartyKindClient,
		PresentBalance: decimal.NewFromInt(1000),
	})

	created, err := uc.Create(context.Background(), usecase.CreateTransactionInput{
		PartyID:   "party-1",
		Direction: domain.DirectionReceiv,
		Amount:    decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Flip to a payout, then patch the original values back; the balance must
	// land exactly where it was before the first update.
	payout := domain.DirectionPayout
	payoutAmount := decimal.NewFromInt(200)
	if _, err := uc.Update(context.Background(), created.Transaction.ID, usecase.UpdateTransactionInput{
		Direction: &payout,
		Amount:    &payoutAmount,
	}); err != nil {
		t.Fatalf("first update: %v", err)
	}

	receiv := domain.DirectionReceiv
	originalAmount := decimal.NewFromInt(500)
	restored, err := uc.Update(context.Background(), created.Transaction.ID, usecase.UpdateTransactionInput{
		Direction: &receiv,
		Amount:    &originalAmount,
	})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}

	if !restored.NewBalance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected balance restored to 500, got %s", restored.NewBalance)
	}

	if !restored.Transaction.BalanceChange.Equal(decimal.NewFromInt(-500)) {
		t.Errorf("expected stored change -500, got %s", restored.Transaction.BalanceChange)
	}

	party, _ := partyRepo.GetByID(context.Background(), "party-1")
	if !party.PresentBalance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected stored balance 500, got %s", party.PresentBalance)
	}
}

func TestTransactionUseCase_Create_BoundsTransactionDuration(t *testing.T) {
	uc, partyRepo, txnRepo, _ := newTransactionFixture()

	partyRepo.Create(context.Background(), &domain.Party{
		ID:             "party-1",
		Kind:           domain.PartyKindClient,
		PresentBalance: decimal.NewFromInt(1000),
	})

	txnRepo.CreateFunc = func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("expected a deadline inside the write transaction")
		}
		return nil
	}

	if _, err := uc.Create(context.Background(), usecase.CreateTransactionInput{
		PartyID:   "party-1",
		Direction: domain.DirectionReceiv,
		Amount:    decimal.NewFromInt(100),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
}

func TestTransactionUseCase_Delete_MissingParty(t *testing.T) {
	uc, partyRepo, txnRepo, _ := newTransactionFixture()

	// Movement exists but its party does not
	txnRepo.Create(context.Background(), nil, &domain.Transaction{
		ID:            "orphan",
		PartyID:       "gone",
		BalanceChange: decimal.NewFromInt(100),
	})

	partyRepo.GetByIDForUpdateFunc = func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Party, error) {
		return nil, domain.ErrPartyNotFound
	}

	if _, err := uc.Delete(context.Background(), "orphan"); err != domain.ErrPartyNotFound {
		t.Errorf("expected ErrPartyNotFound, got %v", err)
	}
}
