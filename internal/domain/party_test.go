package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParty_ValidateOpening(t *testing.T) {
	tests := []struct {
		name        string
		typ         OpeningBalanceType
		amount      decimal.Decimal
		expectError bool
	}{
		{
			name:   "due with positive amount",
			typ:    OpeningBalanceDue,
			amount: decimal.NewFromInt(1000),
		},
		{
			name:   "advance with positive amount",
			typ:    OpeningBalanceAdvance,
			amount: decimal.NewFromInt(500),
		},
		{
			name:   "none with zero amount",
			typ:    OpeningBalanceNone,
			amount: decimal.Zero,
		},
		{
			name:        "unknown type",
			typ:         "loan",
			amount:      decimal.NewFromInt(100),
			expectError: true,
		},
		{
			name:        "negative amount",
			typ:         OpeningBalanceDue,
			amount:      decimal.NewFromInt(-100),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Party{
				OpeningBalanceType:   tt.typ,
				OpeningBalanceAmount: tt.amount,
			}

			err := p.ValidateOpening()

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParty_OpeningBalance(t *testing.T) {
	advance := &Party{
		OpeningBalanceType:   OpeningBalanceAdvance,
		OpeningBalanceAmount: decimal.NewFromInt(250),
	}

	if !advance.OpeningBalance().Equal(decimal.NewFromInt(-250)) {
		t.Errorf("expected -250, got %s", advance.OpeningBalance())
	}
}

func TestValidateKind(t *testing.T) {
	if err := ValidateKind(PartyKindClient); err != nil {
		t.Errorf("unexpected error for client: %v", err)
	}

	if err := ValidateKind(PartyKindVendor); err != nil {
		t.Errorf("unexpected error for vendor: %v", err)
	}

	if err := ValidateKind("supplier"); err != ErrInvalidPartyKind {
		t.Errorf("expected ErrInvalidPartyKind, got %v", err)
	}
}
