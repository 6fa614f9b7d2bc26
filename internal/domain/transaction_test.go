package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestBalanceChangeFor(t *testing.T) {
	tests := []struct {
		name        string
		direction   TransactionDirection
		amount      decimal.Decimal
		expected    decimal.Decimal
		expectError bool
	}{
		{
			name:      "receiv reduces due",
			direction: DirectionReceiv,
			amount:    decimal.NewFromInt(500),
			expected:  decimal.NewFromInt(-500),
		},
		{
			name:      "payout raises due",
			direction: DirectionPayout,
			amount:    decimal.NewFromInt(200),
			expected:  decimal.NewFromInt(200),
		},
		{
			name:        "unknown direction",
			direction:   "transfer",
			amount:      decimal.NewFromInt(100),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BalanceChangeFor(tt.direction, tt.amount)

			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestCashBalanceChange(t *testing.T) {
	tests := []struct {
		name        string
		typ         CashType
		amount      decimal.Decimal
		expected    decimal.Decimal
		expectError bool
	}{
		{
			name:     "cash in raises balance",
			typ:      CashIn,
			amount:   decimal.NewFromInt(300),
			expected: decimal.NewFromInt(300),
		},
		{
			name:     "cash out lowers balance",
			typ:      CashOut,
			amount:   decimal.NewFromInt(300),
			expected: decimal.NewFromInt(-300),
		},
		{
			name:        "unknown type",
			typ:         "cash_sideways",
			amount:      decimal.NewFromInt(1),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CashBalanceChange(tt.typ, tt.amount)

			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestLedgerEntry_Normalization(t *testing.T) {
	date := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	created := date.Add(time.Hour)
	amount := decimal.NewFromInt(150)

	t.Run("payout is a debit", func(t *testing.T) {
		txn := &Transaction{ID: "t1", Direction: DirectionPayout, Amount: amount, Date: date, CreatedAt: created}
		entry := txn.LedgerEntry()

		if !entry.Debit.Equal(amount) || !entry.Credit.IsZero() {
			t.Errorf("expected debit %s / credit 0, got debit %s / credit %s", amount, entry.Debit, entry.Credit)
		}
		if entry.SourceType != SourceTransaction {
			t.Errorf("expected source %s, got %s", SourceTransaction, entry.SourceType)
		}
	})

	t.Run("receiv is a credit", func(t *testing.T) {
		txn := &Transaction{ID: "t2", Direction: DirectionReceiv, Amount: amount, Date: date, CreatedAt: created}
		entry := txn.LedgerEntry()

		if !entry.Credit.Equal(amount) || !entry.Debit.IsZero() {
			t.Errorf("expected credit %s / debit 0, got credit %s / debit %s", amount, entry.Credit, entry.Debit)
		}
	})

	t.Run("cash in is a debit dated at creation", func(t *testing.T) {
		dt := &DirectTransaction{ID: "d1", Type: CashIn, Amount: amount, CreatedAt: created}
		entry := dt.LedgerEntry()

		if !entry.Debit.Equal(amount) {
			t.Errorf("expected debit %s, got %s", amount, entry.Debit)
		}
		if !entry.Date.Equal(created) {
			t.Errorf("expected date %s, got %s", created, entry.Date)
		}
	})

	t.Run("cash out is a credit", func(t *testing.T) {
		dt := &DirectTransaction{ID: "d2", Type: CashOut, Amount: amount, CreatedAt: created}
		entry := dt.LedgerEntry()

		if !entry.Credit.Equal(amount) {
			t.Errorf("expected credit %s, got %s", amount, entry.Credit)
		}
	})

	t.Run("vendor payment split is always a credit", func(t *testing.T) {
		p := &VendorPayment{ID: "p1", Amount: amount, Date: date, CreatedAt: created}
		entry := p.LedgerEntry()

		if !entry.Credit.Equal(amount) || !entry.Debit.IsZero() {
			t.Errorf("expected credit %s / debit 0, got credit %s / debit %s", amount, entry.Credit, entry.Debit)
		}
		if entry.SourceType != SourceVendorPayment {
			t.Errorf("expected source %s, got %s", SourceVendorPayment, entry.SourceType)
		}
	})

	t.Run("invoice is a debit on the sales date", func(t *testing.T) {
		inv := &Invoice{ID: "i1", NetTotal: amount, SalesDate: date, CreatedAt: created}
		entry := inv.LedgerEntry()

		if !entry.Debit.Equal(amount) || !entry.Credit.IsZero() {
			t.Errorf("expected debit %s / credit 0, got debit %s / credit %s", amount, entry.Debit, entry.Credit)
		}
		if !entry.Date.Equal(date) {
			t.Errorf("expected date %s, got %s", date, entry.Date)
		}
	})
}
