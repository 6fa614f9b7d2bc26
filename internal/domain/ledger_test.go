package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestOpeningBalance(t *testing.T) {
	tests := []struct {
		name     string
		typ      OpeningBalanceType
		amount   decimal.Decimal
		expected decimal.Decimal
	}{
		{
			name:     "due is positive",
			typ:      OpeningBalanceDue,
			amount:   decimal.NewFromInt(1000),
			expected: decimal.NewFromInt(1000),
		},
		{
			name:     "advance is negative",
			typ:      OpeningBalanceAdvance,
			amount:   decimal.NewFromInt(1000),
			expected: decimal.NewFromInt(-1000),
		},
		{
			name:     "none is zero regardless of amount",
			typ:      OpeningBalanceNone,
			amount:   decimal.NewFromInt(1000),
			expected: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OpeningBalance(tt.typ, tt.amount)
			if !got.Equal(tt.expected) {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestBroughtForward(t *testing.T) {
	opening := decimal.NewFromInt(100)
	pre := EntryTotals{
		Debit:  decimal.NewFromInt(500),
		Credit: decimal.NewFromInt(200),
	}

	got := BroughtForward(opening, pre)
	if !got.Equal(decimal.NewFromInt(400)) {
		t.Errorf("expected 400, got %s", got)
	}
}

func TestRunningLedger_Ordering(t *testing.T) {
	day1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	// Deliberately out of order; two entries share a date and differ only
	// in creation time.
	entries := []LedgerEntry{
		{Date: day2, CreatedAt: day2, Debit: decimal.NewFromInt(50), SourceID: "c"},
		{Date: day1, CreatedAt: day1.Add(time.Hour), Credit: decimal.NewFromInt(30), SourceID: "b"},
		{Date: day1, CreatedAt: day1, Debit: decimal.NewFromInt(100), SourceID: "a"},
	}

	result := RunningLedger(decimal.Zero, entries)

	if len(result.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(result.Lines))
	}

	order := []string{"a", "b", "c"}
	for i, want := range order {
		if result.Lines[i].SourceID != want {
			t.Errorf("line %d: expected source %s, got %s", i, want, result.Lines[i].SourceID)
		}
	}

	balances := []int64{100, 70, 120}
	for i, want := range balances {
		if !result.Lines[i].Balance.Equal(decimal.NewFromInt(want)) {
			t.Errorf("line %d: expected balance %d, got %s", i, want, result.Lines[i].Balance)
		}
	}

	if !result.ClosingBalance.Equal(decimal.NewFromInt(120)) {
		t.Errorf("expected closing 120, got %s", result.ClosingBalance)
	}

	if !result.TotalDebit.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected total debit 150, got %s", result.TotalDebit)
	}

	if !result.TotalCredit.Equal(decimal.NewFromInt(30)) {
		t.Errorf("expected total credit 30, got %s", result.TotalCredit)
	}
}

func TestRunningLedger_DoesNotMutateInput(t *testing.T) {
	day1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	entries := []LedgerEntry{
		{Date: day2, CreatedAt: day2, SourceID: "later"},
		{Date: day1, CreatedAt: day1, SourceID: "earlier"},
	}

	RunningLedger(decimal.Zero, entries)

	if entries[0].SourceID != "later" {
		t.Error("input slice was reordered")
	}
}

// A client starts with 1000 due, pays 500, gets a 200 refund and hands over
// 300 cash. Both sign conventions must net out through the same calculator.
func TestRunningLedger_MixedConventions(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	receipt := &Transaction{
		ID: "t1", Direction: DirectionReceiv, Amount: decimal.NewFromInt(500),
		Date: base, CreatedAt: base,
	}
	refund := &Transaction{
		ID: "t2", Direction: DirectionPayout, Amount: decimal.NewFromInt(200),
		Date: base.Add(time.Hour), CreatedAt: base.Add(time.Hour),
	}
	cash := &DirectTransaction{
		ID: "d1", Type: CashIn, Amount: decimal.NewFromInt(300),
		CreatedAt: base.Add(2 * time.Hour),
	}

	entries := []LedgerEntry{receipt.LedgerEntry(), refund.LedgerEntry(), cash.LedgerEntry()}

	result := RunningLedger(decimal.NewFromInt(1000), entries)

	// 1000 - 500 + 200 + 300 = 1000
	if !result.ClosingBalance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected closing 1000, got %s", result.ClosingBalance)
	}
}

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		name       string
		difference string
		within     bool
	}{
		{"zero", "0", true},
		{"at tolerance", "0.01", true},
		{"negative at tolerance", "-0.01", true},
		{"just over", "0.011", false},
		{"real drift", "125.50", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decimal.RequireFromString(tt.difference)
			if got := WithinTolerance(d); got != tt.within {
				t.Errorf("WithinTolerance(%s) = %v, want %v", tt.difference, got, tt.within)
			}
		})
	}
}

func TestEntryTotals_Add(t *testing.T) {
	a := EntryTotals{Debit: decimal.NewFromInt(10), Credit: decimal.NewFromInt(5)}
	b := EntryTotals{Debit: decimal.NewFromInt(3), Credit: decimal.NewFromInt(7)}

	sum := a.Add(b)

	if !sum.Debit.Equal(decimal.NewFromInt(13)) {
		t.Errorf("expected debit 13, got %s", sum.Debit)
	}
	if !sum.Credit.Equal(decimal.NewFromInt(12)) {
		t.Errorf("expected credit 12, got %s", sum.Credit)
	}
}
