package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// EntrySourceType identifies where a ledger entry originated.
type EntrySourceType string

const (
	SourceInvoice       EntrySourceType = "invoice"
	SourceTransaction   EntrySourceType = "transaction"
	SourceDirect        EntrySourceType = "direct"
	SourceVendorPayment EntrySourceType = "vendor_payment"
)

// DriftTolerance is the maximum difference between a cached balance and the
// recomputed balance that is considered noise rather than drift.
var DriftTolerance = decimal.RequireFromString("0.01")

// LedgerEntry is the canonical signed view every source normalizes to.
// Exactly one of Debit and Credit is non-zero; debit increases a party's due
// balance, credit decreases it.
type LedgerEntry struct {
	Date       time.Time
	CreatedAt  time.Time
	Debit      decimal.Decimal
	Credit     decimal.Decimal
	SourceType EntrySourceType
	SourceID   string
}

// EntryTotals accumulates debit and credit sums over a set of entries.
type EntryTotals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Add returns the element-wise sum of two totals.
func (t EntryTotals) Add(o EntryTotals) EntryTotals {
	return EntryTotals{
		Debit:  t.Debit.Add(o.Debit),
		Credit: t.Credit.Add(o.Credit),
	}
}

// OpeningBalance converts an opening balance configuration to a signed value.
func OpeningBalance(typ OpeningBalanceType, amount decimal.Decimal) decimal.Decimal {
	switch typ {
	case OpeningBalanceDue:
		return amount
	case OpeningBalanceAdvance:
		return amount.Neg()
	default:
		return decimal.Zero
	}
}

// BroughtForward computes the net balance carried into a reporting period:
// the signed opening balance plus all debits minus all credits before the
// period starts.
func BroughtForward(opening decimal.Decimal, pre EntryTotals) decimal.Decimal {
	return opening.Add(pre.Debit).Sub(pre.Credit)
}

// LedgerLine is a ledger entry annotated with the running balance after it.
type LedgerLine struct {
	LedgerEntry

	Balance decimal.Decimal
}

// LedgerResult is the output of a running-ledger computation.
type LedgerResult struct {
	BroughtForward decimal.Decimal
	Lines          []LedgerLine
	TotalDebit     decimal.Decimal
	TotalCredit    decimal.Decimal
	ClosingBalance decimal.Decimal
}

// RunningLedger orders entries by (date, createdAt) ascending and rolls the
// balance forward from broughtForward. The createdAt tie-break makes the
// order deterministic for entries sharing a business date. Both the statement
// display path and reconciliation use this single implementation.
func RunningLedger(broughtForward decimal.Decimal, entries []LedgerEntry) LedgerResult {
	sorted := make([]LedgerEntry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}

		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	result := LedgerResult{
		BroughtForward: broughtForward,
		Lines:          make([]LedgerLine, 0, len(sorted)),
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
	}

	balance := broughtForward
	for _, e := range sorted {
		balance = balance.Add(e.Debit).Sub(e.Credit)
		result.TotalDebit = result.TotalDebit.Add(e.Debit)
		result.TotalCredit = result.TotalCredit.Add(e.Credit)
		result.Lines = append(result.Lines, LedgerLine{LedgerEntry: e, Balance: balance})
	}

	result.ClosingBalance = balance

	return result
}

// WithinTolerance reports whether a difference is small enough to be treated
// as floating-point noise rather than real drift.
func WithinTolerance(difference decimal.Decimal) bool {
	return difference.Abs().LessThanOrEqual(DriftTolerance)
}
