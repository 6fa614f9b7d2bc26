package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashType is the direction of an unattributed cash movement.
type CashType string

const (
	CashIn  CashType = "cash_in"
	CashOut CashType = "cash_out"
)

// DirectTransaction is an unattributed cash-in/cash-out against a single
// party's balance, with the same reversal contract as Transaction.
type DirectTransaction struct {
	ID              string
	PartyID         string
	Type            CashType
	Amount          decimal.Decimal
	Note            string
	BalanceChange   decimal.Decimal
	PreviousBalance decimal.Decimal
	NewBalance      decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CashBalanceChange converts a cash type and amount to the signed delta
// applied to the party balance. Note the wording is the opposite of
// receiv/payout: cash_in RAISES the recorded balance (a debit), cash_out
// lowers it. Both conventions meet at the ledger-entry normalization, never
// inside the balance calculator.
func CashBalanceChange(typ CashType, amount decimal.Decimal) (decimal.Decimal, error) {
	switch typ {
	case CashIn:
		return amount, nil
	case CashOut:
		return amount.Neg(), nil
	default:
		return decimal.Zero, ErrInvalidCashType
	}
}

// ValidateCashType checks a cash transaction type.
func ValidateCashType(typ CashType) error {
	_, err := CashBalanceChange(typ, decimal.Zero)
	return err
}

// LedgerEntry normalizes the movement to the canonical debit/credit view.
// Direct transactions carry no business date, so creation time doubles as the
// ledger date.
func (d *DirectTransaction) LedgerEntry() LedgerEntry {
	entry := LedgerEntry{
		Date:       d.CreatedAt,
		CreatedAt:  d.CreatedAt,
		SourceType: SourceDirect,
		SourceID:   d.ID,
	}

	if d.Type == CashIn {
		entry.Debit = d.Amount
	} else {
		entry.Credit = d.Amount
	}

	return entry
}
