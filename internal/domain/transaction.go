package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionDirection is the direction of a money movement against a party.
type TransactionDirection string

const (
	// DirectionReceiv records money moving toward the creditor: a client
	// settling their due, or the agency settling a vendor payable.
	DirectionReceiv TransactionDirection = "receiv"
	// DirectionPayout records money moving the other way and raises the
	// party's due: a refund paid to a client, or a new vendor charge.
	DirectionPayout TransactionDirection = "payout"
)

// Transaction is a signed movement against one party, such as a money receipt
// or a refund. BalanceChange is the signed delta actually applied to the
// party's present balance at write time; edits and deletes reverse it exactly,
// independent of any later change to business rules.
type Transaction struct {
	ID              string
	PartyID         string
	Date            time.Time
	Direction       TransactionDirection
	Amount          decimal.Decimal
	VoucherNo       string
	Metadata        map[string]any
	BalanceChange   decimal.Decimal
	PreviousBalance decimal.Decimal
	NewBalance      decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BalanceChangeFor converts a direction and amount to the signed delta applied
// to the party balance. The canonical convention is fixed here once: receiv is
// a credit (reduces due), payout is a debit (increases due).
func BalanceChangeFor(direction TransactionDirection, amount decimal.Decimal) (decimal.Decimal, error) {
	switch direction {
	case DirectionReceiv:
		return amount.Neg(), nil
	case DirectionPayout:
		return amount, nil
	default:
		return decimal.Zero, ErrInvalidDirection
	}
}

// ValidateDirection checks a transaction direction.
func ValidateDirection(direction TransactionDirection) error {
	_, err := BalanceChangeFor(direction, decimal.Zero)
	return err
}

// LedgerEntry normalizes the transaction to the canonical debit/credit view.
func (t *Transaction) LedgerEntry() LedgerEntry {
	entry := LedgerEntry{
		Date:       t.Date,
		CreatedAt:  t.CreatedAt,
		SourceType: SourceTransaction,
		SourceID:   t.ID,
	}

	if t.Direction == DirectionPayout {
		entry.Debit = t.Amount
	} else {
		entry.Credit = t.Amount
	}

	return entry
}
