package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VendorPayment is one vendor sub-amount of a possibly split payment. Splits
// of the same physical payment share a PaymentNo. Each split settles part of
// its vendor's payable, so it always enters the ledger as a credit.
type VendorPayment struct {
	ID              string
	PaymentNo       string
	VendorID        string
	Date            time.Time
	Amount          decimal.Decimal
	Metadata        map[string]any
	BalanceChange   decimal.Decimal
	PreviousBalance decimal.Decimal
	NewBalance      decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// LedgerEntry normalizes the split to the canonical debit/credit view.
func (p *VendorPayment) LedgerEntry() LedgerEntry {
	return LedgerEntry{
		Date:       p.Date,
		CreatedAt:  p.CreatedAt,
		Credit:     p.Amount,
		SourceType: SourceVendorPayment,
		SourceID:   p.ID,
	}
}
