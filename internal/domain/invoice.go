package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a read-only debit source maintained by the invoicing module.
// The ledger never mutates invoices; it only folds them into computations.
type Invoice struct {
	ID        string
	PartyID   string
	SalesDate time.Time
	NetTotal  decimal.Decimal
	CreatedAt time.Time
}

// LedgerEntry contributes the invoice's net total as a debit on its sales date.
func (i *Invoice) LedgerEntry() LedgerEntry {
	return LedgerEntry{
		Date:       i.SalesDate,
		CreatedAt:  i.CreatedAt,
		Debit:      i.NetTotal,
		SourceType: SourceInvoice,
		SourceID:   i.ID,
	}
}
