package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartyKind distinguishes clients (receivable side) from vendors (payable side).
type PartyKind string

const (
	PartyKindClient PartyKind = "client"
	PartyKindVendor PartyKind = "vendor"
)

// OpeningBalanceType describes how a party's opening balance was configured
// at onboarding.
type OpeningBalanceType string

const (
	OpeningBalanceDue     OpeningBalanceType = "due"
	OpeningBalanceAdvance OpeningBalanceType = "advance"
	OpeningBalanceNone    OpeningBalanceType = "none"
)

// Party is a client or vendor whose running balance the ledger maintains.
// PresentBalance is the cached signed balance: positive means the party owes
// (due/payable), negative means the party is owed (advance/receivable). It is
// mutated only by the transaction, direct cash, vendor payment, and
// reconciliation services.
type Party struct {
	ID                   string
	Kind                 PartyKind
	Name                 string
	Email                string
	Phone                string
	OpeningBalanceType   OpeningBalanceType
	OpeningBalanceAmount decimal.Decimal
	PresentBalance       decimal.Decimal
	CreditLimit          decimal.Decimal
	Version              int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// OpeningBalance returns the signed opening balance.
func (p *Party) OpeningBalance() decimal.Decimal {
	return OpeningBalance(p.OpeningBalanceType, p.OpeningBalanceAmount)
}

// ValidateOpening checks the opening balance configuration. Reconciliation
// refuses to recompute a party whose configuration cannot be trusted.
func (p *Party) ValidateOpening() error {
	switch p.OpeningBalanceType {
	case OpeningBalanceDue, OpeningBalanceAdvance, OpeningBalanceNone:
	default:
		return ErrInvalidOpeningBalance
	}

	if p.OpeningBalanceAmount.IsNegative() {
		return ErrInvalidOpeningBalance
	}

	return nil
}

// ValidateKind checks the party kind.
func ValidateKind(kind PartyKind) error {
	switch kind {
	case PartyKindClient, PartyKindVendor:
		return nil
	default:
		return ErrInvalidPartyKind
	}
}
