package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tourdesk/ledger/internal/domain"
	"github.com/tourdesk/ledger/internal/usecase"
)

// PartyResponse represents a party in API responses.
type PartyResponse struct {
	ID                   string          `json:"id"`
	Kind                 string          `json:"kind"`
	Name                 string          `json:"name"`
	Email                string          `json:"email,omitempty"`
	Phone                string          `json:"phone,omitempty"`
	OpeningBalanceType   string          `json:"opening_balance_type"`
	OpeningBalanceAmount decimal.Decimal `json:"opening_balance_amount"`
	PresentBalance       decimal.Decimal `json:"present_balance"`
	CreditLimit          decimal.Decimal `json:"credit_limit"`
	Version              int64           `json:"version"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// PartyFromDomain converts a domain party to a response.
func PartyFromDomain(p *domain.Party) *PartyResponse {
	return &PartyResponse{
		ID:                   p.ID,
		Kind:                 string(p.Kind),
		Name:                 p.Name,
		Email:                p.Email,
		Phone:                p.Phone,
		OpeningBalanceType:   string(p.OpeningBalanceType),
		OpeningBalanceAmount: p.OpeningBalanceAmount,
		PresentBalance:       p.PresentBalance,
		CreditLimit:          p.CreditLimit,
		Version:              p.Version,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

// PartiesFromDomain converts domain parties to responses.
func PartiesFromDomain(parties []*domain.Party) []*PartyResponse {
	result := make([]*PartyResponse, len(parties))
	for i, p := range parties {
		result[i] = PartyFromDomain(p)
	}
	return result
}

// ListPartiesResponse wraps a party listing.
type ListPartiesResponse struct {
	Parties []*PartyResponse `json:"parties"`
	Total   int64            `json:"total"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID              string          `json:"id"`
	PartyID         string          `json:"party_id"`
	Date            time.Time       `json:"date"`
	Direction       string          `json:"direction"`
	Amount          decimal.Decimal `json:"amount"`
	VoucherNo       string          `json:"voucher_no,omitempty"`
	Metadata        map[string]any  `json:"metadata,omitempty"`
	BalanceChange   decimal.Decimal `json:"balance_change"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	NewBalance      decimal.Decimal `json:"new_balance"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:              t.ID,
		PartyID:         t.PartyID,
		Date:            t.Date,
		Direction:       string(t.Direction),
		Amount:          t.Amount,
		VoucherNo:       t.VoucherNo,
		Metadata:        t.Metadata,
		BalanceChange:   t.BalanceChange,
		PreviousBalance: t.PreviousBalance,
		NewBalance:      t.NewBalance,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// TransactionResultResponse carries a movement plus the balance change it
// applied.
type TransactionResultResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	OldBalance  decimal.Decimal      `json:"old_balance"`
	NewBalance  decimal.Decimal      `json:"new_balance"`
}

// TransactionResultFromUseCase converts a use case result to a response.
func TransactionResultFromUseCase(r *usecase.TransactionResult) *TransactionResultResponse {
	return &TransactionResultResponse{
		Transaction: TransactionFromDomain(r.Transaction),
		OldBalance:  r.OldBalance,
		NewBalance:  r.NewBalance,
	}
}

// DirectResponse represents a direct cash movement in API responses.
type DirectResponse struct {
	ID              string          `json:"id"`
	PartyID         string          `json:"party_id"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Note            string          `json:"note,omitempty"`
	BalanceChange   decimal.Decimal `json:"balance_change"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	NewBalance      decimal.Decimal `json:"new_balance"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// DirectFromDomain converts a domain direct movement to a response.
func DirectFromDomain(d *domain.DirectTransaction) *DirectResponse {
	return &DirectResponse{
		ID:              d.ID,
		PartyID:         d.PartyID,
		Type:            string(d.Type),
		Amount:          d.Amount,
		Note:            d.Note,
		BalanceChange:   d.BalanceChange,
		PreviousBalance: d.PreviousBalance,
		NewBalance:      d.NewBalance,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// DirectsFromDomain converts domain direct movements to responses.
func DirectsFromDomain(directs []*domain.DirectTransaction) []*DirectResponse {
	result := make([]*DirectResponse, len(directs))
	for i, d := range directs {
		result[i] = DirectFromDomain(d)
	}
	return result
}

// DirectResultResponse carries a movement plus the balance change it applied.
type DirectResultResponse struct {
	Direct     *DirectResponse `json:"direct_transaction"`
	OldBalance decimal.Decimal `json:"old_balance"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// DirectResultFromUseCase converts a use case result to a response.
func DirectResultFromUseCase(r *usecase.DirectResult) *DirectResultResponse {
	return &DirectResultResponse{
		Direct:     DirectFromDomain(r.Direct),
		OldBalance: r.OldBalance,
		NewBalance: r.NewBalance,
	}
}

// VendorPaymentResponse represents a payment split in API responses.
type VendorPaymentResponse struct {
	ID              string          `json:"id"`
	PaymentNo       string          `json:"payment_no"`
	VendorID        string          `json:"vendor_id"`
	Date            time.Time       `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	Metadata        map[string]any  `json:"metadata,omitempty"`
	BalanceChange   decimal.Decimal `json:"balance_change"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	NewBalance      decimal.Decimal `json:"new_balance"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// VendorPaymentFromDomain converts a domain payment split to a response.
func VendorPaymentFromDomain(p *domain.VendorPayment) *VendorPaymentResponse {
	return &VendorPaymentResponse{
		ID:              p.ID,
		PaymentNo:       p.PaymentNo,
		VendorID:        p.VendorID,
		Date:            p.Date,
		Amount:          p.Amount,
		Metadata:        p.Metadata,
		BalanceChange:   p.BalanceChange,
		PreviousBalance: p.PreviousBalance,
		NewBalance:      p.NewBalance,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// VendorPaymentsFromDomain converts domain payment splits to responses.
func VendorPaymentsFromDomain(payments []*domain.VendorPayment) []*VendorPaymentResponse {
	result := make([]*VendorPaymentResponse, len(payments))
	for i, p := range payments {
		result[i] = VendorPaymentFromDomain(p)
	}
	return result
}

// VendorPaymentResultResponse wraps all recorded splits of one payment.
type VendorPaymentResultResponse struct {
	PaymentNo   string                   `json:"payment_no"`
	Payments    []*VendorPaymentResponse `json:"payments"`
	TotalAmount decimal.Decimal          `json:"total_amount"`
}

// VendorPaymentResultFromUseCase converts a use case result to a response.
func VendorPaymentResultFromUseCase(r *usecase.VendorPaymentResult) *VendorPaymentResultResponse {
	return &VendorPaymentResultResponse{
		PaymentNo:   r.PaymentNo,
		Payments:    VendorPaymentsFromDomain(r.Payments),
		TotalAmount: r.TotalAmount,
	}
}

// LedgerLineResponse is one statement row with its running balance.
type LedgerLineResponse struct {
	Date       time.Time       `json:"date"`
	SourceType string          `json:"source_type"`
	SourceID   string          `json:"source_id"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	Balance    decimal.Decimal `json:"balance"`
}

// StatementResponse is a party ledger statement.
type StatementResponse struct {
	Party          *PartyResponse        `json:"party"`
	BroughtForward decimal.Decimal       `json:"brought_forward"`
	Lines          []*LedgerLineResponse `json:"lines"`
	TotalDebit     decimal.Decimal       `json:"total_debit"`
	TotalCredit    decimal.Decimal       `json:"total_credit"`
	ClosingBalance decimal.Decimal       `json:"closing_balance"`
}

// StatementFromUseCase converts a use case statement to a response.
func StatementFromUseCase(s *usecase.Statement) *StatementResponse {
	lines := make([]*LedgerLineResponse, len(s.Result.Lines))
	for i, line := range s.Result.Lines {
		lines[i] = &LedgerLineResponse{
			Date:       line.Date,
			SourceType: string(line.SourceType),
			SourceID:   line.SourceID,
			Debit:      line.Debit,
			Credit:     line.Credit,
			Balance:    line.Balance,
		}
	}

	return &StatementResponse{
		Party:          PartyFromDomain(s.Party),
		BroughtForward: s.Result.BroughtForward,
		Lines:          lines,
		TotalDebit:     s.Result.TotalDebit,
		TotalCredit:    s.Result.TotalCredit,
		ClosingBalance: s.Result.ClosingBalance,
	}
}

// AuditResponse represents a reconciliation audit entry in API responses.
type AuditResponse struct {
	ID         string          `json:"id"`
	PartyID    string          `json:"party_id"`
	OldBalance decimal.Decimal `json:"old_balance"`
	NewBalance decimal.Decimal `json:"new_balance"`
	Difference decimal.Decimal `json:"difference"`
	Metadata   map[string]any  `json:"metadata,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// AuditsFromDomain converts domain audit entries to responses.
func AuditsFromDomain(audits []*domain.ReconciliationAudit) []*AuditResponse {
	result := make([]*AuditResponse, len(audits))
	for i, a := range audits {
		result[i] = &AuditResponse{
			ID:         a.ID,
			PartyID:    a.PartyID,
			OldBalance: a.OldBalance,
			NewBalance: a.NewBalance,
			Difference: a.Difference,
			Metadata:   a.Metadata,
			CreatedAt:  a.CreatedAt,
		}
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
