package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tourdesk/ledger/internal/domain"
	"github.com/tourdesk/ledger/internal/usecase"
)

// CreatePartyRequest represents a request to onboard a party.
type CreatePartyRequest struct {
	Kind                 string          `json:"kind"`
	Name                 string          `json:"name"`
	Email                string          `json:"email,omitempty"`
	Phone                string          `json:"phone,omitempty"`
	OpeningBalanceType   string          `json:"opening_balance_type,omitempty"`
	OpeningBalanceAmount decimal.Decimal `json:"opening_balance_amount,omitempty"`
	CreditLimit          decimal.Decimal `json:"credit_limit,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePartyRequest) ToUseCaseInput() usecase.CreatePartyInput {
	return usecase.CreatePartyInput{
		Kind:                 domain.PartyKind(r.Kind),
		Name:                 r.Name,
		Email:                r.Email,
		Phone:                r.Phone,
		OpeningBalanceType:   domain.OpeningBalanceType(r.OpeningBalanceType),
		OpeningBalanceAmount: r.OpeningBalanceAmount,
		CreditLimit:          r.CreditLimit,
	}
}

// CreateTransactionRequest represents a request to record a transaction.
type CreateTransactionRequest struct {
	PartyID   string          `json:"party_id"`
	Date      *time.Time      `json:"date,omitempty"`
	Direction string          `json:"direction"`
	Amount    decimal.Decimal `json:"amount"`
	VoucherNo string          `json:"voucher_no,omitempty"`
	Metadata  map[string]any  `json:"metadata,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.CreateTransactionInput {
	input := usecase.CreateTransactionInput{
		PartyID:   r.PartyID,
		Direction: domain.TransactionDirection(r.Direction),
		Amount:    r.Amount,
		VoucherNo: r.VoucherNo,
		Metadata:  r.Metadata,
	}

	if r.Date != nil {
		input.Date = *r.Date
	}

	return input
}

// UpdateTransactionRequest patches a transaction; absent fields keep their value.
type UpdateTransactionRequest struct {
	Date      *time.Time       `json:"date,omitempty"`
	Direction *string          `json:"direction,omitempty"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	VoucherNo *string          `json:"voucher_no,omitempty"`
	Metadata  map[string]any   `json:"metadata,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateTransactionRequest) ToUseCaseInput() usecase.UpdateTransactionInput {
	input := usecase.UpdateTransactionInput{
		Date:      r.Date,
		Amount:    r.Amount,
		VoucherNo: r.VoucherNo,
		Metadata:  r.Metadata,
	}

	if r.Direction != nil {
		direction := domain.TransactionDirection(*r.Direction)
		input.Direction = &direction
	}

	return input
}

// CreateDirectRequest represents a request to record a direct cash movement.
type CreateDirectRequest struct {
	PartyID string          `json:"party_id"`
	Type    string          `json:"type"`
	Amount  decimal.Decimal `json:"amount"`
	Note    string          `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateDirectRequest) ToUseCaseInput() usecase.CreateDirectInput {
	return usecase.CreateDirectInput{
		PartyID: r.PartyID,
		Type:    domain.CashType(r.Type),
		Amount:  r.Amount,
		Note:    r.Note,
	}
}

// UpdateDirectRequest patches a direct cash movement.
type UpdateDirectRequest struct {
	Type   *string          `json:"type,omitempty"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Note   *string          `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateDirectRequest) ToUseCaseInput() usecase.UpdateDirectInput {
	input := usecase.UpdateDirectInput{
		Amount: r.Amount,
		Note:   r.Note,
	}

	if r.Type != nil {
		typ := domain.CashType(*r.Type)
		input.Type = &typ
	}

	return input
}

// SplitItem represents a single vendor sub-amount of a payment.
type SplitItem struct {
	VendorID string          `json:"vendor_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// CreateVendorPaymentRequest represents a request to record a vendor payment.
type CreateVendorPaymentRequest struct {
	PaymentNo string         `json:"payment_no,omitempty"`
	Date      *time.Time     `json:"date,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Splits    []SplitItem    `json:"splits"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateVendorPaymentRequest) ToUseCaseInput() usecase.CreateVendorPaymentInput {
	splits := make([]usecase.PaymentSplit, len(r.Splits))
	for i, s := range r.Splits {
		splits[i] = usecase.PaymentSplit{
			VendorID: s.VendorID,
			Amount:   s.Amount,
		}
	}

	input := usecase.CreateVendorPaymentInput{
		PaymentNo: r.PaymentNo,
		Metadata:  r.Metadata,
		Splits:    splits,
	}

	if r.Date != nil {
		input.Date = *r.Date
	}

	return input
}
