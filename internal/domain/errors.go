package domain

import "errors"

var (
	// Party errors
	ErrPartyNotFound         = errors.New("party not found")
	ErrInvalidPartyKind      = errors.New("invalid party kind")
	ErrInvalidOpeningBalance = errors.New("invalid opening balance configuration")

	// Movement errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrPaymentNotFound     = errors.New("vendor payment not found")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidDirection    = errors.New("invalid transaction direction")
	ErrInvalidCashType     = errors.New("invalid cash transaction type")
	ErrEmptyPayment        = errors.New("vendor payment requires at least one split")

	// Concurrency errors
	ErrConcurrencyConflict = errors.New("concurrent update detected")
)
