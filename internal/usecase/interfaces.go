package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tourdesk/ledger/internal/domain"
)

// PartyRepository defines data access for parties.
type PartyRepository interface {
	Create(ctx context.Context, party *domain.Party) error
	GetByID(ctx context.Context, id string) (*domain.Party, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Party, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Party, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, kind *domain.PartyKind, limit, offset int) ([]*domain.Party, error)
}

// TransactionRepository defines data access for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transaction, error)
	Update(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	Delete(ctx context.Context, tx Transaction, id string) error
	ListByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.Transaction, error)
}

// DirectTransactionRepository defines data access for direct cash transactions.
type DirectTransactionRepository interface {
	Create(ctx context.Context, tx Transaction, dt *domain.DirectTransaction) error
	GetByID(ctx context.Context, id string) (*domain.DirectTransaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.DirectTransaction, error)
	Update(ctx context.Context, tx Transaction, dt *domain.DirectTransaction) error
	Delete(ctx context.Context, tx Transaction, id string) error
	ListByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.DirectTransaction, error)
}

// VendorPaymentRepository defines data access for vendor payment splits.
type VendorPaymentRepository interface {
	Create(ctx context.Context, tx Transaction, payment *domain.VendorPayment) error
	GetByID(ctx context.Context, id string) (*domain.VendorPayment, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.VendorPayment, error)
	ListByPaymentNo(ctx context.Context, paymentNo string) ([]*domain.VendorPayment, error)
	ListByVendor(ctx context.Context, vendorID string, limit, offset int) ([]*domain.VendorPayment, error)
	Delete(ctx context.Context, tx Transaction, id string) error
}

// AuditRepository defines data access for reconciliation audit entries.
// Audit entries are append-only.
type AuditRepository interface {
	Create(ctx context.Context, tx Transaction, audit *domain.ReconciliationAudit) error
	ListByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.ReconciliationAudit, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
