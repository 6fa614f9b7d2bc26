package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tourdesk/ledger/internal/domain"
	"github.com/tourdesk/ledger/internal/usecase"
)

// VendorPaymentRepository implements usecase.VendorPaymentRepository.
type VendorPaymentRepository struct {
	pool *pgxpool.Pool
}

// NewVendorPaymentRepository creates a new VendorPaymentRepository.
func NewVendorPaymentRepository(pool *pgxpool.Pool) *VendorPaymentRepository {
	return &VendorPaymentRepository{pool: pool}
}

const vendorPaymentColumns = `id, payment_no, vendor_id, date, amount, metadata,
	balance_change, previous_balance, new_balance, created_at, updated_at`

// Create inserts a payment split within a database transaction.
func (r *VendorPaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.VendorPayment) error {
	pgxTx := tx.(*Tx).PgxTx()

	metadata, err := marshalMetadata(payment.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO vendor_payments (` + vendorPaymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = pgxTx.Exec(ctx, query,
		payment.ID,
		payment.PaymentNo,
		payment.VendorID,
		timeToPgTimestamptz(payment.Date),
		decimalToNumeric(payment.Amount),
		metadata,
		decimalToNumeric(payment.BalanceChange),
		decimalToNumeric(payment.PreviousBalance),
		decimalToNumeric(payment.NewBalance),
		timeToPgTimestamptz(payment.CreatedAt),
		timeToPgTimestamptz(payment.UpdatedAt),
	)

	return translateError(err)
}

// GetByID retrieves a payment split by ID.
func (r *VendorPaymentRepository) GetByID(ctx context.Context, id string) (*domain.VendorPayment, error) {
	query := `SELECT ` + vendorPaymentColumns + ` FROM vendor_payments WHERE id = $1`

	return r.scanPayment(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a payment split with a FOR UPDATE lock.
func (r *VendorPaymentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.VendorPayment, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `SELECT ` + vendorPaymentColumns + ` FROM vendor_payments WHERE id = $1 FOR UPDATE`

	return r.scanPayment(pgxTx.QueryRow(ctx, query, id))
}

// ListByPaymentNo lists every split of one physical payment.
func (r *VendorPaymentRepository) ListByPaymentNo(ctx context.Context, paymentNo string) ([]*domain.VendorPayment, error) {
	query := `
		SELECT ` + vendorPaymentColumns + `
		FROM vendor_payments
		WHERE payment_no = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, paymentNo)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	return r.scanPayments(rows)
}

// ListByVendor lists a vendor's payment splits, newest first.
func (r *VendorPaymentRepository) ListByVendor(ctx context.Context, vendorID string, limit, offset int) ([]*domain.VendorPayment, error) {
	query := `
		SELECT ` + vendorPaymentColumns + `
		FROM vendor_payments
		WHERE vendor_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, vendorID, limit, offset)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	return r.scanPayments(rows)
}

// Delete removes a payment split.
func (r *VendorPaymentRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `DELETE FROM vendor_payments WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}

	return nil
}

func (r *VendorPaymentRepository) scanPayments(rows pgx.Rows) ([]*domain.VendorPayment, error) {
	var payments []*domain.VendorPayment
	for rows.Next() {
		payment, err := r.scanPayment(rows)
		if err != nil {
			return nil, err
		}

		payments = append(payments, payment)
	}

	return payments, translateError(rows.Err())
}

func (r *VendorPaymentRepository) scanPayment(row pgx.Row) (*domain.VendorPayment, error) {
	var (
		payment                    domain.VendorPayment
		metadata                   []byte
		amount, change, prev, next pgtype.Numeric
		date, createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&payment.ID,
		&payment.PaymentNo,
		&payment.VendorID,
		&date,
		&amount,
		&metadata,
		&change,
		&prev,
		&next,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}

		return nil, translateError(err)
	}

	payment.Date = date.Time
	payment.Amount = numericToDecimal(amount)
	payment.BalanceChange = numericToDecimal(change)
	payment.PreviousBalance = numericToDecimal(prev)
	payment.NewBalance = numericToDecimal(next)
	payment.CreatedAt = createdAt.Time
	payment.UpdatedAt = updatedAt.Time

	if metadata != nil {
		_ = json.Unmarshal(metadata, &payment.Metadata)
	}

	return &payment, nil
}
