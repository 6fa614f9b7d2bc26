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

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, party_id, date, direction, amount, voucher_no, metadata,
	balance_change, previous_balance, new_balance, created_at, updated_at`

// Create inserts a transaction within a database transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	metadata, err := marshalMetadata(txn.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = pgxTx.Exec(ctx, query,
		txn.ID,
		txn.PartyID,
		timeToPgTimestamptz(txn.Date),
		string(txn.Direction),
		decimalToNumeric(txn.Amount),
		txn.VoucherNo,
		metadata,
		decimalToNumeric(txn.BalanceChange),
		decimalToNumeric(txn.PreviousBalance),
		decimalToNumeric(txn.NewBalance),
		timeToPgTimestamptz(txn.CreatedAt),
		timeToPgTimestamptz(txn.UpdatedAt),
	)

	return translateError(err)
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	return r.scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a transaction with a FOR UPDATE lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`

	return r.scanTransaction(pgxTx.QueryRow(ctx, query, id))
}

// Update rewrites a transaction's mutable fields and reversal bookkeeping.
func (r *TransactionRepository) Update(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	metadata, err := marshalMetadata(txn.Metadata)
	if err != nil {
		return err
	}

	query := `
		UPDATE transactions
		SET date = $2, direction = $3, amount = $4, voucher_no = $5, metadata = $6,
		    balance_change = $7, previous_balance = $8, new_balance = $9, updated_at = $10
		WHERE id = $1
	`

	tag, err := pgxTx.Exec(ctx, query,
		txn.ID,
		timeToPgTimestamptz(txn.Date),
		string(txn.Direction),
		decimalToNumeric(txn.Amount),
		txn.VoucherNo,
		metadata,
		decimalToNumeric(txn.BalanceChange),
		decimalToNumeric(txn.PreviousBalance),
		decimalToNumeric(txn.NewBalance),
		timeToPgTimestamptz(txn.UpdatedAt),
	)
	if err != nil {
		return translateError(err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// Delete removes a transaction.
func (r *TransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// ListByParty lists a party's transactions, newest first.
func (r *TransactionRepository) ListByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE party_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, partyID, limit, offset)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := r.scanTransaction(rows)
		if err != nil {
			return nil, err
		}

		txns = append(txns, txn)
	}

	return txns, translateError(rows.Err())
}

func (r *TransactionRepository) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn                        domain.Transaction
		direction                  string
		metadata                   []byte
		amount, change, prev, next pgtype.Numeric
		date, createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&txn.ID,
		&txn.PartyID,
		&date,
		&direction,
		&amount,
		&txn.VoucherNo,
		&metadata,
		&change,
		&prev,
		&next,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, translateError(err)
	}

	txn.Date = date.Time
	txn.Direction = domain.TransactionDirection(direction)
	txn.Amount = numericToDecimal(amount)
	txn.BalanceChange = numericToDecimal(change)
	txn.PreviousBalance = numericToDecimal(prev)
	txn.NewBalance = numericToDecimal(next)
	txn.CreatedAt = createdAt.Time
	txn.UpdatedAt = updatedAt.Time

	if metadata != nil {
		_ = json.Unmarshal(metadata, &txn.Metadata)
	}

	return &txn, nil
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		return nil, nil
	}

	return json.Marshal(metadata)
}
