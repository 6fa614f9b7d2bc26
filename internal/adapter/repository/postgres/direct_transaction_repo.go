package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tourdesk/ledger/internal/domain"
	"github.com/tourdesk/ledger/internal/usecase"
)

// DirectTransactionRepository implements usecase.DirectTransactionRepository.
type DirectTransactionRepository struct {
	pool *pgxpool.Pool
}

// NewDirectTransactionRepository creates a new DirectTransactionRepository.
func NewDirectTransactionRepository(pool *pgxpool.Pool) *DirectTransactionRepository {
	return &DirectTransactionRepository{pool: pool}
}

const directColumns = `id, party_id, type, amount, note,
	balance_change, previous_balance, new_balance, created_at, updated_at`

// Create inserts a direct cash movement within a database transaction.
func (r *DirectTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, dt *domain.DirectTransaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO direct_transactions (` + directColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := pgxTx.Exec(ctx, query,
		dt.ID,
		dt.PartyID,
		string(dt.Type),
		decimalToNumeric(dt.Amount),
		dt.Note,
		decimalToNumeric(dt.BalanceChange),
		decimalToNumeric(dt.PreviousBalance),
		decimalToNumeric(dt.NewBalance),
		timeToPgTimestamptz(dt.CreatedAt),
		timeToPgTimestamptz(dt.UpdatedAt),
	)

	return translateError(err)
}

// GetByID retrieves a direct cash movement by ID.
func (r *DirectTransactionRepository) GetByID(ctx context.Context, id string) (*domain.DirectTransaction, error) {
	query := `SELECT ` + directColumns + ` FROM direct_transactions WHERE id = $1`

	return r.scanDirect(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a direct cash movement with a FOR UPDATE lock.
func (r *DirectTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.DirectTransaction, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `SELECT ` + directColumns + ` FROM direct_transactions WHERE id = $1 FOR UPDATE`

	return r.scanDirect(pgxTx.QueryRow(ctx, query, id))
}

// Update rewrites a movement's mutable fields and reversal bookkeeping.
func (r *DirectTransactionRepository) Update(ctx context.Context, tx usecase.Transaction, dt *domain.DirectTransaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE direct_transactions
		SET type = $2, amount = $3, note = $4,
		    balance_change = $5, previous_balance = $6, new_balance = $7, updated_at = $8
		WHERE id = $1
	`

	tag, err := pgxTx.Exec(ctx, query,
		dt.ID,
		string(dt.Type),
		decimalToNumeric(dt.Amount),
		dt.Note,
		decimalToNumeric(dt.BalanceChange),
		decimalToNumeric(dt.PreviousBalance),
		decimalToNumeric(dt.NewBalance),
		timeToPgTimestamptz(dt.UpdatedAt),
	)
	if err != nil {
		return translateError(err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// Delete removes a direct cash movement.
func (r *DirectTransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `DELETE FROM direct_transactions WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// ListByParty lists a party's direct cash movements, newest first.
func (r *DirectTransactionRepository) ListByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.DirectTransaction, error) {
	query := `
		SELECT ` + directColumns + `
		FROM direct_transactions
		WHERE party_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, partyID, limit, offset)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var directs []*domain.DirectTransaction
	for rows.Next() {
		dt, err := r.scanDirect(rows)
		if err != nil {
			return nil, err
		}

		directs = append(directs, dt)
	}

	return directs, translateError(rows.Err())
}

func (r *DirectTransactionRepository) scanDirect(row pgx.Row) (*domain.DirectTransaction, error) {
	var (
		dt                         domain.DirectTransaction
		typ                        string
		amount, change, prev, next pgtype.Numeric
		createdAt, updatedAt       pgtype.Timestamptz
	)

	err := row.Scan(
		&dt.ID,
		&dt.PartyID,
		&typ,
		&amount,
		&dt.Note,
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

	dt.Type = domain.CashType(typ)
	dt.Amount = numericToDecimal(amount)
	dt.BalanceChange = numericToDecimal(change)
	dt.PreviousBalance = numericToDecimal(prev)
	dt.NewBalance = numericToDecimal(next)
	dt.CreatedAt = createdAt.Time
	dt.UpdatedAt = updatedAt.Time

	return &dt, nil
}
