package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tourdesk/ledger/internal/domain"
	"github.com/tourdesk/ledger/internal/usecase"
)

// PartyRepository implements usecase.PartyRepository.
type PartyRepository struct {
	pool *pgxpool.Pool
}

// NewPartyRepository creates a new PartyRepository.
func NewPartyRepository(pool *pgxpool.Pool) *PartyRepository {
	return &PartyRepository{pool: pool}
}

const partyColumns = `id, kind, name, email, phone,
	opening_balance_type, opening_balance_amount, present_balance,
	credit_limit, version, created_at, updated_at`

// Create creates a new party.
func (r *PartyRepository) Create(ctx context.Context, party *domain.Party) error {
	query := `
		INSERT INTO parties (` + partyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		party.ID,
		string(party.Kind),
		party.Name,
		party.Email,
		party.Phone,
		string(party.OpeningBalanceType),
		decimalToNumeric(party.OpeningBalanceAmount),
		decimalToNumeric(party.PresentBalance),
		decimalToNumeric(party.CreditLimit),
		party.Version,
		timeToPgTimestamptz(party.CreatedAt),
		timeToPgTimestamptz(party.UpdatedAt),
	)

	return translateError(err)
}

// GetByID retrieves a party by ID.
func (r *PartyRepository) GetByID(ctx context.Context, id string) (*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE id = $1`

	return r.scanParty(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a party by ID with a FOR UPDATE lock.
func (r *PartyRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Party, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `SELECT ` + partyColumns + ` FROM parties WHERE id = $1 FOR UPDATE`

	return r.scanParty(pgxTx.QueryRow(ctx, query, id))
}

// GetByIDsForUpdate retrieves multiple parties with FOR UPDATE locks. Callers
// pass IDs in sorted order so concurrent multi-party writers lock in the same
// sequence.
func (r *PartyRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Party, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `
		SELECT ` + partyColumns + `
		FROM parties
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`

	rows, err := pgxTx.Query(ctx, query, ids)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var parties []*domain.Party
	for rows.Next() {
		party, err := r.scanParty(rows)
		if err != nil {
			return nil, err
		}

		parties = append(parties, party)
	}

	return parties, translateError(rows.Err())
}

// UpdateBalance updates a party's cached balance and bumps its version.
func (r *PartyRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()
	query := `
		UPDATE parties
		SET present_balance = $2, version = version + 1, updated_at = $3
		WHERE id = $1
	`

	tag, err := pgxTx.Exec(ctx, query, id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return translateError(err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrPartyNotFound
	}

	return nil
}

// List lists parties with pagination, optionally filtered by kind.
func (r *PartyRepository) List(ctx context.Context, kind *domain.PartyKind, limit, offset int) ([]*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties`
	args := []any{}

	if kind != nil {
		query += ` WHERE kind = $1`
		args = append(args, string(*kind))
		query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	}

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var parties []*domain.Party
	for rows.Next() {
		party, err := r.scanParty(rows)
		if err != nil {
			return nil, err
		}

		parties = append(parties, party)
	}

	return parties, translateError(rows.Err())
}

func (r *PartyRepository) scanParty(row pgx.Row) (*domain.Party, error) {
	var (
		party                         domain.Party
		kind, openingType             string
		opening, present, creditLimit pgtype.Numeric
		createdAt, updatedAt          pgtype.Timestamptz
	)

	err := row.Scan(
		&party.ID,
		&kind,
		&party.Name,
		&party.Email,
		&party.Phone,
		&openingType,
		&opening,
		&present,
		&creditLimit,
		&party.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPartyNotFound
		}

		return nil, translateError(err)
	}

	party.Kind = domain.PartyKind(kind)
	party.OpeningBalanceType = domain.OpeningBalanceType(openingType)
	party.OpeningBalanceAmount = numericToDecimal(opening)
	party.PresentBalance = numericToDecimal(present)
	party.CreditLimit = numericToDecimal(creditLimit)
	party.CreatedAt = createdAt.Time
	party.UpdatedAt = updatedAt.Time

	return &party, nil
}
