package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tourdesk/ledger/internal/domain"
	"github.com/tourdesk/ledger/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository. The table is
// append-only; there is no update or delete path.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

const auditColumns = `id, party_id, old_balance, new_balance, difference, metadata, created_at`

// Create inserts an audit entry within the correcting transaction, so the
// balance correction and its audit record commit or roll back together.
func (r *AuditRepository) Create(ctx context.Context, tx usecase.Transaction, audit *domain.ReconciliationAudit) error {
	pgxTx := tx.(*Tx).PgxTx()

	var metadata []byte
	if audit.Metadata != nil {
		var err error
		metadata, err = json.Marshal(audit.Metadata)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO reconciliation_audits (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := pgxTx.Exec(ctx, query,
		audit.ID,
		audit.PartyID,
		decimalToNumeric(audit.OldBalance),
		decimalToNumeric(audit.NewBalance),
		decimalToNumeric(audit.Difference),
		metadata,
		timeToPgTimestamptz(audit.CreatedAt),
	)

	return translateError(err)
}

// ListByParty lists a party's audit entries, newest first.
func (r *AuditRepository) ListByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.ReconciliationAudit, error) {
	query := `
		SELECT ` + auditColumns + `
		FROM reconciliation_audits
		WHERE party_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, partyID, limit, offset)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var audits []*domain.ReconciliationAudit
	for rows.Next() {
		audit, err := r.scanAudit(rows)
		if err != nil {
			return nil, err
		}

		audits = append(audits, audit)
	}

	return audits, translateError(rows.Err())
}

func (r *AuditRepository) scanAudit(row pgx.Row) (*domain.ReconciliationAudit, error) {
	var (
		audit                domain.ReconciliationAudit
		metadata             []byte
		oldBal, newBal, diff pgtype.Numeric
		createdAt            pgtype.Timestamptz
	)

	err := row.Scan(
		&audit.ID,
		&audit.PartyID,
		&oldBal,
		&newBal,
		&diff,
		&metadata,
		&createdAt,
	)
	if err != nil {
		return nil, translateError(err)
	}

	audit.OldBalance = numericToDecimal(oldBal)
	audit.NewBalance = numericToDecimal(newBal)
	audit.Difference = numericToDecimal(diff)
	audit.CreatedAt = createdAt.Time

	if metadata != nil {
		_ = json.Unmarshal(metadata, &audit.Metadata)
	}

	return &audit, nil
}
