package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tourdesk/ledger/internal/domain"
)

// The entry sources translate each movement table into the canonical
// debit/credit view in SQL, so listing and summing never load a row the
// window excludes. Each source is read-only and safe for concurrent use.

// InvoiceSource reads invoices as debit entries.
type InvoiceSource struct {
	pool *pgxpool.Pool
}

// NewInvoiceSource creates a new InvoiceSource.
func NewInvoiceSource(pool *pgxpool.Pool) *InvoiceSource {
	return &InvoiceSource{pool: pool}
}

func (s *InvoiceSource) SourceType() domain.EntrySourceType {
	return domain.SourceInvoice
}

func (s *InvoiceSource) ListEntries(ctx context.Context, partyID string, from, to *time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT id, sales_date, created_at, net_total, 0::numeric
		FROM invoices
		WHERE party_id = $1
	` + windowClause("sales_date", from, to)

	return queryEntries(ctx, s.pool, query, domain.SourceInvoice, partyID, from, to)
}

func (s *InvoiceSource) SumEntries(ctx context.Context, partyID string, before *time.Time) (domain.EntryTotals, error) {
	query := `
		SELECT COALESCE(SUM(net_total), 0), 0::numeric
		FROM invoices
		WHERE party_id = $1
	` + cutoffClause("sales_date", before)

	return sumTotals(ctx, s.pool, query, partyID, before)
}

// TransactionSource reads signed transactions: payout is a debit, receiv a
// credit.
type TransactionSource struct {
	pool *pgxpool.Pool
}

// NewTransactionSource creates a new TransactionSource.
func NewTransactionSource(pool *pgxpool.Pool) *TransactionSource {
	return &TransactionSource{pool: pool}
}

func (s *TransactionSource) SourceType() domain.EntrySourceType {
	return domain.SourceTransaction
}

func (s *TransactionSource) ListEntries(ctx context.Context, partyID string, from, to *time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT id, date, created_at,
		       CASE WHEN direction = 'payout' THEN amount ELSE 0 END,
		       CASE WHEN direction = 'receiv' THEN amount ELSE 0 END
		FROM transactions
		WHERE party_id = $1
	` + windowClause("date", from, to)

	return queryEntries(ctx, s.pool, query, domain.SourceTransaction, partyID, from, to)
}

func (s *TransactionSource) SumEntries(ctx context.Context, partyID string, before *time.Time) (domain.EntryTotals, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN direction = 'payout' THEN amount ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN direction = 'receiv' THEN amount ELSE 0 END), 0)
		FROM transactions
		WHERE party_id = $1
	` + cutoffClause("date", before)

	return sumTotals(ctx, s.pool, query, partyID, before)
}

// DirectSource reads direct cash movements: cash_in is a debit, cash_out a
// credit. Direct movements have no business date, so creation time is the
// ledger date.
type DirectSource struct {
	pool *pgxpool.Pool
}

// NewDirectSource creates a new DirectSource.
func NewDirectSource(pool *pgxpool.Pool) *DirectSource {
	return &DirectSource{pool: pool}
}

func (s *DirectSource) SourceType() domain.EntrySourceType {
	return domain.SourceDirect
}

func (s *DirectSource) ListEntries(ctx context.Context, partyID string, from, to *time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT id, created_at, created_at,
		       CASE WHEN type = 'cash_in' THEN amount ELSE 0 END,
		       CASE WHEN type = 'cash_out' THEN amount ELSE 0 END
		FROM direct_transactions
		WHERE party_id = $1
	` + windowClause("created_at", from, to)

	return queryEntries(ctx, s.pool, query, domain.SourceDirect, partyID, from, to)
}

func (s *DirectSource) SumEntries(ctx context.Context, partyID string, before *time.Time) (domain.EntryTotals, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'cash_in' THEN amount ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN type = 'cash_out' THEN amount ELSE 0 END), 0)
		FROM direct_transactions
		WHERE party_id = $1
	` + cutoffClause("created_at", before)

	return sumTotals(ctx, s.pool, query, partyID, before)
}

// VendorPaymentSource reads payment splits as credit entries against their
// vendor.
type VendorPaymentSource struct {
	pool *pgxpool.Pool
}

// NewVendorPaymentSource creates a new VendorPaymentSource.
func NewVendorPaymentSource(pool *pgxpool.Pool) *VendorPaymentSource {
	return &VendorPaymentSource{pool: pool}
}

func (s *VendorPaymentSource) SourceType() domain.EntrySourceType {
	return domain.SourceVendorPayment
}

func (s *VendorPaymentSource) ListEntries(ctx context.Context, partyID string, from, to *time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT id, date, created_at, 0::numeric, amount
		FROM vendor_payments
		WHERE vendor_id = $1
	` + windowClause("date", from, to)

	return queryEntries(ctx, s.pool, query, domain.SourceVendorPayment, partyID, from, to)
}

func (s *VendorPaymentSource) SumEntries(ctx context.Context, partyID string, before *time.Time) (domain.EntryTotals, error) {
	query := `
		SELECT 0::numeric, COALESCE(SUM(amount), 0)
		FROM vendor_payments
		WHERE vendor_id = $1
	` + cutoffClause("date", before)

	return sumTotals(ctx, s.pool, query, partyID, before)
}

// windowClause appends inclusive date bounds; nil bounds are unbounded.
// Placeholders continue from $1 (party ID).
func windowClause(column string, from, to *time.Time) string {
	clause := ""
	pos := 2

	if from != nil {
		clause += fmt.Sprintf(" AND %s >= $%d", column, pos)
		pos++
	}

	if to != nil {
		clause += fmt.Sprintf(" AND %s <= $%d", column, pos)
	}

	return clause
}

// cutoffClause appends a strict upper bound; a nil cutoff sums everything.
func cutoffClause(column string, before *time.Time) string {
	if before == nil {
		return ""
	}

	return fmt.Sprintf(" AND %s < $2", column)
}

func windowArgs(partyID string, from, to *time.Time) []any {
	args := []any{partyID}
	if from != nil {
		args = append(args, *from)
	}
	if to != nil {
		args = append(args, *to)
	}

	return args
}

func queryEntries(ctx context.Context, pool *pgxpool.Pool, query string, sourceType domain.EntrySourceType, partyID string, from, to *time.Time) ([]domain.LedgerEntry, error) {
	rows, err := pool.Query(ctx, query, windowArgs(partyID, from, to)...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	return scanEntries(rows, sourceType)
}

func scanEntries(rows pgx.Rows, sourceType domain.EntrySourceType) ([]domain.LedgerEntry, error) {
	var entries []domain.LedgerEntry
	for rows.Next() {
		var (
			entry           domain.LedgerEntry
			date, createdAt pgtype.Timestamptz
			debit, credit   pgtype.Numeric
		)

		if err := rows.Scan(&entry.SourceID, &date, &createdAt, &debit, &credit); err != nil {
			return nil, translateError(err)
		}

		entry.Date = date.Time
		entry.CreatedAt = createdAt.Time
		entry.Debit = numericToDecimal(debit)
		entry.Credit = numericToDecimal(credit)
		entry.SourceType = sourceType

		entries = append(entries, entry)
	}

	return entries, translateError(rows.Err())
}

func sumTotals(ctx context.Context, pool *pgxpool.Pool, query string, partyID string, before *time.Time) (domain.EntryTotals, error) {
	args := []any{partyID}
	if before != nil {
		args = append(args, *before)
	}

	var debit, credit pgtype.Numeric
	if err := pool.QueryRow(ctx, query, args...).Scan(&debit, &credit); err != nil {
		return domain.EntryTotals{}, translateError(err)
	}

	return domain.EntryTotals{
		Debit:  numericToDecimal(debit),
		Credit: numericToDecimal(credit),
	}, nil
}
