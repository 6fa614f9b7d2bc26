package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tourdesk/ledger/internal/domain"
)

//go:generate mockgen -source=sources.go -destination=mocks/mock_sources.go -package=mocks

// EntrySource is the read-only contract every ledger source implements:
// invoices, transactions, direct cash, and vendor payments each translate
// their native shape into canonical ledger entries at this boundary. Sources
// have no side effects and are safe for concurrent use.
type EntrySource interface {
	// SourceType identifies the source for diagnostics.
	SourceType() domain.EntrySourceType
	// ListEntries returns the party's entries within [from, to]; nil bounds
	// are unbounded. Order is not guaranteed; the balance calculator sorts.
	ListEntries(ctx context.Context, partyID string, from, to *time.Time) ([]domain.LedgerEntry, error)
	// SumEntries returns debit/credit totals for entries strictly before the
	// cutoff; a nil cutoff sums the party's full history.
	SumEntries(ctx context.Context, partyID string, before *time.Time) (domain.EntryTotals, error)
}

// CompositeSource merges the individual sources into the single source the
// statement and reconciliation paths consume.
type CompositeSource struct {
	sources []EntrySource
}

// NewCompositeSource creates a CompositeSource.
func NewCompositeSource(sources ...EntrySource) *CompositeSource {
	return &CompositeSource{sources: sources}
}

// SourceType identifies the composite for diagnostics.
func (c *CompositeSource) SourceType() domain.EntrySourceType {
	return "composite"
}

// ListEntries concatenates entries from all sources.
func (c *CompositeSource) ListEntries(ctx context.Context, partyID string, from, to *time.Time) ([]domain.LedgerEntry, error) {
	var entries []domain.LedgerEntry

	for _, source := range c.sources {
		sourceEntries, err := source.ListEntries(ctx, partyID, from, to)
		if err != nil {
			return nil, fmt.Errorf("list %s entries: %w", source.SourceType(), err)
		}

		entries = append(entries, sourceEntries...)
	}

	return entries, nil
}

// SumEntries adds up totals from all sources.
func (c *CompositeSource) SumEntries(ctx context.Context, partyID string, before *time.Time) (domain.EntryTotals, error) {
	totals := domain.EntryTotals{}

	for _, source := range c.sources {
		sourceTotals, err := source.SumEntries(ctx, partyID, before)
		if err != nil {
			return domain.EntryTotals{}, fmt.Errorf("sum %s entries: %w", source.SourceType(), err)
		}

		totals = totals.Add(sourceTotals)
	}

	return totals, nil
}
