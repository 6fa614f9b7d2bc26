package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tourdesk/ledger/internal/domain"
)

// PartyUseCase handles party onboarding and lookups.
type PartyUseCase struct {
	partyRepo PartyRepository
	auditRepo AuditRepository
	idGen     IDGenerator
}

// NewPartyUseCase creates a new PartyUseCase.
func NewPartyUseCase(partyRepo PartyRepository, auditRepo AuditRepository, idGen IDGenerator) *PartyUseCase {
	return &PartyUseCase{
		partyRepo: partyRepo,
		auditRepo: auditRepo,
		idGen:     idGen,
	}
}

// CreatePartyInput represents input for onboarding a party.
type CreatePartyInput struct {
	Kind                 domain.PartyKind
	Name                 string
	Email                string
	Phone                string
	OpeningBalanceType   domain.OpeningBalanceType
	OpeningBalanceAmount decimal.Decimal
	CreditLimit          decimal.Decimal
}

// CreateParty onboards a client or vendor. The present balance is seeded with
// the signed opening balance; from then on only the write services touch it.
func (uc *PartyUseCase) CreateParty(ctx context.Context, input CreatePartyInput) (*domain.Party, error) {
	if err := domain.ValidateKind(input.Kind); err != nil {
		return nil, err
	}

	if err := domain.ValidatePartyName(input.Name); err != nil {
		return nil, err
	}

	if input.OpeningBalanceType == "" {
		input.OpeningBalanceType = domain.OpeningBalanceNone
	}

	now := time.Now().UTC()
	party := &domain.Party{
		ID:                   uc.idGen.Generate(),
		Kind:                 input.Kind,
		Name:                 input.Name,
		Email:                input.Email,
		Phone:                input.Phone,
		OpeningBalanceType:   input.OpeningBalanceType,
		OpeningBalanceAmount: input.OpeningBalanceAmount,
		CreditLimit:          input.CreditLimit,
		Version:              1,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := party.ValidateOpening(); err != nil {
		return nil, err
	}

	party.PresentBalance = party.OpeningBalance()

	if err := uc.partyRepo.Create(ctx, party); err != nil {
		return nil, err
	}

	return party, nil
}

// GetParty retrieves a party by ID.
func (uc *PartyUseCase) GetParty(ctx context.Context, id string) (*domain.Party, error) {
	return uc.partyRepo.GetByID(ctx, id)
}

// ListPartiesInput represents input for listing parties.
type ListPartiesInput struct {
	Kind   *domain.PartyKind
	Limit  int
	Offset int
}

// ListParties lists parties, optionally filtered by kind.
func (uc *PartyUseCase) ListParties(ctx context.Context, input ListPartiesInput) ([]*domain.Party, error) {
	if input.Kind != nil {
		if err := domain.ValidateKind(*input.Kind); err != nil {
			return nil, err
		}
	}

	limit, offset, _ := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.partyRepo.List(ctx, input.Kind, limit, offset)
}

// AuditHistory lists reconciliation audit entries for a party.
func (uc *PartyUseCase) AuditHistory(ctx context.Context, partyID string, limit, offset int) ([]*domain.ReconciliationAudit, error) {
	if _, err := uc.partyRepo.GetByID(ctx, partyID); err != nil {
		return nil, err
	}

	limit, offset, _ = domain.ValidatePagination(limit, offset)

	return uc.auditRepo.ListByParty(ctx, partyID, limit, offset)
}
