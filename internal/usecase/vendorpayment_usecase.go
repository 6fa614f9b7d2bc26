package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tourdesk/ledger/internal/domain"
)

// VendorPaymentUseCase records payments to vendors, including a single
// payment apportioned across several vendors. Each split is its own ledger
// record against its vendor; the whole payment applies atomically.
type VendorPaymentUseCase struct {
	txManager   TransactionManager
	partyRepo   PartyRepository
	paymentRepo VendorPaymentRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
}

// NewVendorPaymentUseCase creates a new VendorPaymentUseCase.
func NewVendorPaymentUseCase(
	txManager TransactionManager,
	partyRepo PartyRepository,
	paymentRepo VendorPaymentRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *VendorPaymentUseCase {
	return &VendorPaymentUseCase{
		txManager:   txManager,
		partyRepo:   partyRepo,
		paymentRepo: paymentRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
	}
}

// PaymentSplit is one vendor sub-amount of a payment.
type PaymentSplit struct {
	VendorID string
	Amount   decimal.Decimal
}

// CreateVendorPaymentInput represents input for recording a payment.
type CreateVendorPaymentInput struct {
	PaymentNo string
	Date      time.Time
	Metadata  map[string]any
	Splits    []PaymentSplit
}

// VendorPaymentResult carries the recorded splits and the payment total.
type VendorPaymentResult struct {
	PaymentNo   string
	Payments    []*domain.VendorPayment
	TotalAmount decimal.Decimal
}

// Create records all splits of a payment in one transaction. Vendor rows are
// locked in sorted ID order (deadlock prevention). Every split settles part
// of its vendor's payable, so each applies a negative delta.
func (uc *VendorPaymentUseCase) Create(ctx context.Context, input CreateVendorPaymentInput) (*VendorPaymentResult, error) {
	// Validate before any mutation
	if len(input.Splits) == 0 {
		return nil, domain.ErrEmptyPayment
	}

	for _, split := range input.Splits {
		if err := domain.ValidateAmount(split.Amount); err != nil {
			return nil, err
		}
	}

	if err := domain.ValidateMetadata(input.Metadata); err != nil {
		return nil, err
	}

	paymentNo := input.PaymentNo
	if paymentNo == "" {
		paymentNo = uuid.NewString()
	}

	vendorIDs := uc.collectUniqueVendorIDs(input.Splits)
	sort.Strings(vendorIDs)

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	vendors, err := uc.partyRepo.GetByIDsForUpdate(ctx, tx, vendorIDs)
	if err != nil {
		return nil, err
	}

	if len(vendors) != len(vendorIDs) {
		return nil, domain.ErrPartyNotFound
	}

	vendorMap := make(map[string]*domain.Party, len(vendors))
	for _, v := range vendors {
		if v.Kind != domain.PartyKindVendor {
			return nil, domain.ErrInvalidPartyKind
		}

		vendorMap[v.ID] = v
	}

	now := time.Now().UTC()

	date := input.Date
	if date.IsZero() {
		date = now
	}

	result := &VendorPaymentResult{
		PaymentNo:   paymentNo,
		TotalAmount: decimal.Zero,
	}

	for _, split := range input.Splits {
		vendor := vendorMap[split.VendorID]
		change := split.Amount.Neg()
		oldBalance := vendor.PresentBalance
		newBalance := oldBalance.Add(change)

		payment := &domain.VendorPayment{
			ID:              uc.idGen.Generate(),
			PaymentNo:       paymentNo,
			VendorID:        vendor.ID,
			Date:            date,
			Amount:          split.Amount,
			Metadata:        input.Metadata,
			BalanceChange:   change,
			PreviousBalance: oldBalance,
			NewBalance:      newBalance,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if err := uc.paymentRepo.Create(ctx, tx, payment); err != nil {
			return nil, err
		}

		if err := uc.partyRepo.UpdateBalance(ctx, tx, vendor.ID, newBalance, now); err != nil {
			return nil, err
		}

		// Later splits against the same vendor build on this balance
		vendor.PresentBalance = newBalance

		if err := uc.writeBalanceEvent(ctx, tx, payment, oldBalance, newBalance, now); err != nil {
			return nil, err
		}

		result.Payments = append(result.Payments, payment)
		result.TotalAmount = result.TotalAmount.Add(split.Amount)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

// Delete reverses a single split and removes it.
func (uc *VendorPaymentUseCase) Delete(ctx context.Context, id string) (*domain.VendorPayment, error) {
	existing, err := uc.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	vendor, err := uc.partyRepo.GetByIDForUpdate(ctx, tx, existing.VendorID)
	if err != nil {
		return nil, err
	}

	payment, err := uc.paymentRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	oldBalance := vendor.PresentBalance
	newBalance := oldBalance.Sub(payment.BalanceChange)

	if err := uc.paymentRepo.Delete(ctx, tx, id); err != nil {
		return nil, err
	}

	if err := uc.partyRepo.UpdateBalance(ctx, tx, vendor.ID, newBalance, now); err != nil {
		return nil, err
	}

	if err := uc.writeBalanceEvent(ctx, tx, payment, oldBalance, newBalance, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return payment, nil
}

// DeleteByPaymentNo reverses every split of a payment atomically.
func (uc *VendorPaymentUseCase) DeleteByPaymentNo(ctx context.Context, paymentNo string) ([]*domain.VendorPayment, error) {
	splits, err := uc.paymentRepo.ListByPaymentNo(ctx, paymentNo)
	if err != nil {
		return nil, err
	}

	if len(splits) == 0 {
		return nil, domain.ErrPaymentNotFound
	}

	vendorIDs := make([]string, 0, len(splits))
	seen := make(map[string]bool)
	for _, s := range splits {
		if !seen[s.VendorID] {
			seen[s.VendorID] = true
			vendorIDs = append(vendorIDs, s.VendorID)
		}
	}
	sort.Strings(vendorIDs)

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	vendors, err := uc.partyRepo.GetByIDsForUpdate(ctx, tx, vendorIDs)
	if err != nil {
		return nil, err
	}

	if len(vendors) != len(vendorIDs) {
		return nil, domain.ErrPartyNotFound
	}

	vendorMap := make(map[string]*domain.Party, len(vendors))
	for _, v := range vendors {
		vendorMap[v.ID] = v
	}

	now := time.Now().UTC()
	for _, split := range splits {
		vendor := vendorMap[split.VendorID]
		oldBalance := vendor.PresentBalance
		newBalance := oldBalance.Sub(split.BalanceChange)

		if err := uc.paymentRepo.Delete(ctx, tx, split.ID); err != nil {
			return nil, err
		}

		if err := uc.partyRepo.UpdateBalance(ctx, tx, vendor.ID, newBalance, now); err != nil {
			return nil, err
		}

		vendor.PresentBalance = newBalance

		if err := uc.writeBalanceEvent(ctx, tx, split, oldBalance, newBalance, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return splits, nil
}

// Get retrieves a payment split by ID.
func (uc *VendorPaymentUseCase) Get(ctx context.Context, id string) (*domain.VendorPayment, error) {
	return uc.paymentRepo.GetByID(ctx, id)
}

// ListByVendor lists payment splits for a vendor.
func (uc *VendorPaymentUseCase) ListByVendor(ctx context.Context, vendorID string, limit, offset int) ([]*domain.VendorPayment, error) {
	limit, offset, _ = domain.ValidatePagination(limit, offset)

	return uc.paymentRepo.ListByVendor(ctx, vendorID, limit, offset)
}

func (uc *VendorPaymentUseCase) collectUniqueVendorIDs(splits []PaymentSplit) []string {
	seen := make(map[string]bool)

	var ids []string
	for _, s := range splits {
		if !seen[s.VendorID] {
			seen[s.VendorID] = true
			ids = append(ids, s.VendorID)
		}
	}

	return ids
}

func (uc *VendorPaymentUseCase) writeBalanceEvent(
	ctx context.Context,
	tx Transaction,
	payment *domain.VendorPayment,
	oldBalance, newBalance decimal.Decimal,
	now time.Time,
) error {
	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   payment.VendorID,
		AggregateType: domain.AggregateTypeParty,
		EventType:     domain.EventTypeBalanceChanged,
		Payload: domain.BalanceChangedEvent{
			PartyID:    payment.VendorID,
			SourceType: string(domain.SourceVendorPayment),
			SourceID:   payment.ID,
			PaymentNo:  payment.PaymentNo,
			OldBalance: oldBalance.String(),
			NewBalance: newBalance.String(),
		},
		CreatedAt: now,
	})
}
