package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tourdesk/ledger/internal/domain"
	"github.com/tourdesk/ledger/internal/usecase"
	"github.com/tourdesk/ledger/internal/usecase/mocks"
)

func newVendorPaymentFixture() (*usecase.VendorPaymentUseCase, *mocks.MockPartyRepository, *mocks.MockVendorPaymentRepository) {
	partyRepo := mocks.NewMockPartyRepository()
	paymentRepo := mocks.NewMockVendorPaymentRepository()
	outboxRepo := mocks.NewMockOutboxRepository()
	txMgr := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()

	uc := usecase.NewVendorPaymentUseCase(txMgr, partyRepo, paymentRepo, outboxRepo, idGen)

	return uc, partyRepo, paymentRepo
}

func TestVendorPaymentUseCase_Create_SplitAcrossVendors(t *testing.T) {
	uc, partyRepo, _ := newVendorPaymentFixture()

	partyRepo.Create(context.Background(), &domain.Party{
		ID: "vendor-a", Kind: domain.PartyKindVendor, PresentBalance: decimal.NewFromInt(800),
	})
	partyRepo.Create(context.Background(), &domain.Party{
		ID: "vendor-b", Kind: domain.PartyKindVendor, PresentBalance: decimal.NewFromInt(500),
	})

	result, err := uc.Create(context.Background(), usecase.CreateVendorPaymentInput{
		PaymentNo: "PAY-100",
		Splits: []usecase.PaymentSplit{
			{VendorID: "vendor-a", Amount: decimal.NewFromInt(300)},
			{VendorID: "vendor-b", Amount: decimal.NewFromInt(200)},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Payments) != 2 {
		t.Fatalf("expected 2 splits, got %d", len(result.Payments))
	}

	if !result.TotalAmount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected total 500, got %s", result.TotalAmount)
	}

	for _, p := range result.Payments {
		if p.PaymentNo != "PAY-100" {
			t.Errorf("expected payment no PAY-100, got %s", p.PaymentNo)
		}
	}

	vendorA, _ := partyRepo.GetByID(context.Background(), "vendor-a")
	if !vendorA.PresentBalance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected vendor-a balance 500, got %s", vendorA.PresentBalance)
	}

	vendorB, _ := partyRepo.GetByID(context.Background(), "vendor-b")
	if !vendorB.PresentBalance.Equal(decimal.NewFromInt(300)) {
		t.Errorf("expected vendor-b balance 300, got %s", vendorB.PresentBalance)
	}
}

func TestVendorPaymentUseCase_Create_RepeatedVendorStacksSplits(t *testing.T) {
	uc, partyRepo, _ := newVendorPaymentFixture()

	partyRepo.Create(context.Background(), &domain.Party{
		ID: "vendor-a", Kind: domain.PartyKindVendor, PresentBalance: decimal.NewFromInt(1000),
	})

	result, err := uc.Create(context.Background(), usecase.CreateVendorPaymentInput{
		Splits: []usecase.PaymentSplit{
			{VendorID: "vendor-a", Amount: decimal.NewFromInt(400)},
			{VendorID: "vendor-a", Amount: decimal.NewFromInt(100)},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Second split must build on the first one's balance, not the original
	second := result.Payments[1]
	if !second.PreviousBalance.Equal(decimal.NewFromInt(600)) {
		t.Errorf("expected second split previous balance 600, got %s", second.PreviousBalance)
	}

	vendor, _ := partyRepo.GetByID(context.Background(), "vendor-a")
	if !vendor.PresentBalance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected vendor balance 500, got %s", vendor.PresentBalance)
	}

	// Omitted payment number gets generated and shared across splits
	if result.PaymentNo == "" {
		t.Error("expected generated payment number")
	}
	if result.Payments[0].PaymentNo != result.Payments[1].PaymentNo {
		t.Error("splits do not share a payment number")
	}
}

func TestVendorPaymentUseCase_Create_Validation(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(*mocks.MockPartyRepository)
		input     usecase.CreateVendorPaymentInput
		errorType error
	}{
		{
			name:      "empty splits",
			setup:     func(*mocks.MockPartyRepository) {},
			input:     usecase.CreateVendorPaymentInput{},
			errorType: domain.ErrEmptyPayment,
		},
		{
			name:  "unknown vendor",
			setup: func(*mocks.MockPartyRepository) {},
			input: usecase.CreateVendorPaymentInput{
				Splits: []usecase.PaymentSplit{{VendorID: "ghost", Amount: decimal.NewFromInt(10)}},
			},
			errorType: domain.ErrPartyNotFound,
		},
		{
			name: "client instead of vendor",
			setup: func(partyRepo *mocks.MockPartyRepository) {
				partyRepo.Create(context.Background(), &domain.Party{
					ID: "client-1", Kind: domain.PartyKindClient,
				})
			},
			input: usecase.CreateVendorPaymentInput{
				Splits: []usecase.PaymentSplit{{VendorID: "client-1", Amount: decimal.NewFromInt(10)}},
			},
			errorType: domain.ErrInvalidPartyKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, partyRepo, _ := newVendorPaymentFixture()
			tt.setup(partyRepo)

			_, err := uc.Create(context.Background(), tt.input)
			if err != tt.errorType {
				t.Errorf("expected %v, got %v", tt.errorType, err)
			}
		})
	}
}

func TestVendorPaymentUseCase_DeleteByPaymentNo(t *testing.T) {
	uc, partyRepo, paymentRepo := newVendorPaymentFixture()

	partyRepo.Create(context.Background(), &domain.Party{
		ID: "vendor-a", Kind: domain.PartyKindVendor, PresentBalance: decimal.NewFromInt(1000),
	})
	partyRepo.Create(context.Background(), &domain.Party{
		ID: "vendor-b", Kind: domain.PartyKindVendor, PresentBalance: decimal.NewFromInt(1000),
	})

	created, err := uc.Create(context.Background(), usecase.CreateVendorPaymentInput{
		PaymentNo: "PAY-200",
		Splits: []usecase.PaymentSplit{
			{VendorID: "vendor-a", Amount: decimal.NewFromInt(250)},
			{VendorID: "vendor-b", Amount: decimal.NewFromInt(150)},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := uc.DeleteByPaymentNo(context.Background(), "PAY-200")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	if len(deleted) != len(created.Payments) {
		t.Fatalf("expected %d reversed splits, got %d", len(created.Payments), len(deleted))
	}

	for _, id := range []string{"vendor-a", "vendor-b"} {
		vendor, _ := partyRepo.GetByID(context.Background(), id)
		if !vendor.PresentBalance.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("expected %s balance restored to 1000, got %s", id, vendor.PresentBalance)
		}
	}

	remaining, _ := paymentRepo.ListByPaymentNo(context.Background(), "PAY-200")
	if len(remaining) != 0 {
		t.Errorf("expected no remaining splits, got %d", len(remaining))
	}
}

func TestVendorPaymentUseCase_DeleteByPaymentNo_Missing(t *testing.T) {
	uc, _, _ := newVendorPaymentFixture()

	if _, err := uc.DeleteByPaymentNo(context.Background(), "PAY-404"); err != domain.ErrPaymentNotFound {
		t.Errorf("expected ErrPaymentNotFound, got %v", err)
	}
}
