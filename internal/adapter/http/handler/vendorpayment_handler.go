package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tourdesk/ledger/internal/adapter/http/dto"
	"github.com/tourdesk/ledger/internal/usecase"
)

// VendorPaymentHandler handles vendor payment HTTP requests.
type VendorPaymentHandler struct {
	paymentUC *usecase.VendorPaymentUseCase
}

// NewVendorPaymentHandler creates a new VendorPaymentHandler.
func NewVendorPaymentHandler(paymentUC *usecase.VendorPaymentUseCase) *VendorPaymentHandler {
	return &VendorPaymentHandler{paymentUC: paymentUC}
}

// Create records a payment, possibly split across several vendors.
func (h *VendorPaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateVendorPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.paymentUC.Create(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create vendor payment", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.VendorPaymentResultFromUseCase(result))
}

// Get retrieves a payment split by ID.
func (h *VendorPaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing payment ID", "")
		return
	}

	payment, err := h.paymentUC.Get(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get vendor payment", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.VendorPaymentFromDomain(payment))
}

// Delete reverses and removes a single payment split.
func (h *VendorPaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing payment ID", "")
		return
	}

	payment, err := h.paymentUC.Delete(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to delete vendor payment", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.VendorPaymentFromDomain(payment))
}

// DeleteByPaymentNo reverses every split of a payment atomically.
func (h *VendorPaymentHandler) DeleteByPaymentNo(w http.ResponseWriter, r *http.Request) {
	paymentNo := chi.URLParam(r, "paymentNo")
	if paymentNo == "" {
		writeError(w, http.StatusBadRequest, "missing payment number", "")
		return
	}

	splits, err := h.paymentUC.DeleteByPaymentNo(r.Context(), paymentNo)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to delete vendor payment", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"payment_no": paymentNo,
		"payments":   dto.VendorPaymentsFromDomain(splits),
	})
}

// ListByVendor lists a vendor's payment splits.
func (h *VendorPaymentHandler) ListByVendor(w http.ResponseWriter, r *http.Request) {
	vendorID := chi.URLParam(r, "id")
	if vendorID == "" {
		writeError(w, http.StatusBadRequest, "missing vendor ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	payments, err := h.paymentUC.ListByVendor(r.Context(), vendorID, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list vendor payments", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"payments": dto.VendorPaymentsFromDomain(payments),
		"total":    len(payments),
	})
}
