package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tourdesk/ledger/internal/adapter/http/dto"
	"github.com/tourdesk/ledger/internal/usecase"
)

// DirectCashHandler handles direct cash movement HTTP requests.
type DirectCashHandler struct {
	directUC *usecase.DirectCashUseCase
}

// NewDirectCashHandler creates a new DirectCashHandler.
func NewDirectCashHandler(directUC *usecase.DirectCashUseCase) *DirectCashHandler {
	return &DirectCashHandler{directUC: directUC}
}

// Create records a cash-in or cash-out movement.
func (h *DirectCashHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDirectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.directUC.Create(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create direct transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.DirectResultFromUseCase(result))
}

// Get retrieves a direct cash movement by ID.
func (h *DirectCashHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing direct transaction ID", "")
		return
	}

	direct, err := h.directUC.Get(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get direct transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DirectFromDomain(direct))
}

// Update patches a direct cash movement.
func (h *DirectCashHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing direct transaction ID", "")
		return
	}

	var req dto.UpdateDirectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.directUC.Update(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update direct transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DirectResultFromUseCase(result))
}

// Delete removes a direct cash movement and reverses its balance delta.
func (h *DirectCashHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing direct transaction ID", "")
		return
	}

	result, err := h.directUC.Delete(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to delete direct transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DirectResultFromUseCase(result))
}

// ListByParty lists a party's direct cash movements.
func (h *DirectCashHandler) ListByParty(w http.ResponseWriter, r *http.Request) {
	partyID := chi.URLParam(r, "id")
	if partyID == "" {
		writeError(w, http.StatusBadRequest, "missing party ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	directs, err := h.directUC.ListByParty(r.Context(), partyID, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list direct transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"direct_transactions": dto.DirectsFromDomain(directs),
		"total":               len(directs),
	})
}
