package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tourdesk/ledger/internal/adapter/http/dto"
	"github.com/tourdesk/ledger/internal/domain"
	"github.com/tourdesk/ledger/internal/usecase"
)

// PartyHandler handles party-related HTTP requests, including the ledger
// statement and reconciliation audit history for a party.
type PartyHandler struct {
	partyUC  *usecase.PartyUseCase
	ledgerUC *usecase.LedgerUseCase
}

// NewPartyHandler creates a new PartyHandler.
func NewPartyHandler(partyUC *usecase.PartyUseCase, ledgerUC *usecase.LedgerUseCase) *PartyHandler {
	return &PartyHandler{
		partyUC:  partyUC,
		ledgerUC: ledgerUC,
	}
}

// Create onboards a new client or vendor.
func (h *PartyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	party, err := h.partyUC.CreateParty(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create party", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.PartyFromDomain(party))
}

// Get retrieves a party by ID.
func (h *PartyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing party ID", "")
		return
	}

	party, err := h.partyUC.GetParty(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get party", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PartyFromDomain(party))
}

// List lists parties, optionally filtered by kind.
func (h *PartyHandler) List(w http.ResponseWriter, r *http.Request) {
	input := usecase.ListPartiesInput{
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	}

	if kindParam := r.URL.Query().Get("kind"); kindParam != "" {
		kind := domain.PartyKind(kindParam)
		input.Kind = &kind
	}

	parties, err := h.partyUC.ListParties(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list parties", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListPartiesResponse{
		Parties: dto.PartiesFromDomain(parties),
		Total:   int64(len(parties)),
	})
}

// Ledger returns the party's statement: brought-forward balance plus the
// running ledger over an optional from/to window.
func (h *PartyHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing party ID", "")
		return
	}

	statement, err := h.ledgerUC.Statement(r.Context(), usecase.StatementInput{
		PartyID: id,
		From:    parseTimeQuery(r, "from"),
		To:      parseTimeQuery(r, "to"),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build statement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromUseCase(statement))
}

// AuditHistory lists the party's reconciliation audit entries.
func (h *PartyHandler) AuditHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing party ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	audits, err := h.partyUC.AuditHistory(r.Context(), id, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list audit history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"audits": dto.AuditsFromDomain(audits),
		"total":  len(audits),
	})
}
