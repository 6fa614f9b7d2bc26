package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tourdesk/ledger/internal/usecase"
)

// ReconciliationHandler handles reconciliation HTTP requests.
type ReconciliationHandler struct {
	reconUC *usecase.ReconciliationUseCase
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconUC *usecase.ReconciliationUseCase) *ReconciliationHandler {
	return &ReconciliationHandler{reconUC: reconUC}
}

// Report returns a dry-run drift report across all parties. Nothing is
// written; operators use this to inspect drift before running a correction.
func (h *ReconciliationHandler) Report(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reconUC.Report(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build reconciliation report", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// RunAll reconciles every party, correcting drifted balances.
func (h *ReconciliationHandler) RunAll(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reconUC.ReconcileAll(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reconcile", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// RunParty reconciles a single party.
func (h *ReconciliationHandler) RunParty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing party ID", "")
		return
	}

	result, err := h.reconUC.ReconcileParty(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reconcile party", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}
