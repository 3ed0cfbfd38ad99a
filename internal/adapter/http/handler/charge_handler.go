package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/subledger/internal/adapter/http/dto"
	"github.com/iho/subledger/internal/usecase"
)

// ChargeHandler exposes the wallet top-up workflow.
type ChargeHandler struct {
	charges *usecase.ChargeUseCase
}

// NewChargeHandler creates a new ChargeHandler.
func NewChargeHandler(charges *usecase.ChargeUseCase) *ChargeHandler {
	return &ChargeHandler{charges: charges}
}

// Create handles POST /api/v1/charges.
func (h *ChargeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateChargeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	charge, err := h.charges.CreateCharge(r.Context(), req.AccountID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.FromCharge(charge))
}

// Get handles GET /api/v1/charges/{id}.
func (h *ChargeHandler) Get(w http.ResponseWriter, r *http.Request) {
	charge, err := h.charges.GetCharge(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromCharge(charge))
}

// SubmitEvidence handles POST /api/v1/charges/{id}/evidence.
func (h *ChargeHandler) SubmitEvidence(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitEvidenceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	charge, err := h.charges.SubmitEvidence(r.Context(), chi.URLParam(r, "id"), req.Evidence)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromCharge(charge))
}

// Complete handles POST /api/v1/charges/{id}/complete. Admin only.
func (h *ChargeHandler) Complete(w http.ResponseWriter, r *http.Request) {
	charge, err := h.charges.Complete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromCharge(charge))
}

// Reject handles POST /api/v1/charges/{id}/reject. Admin only.
func (h *ChargeHandler) Reject(w http.ResponseWriter, r *http.Request) {
	charge, err := h.charges.Reject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromCharge(charge))
}

// ListPending handles GET /api/v1/charges/pending. Admin only.
func (h *ChargeHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	charges, err := h.charges.ListPending(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromCharges(charges))
}
