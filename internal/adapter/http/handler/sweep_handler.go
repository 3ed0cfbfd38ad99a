package handler

import (
	"net/http"
	"time"

	"github.com/iho/subledger/internal/usecase"
)

// SweepHandler lets an operator trigger the housekeeping pass on demand.
type SweepHandler struct {
	sweep *usecase.SweepUseCase
}

// NewSweepHandler creates a new SweepHandler.
func NewSweepHandler(sweep *usecase.SweepUseCase) *SweepHandler {
	return &SweepHandler{sweep: sweep}
}

// Run handles POST /api/v1/sweep. Admin only. The report is safe to expose:
// overlapping runs are no-ops, not double-processing.
func (h *SweepHandler) Run(w http.ResponseWriter, r *http.Request) {
	report := h.sweep.Run(r.Context(), time.Now().UTC())
	writeJSON(w, http.StatusOK, report)
}
