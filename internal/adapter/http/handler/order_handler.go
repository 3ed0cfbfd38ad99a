package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/subledger/internal/adapter/http/dto"
	"github.com/iho/subledger/internal/usecase"
)

// OrderHandler exposes the order payment workflow.
type OrderHandler struct {
	orders *usecase.OrderUseCase
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create handles POST /api/v1/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), req.ToInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.FromOrder(order))
}

// Get handles GET /api/v1/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromOrder(order))
}

// SubmitEvidence handles POST /api/v1/orders/{id}/evidence.
func (h *OrderHandler) SubmitEvidence(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitEvidenceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	order, err := h.orders.SubmitEvidence(r.Context(), chi.URLParam(r, "id"), req.Evidence)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromOrder(order))
}

// Approve handles POST /api/v1/orders/{id}/approve. Admin only.
func (h *OrderHandler) Approve(w http.ResponseWriter, r *http.Request) {
	service, err := h.orders.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromService(service))
}

// Reject handles POST /api/v1/orders/{id}/reject. Admin only.
func (h *OrderHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req dto.RejectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	order, err := h.orders.Reject(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromOrder(order))
}

// Cancel handles POST /api/v1/orders/{id}/cancel.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromOrder(order))
}

// ListPending handles GET /api/v1/orders/pending. Admin only.
func (h *OrderHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListPending(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromOrders(orders))
}
