package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/subledger/internal/adapter/http/dto"
	"github.com/iho/subledger/internal/domain"
	"github.com/iho/subledger/internal/usecase"
)

// AccountHandler exposes wallet balances, transaction history and per-account
// listings.
type AccountHandler struct {
	ledger   *usecase.LedgerUseCase
	orders   *usecase.OrderUseCase
	services *usecase.ServiceUseCase
	tickets  *usecase.TicketUseCase
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(
	ledger *usecase.LedgerUseCase,
	orders *usecase.OrderUseCase,
	services *usecase.ServiceUseCase,
	tickets *usecase.TicketUseCase,
) *AccountHandler {
	return &AccountHandler{
		ledger:   ledger,
		orders:   orders,
		services: services,
		tickets:  tickets,
	}
}

// Balance handles GET /api/v1/accounts/{id}/balance.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	balance, err := h.ledger.Balance(r.Context(), accountID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		AccountID: accountID,
		Balance:   balance.String(),
	})
}

// Entries handles GET /api/v1/accounts/{id}/entries.
func (h *AccountHandler) Entries(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	entries, err := h.ledger.ListEntries(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromEntries(entries))
}

// Credit handles POST /api/v1/accounts/{id}/credit. Admin only.
func (h *AccountHandler) Credit(w http.ResponseWriter, r *http.Request) {
	var req dto.AdjustmentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	entry, err := h.ledger.Credit(r.Context(), chi.URLParam(r, "id"), req.Amount,
		domain.EntryKindAdjustment, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.FromEntry(entry))
}

// Debit handles POST /api/v1/accounts/{id}/debit. Admin only.
func (h *AccountHandler) Debit(w http.ResponseWriter, r *http.Request) {
	var req dto.AdjustmentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	entry, err := h.ledger.Debit(r.Context(), chi.URLParam(r, "id"), req.Amount,
		domain.EntryKindAdjustment, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.FromEntry(entry))
}

// Reconcile handles POST /api/v1/accounts/{id}/reconcile. Admin only.
func (h *AccountHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	result, err := h.ledger.Reconcile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromReconcileResult(result))
}

// Orders handles GET /api/v1/accounts/{id}/orders.
func (h *AccountHandler) Orders(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	orders, err := h.orders.ListByAccount(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromOrders(orders))
}

// Services handles GET /api/v1/accounts/{id}/services.
func (h *AccountHandler) Services(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	services, err := h.services.ListByAccount(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromServices(services))
}

// Tickets handles GET /api/v1/accounts/{id}/tickets.
func (h *AccountHandler) Tickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.tickets.ListByAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromTickets(tickets))
}
