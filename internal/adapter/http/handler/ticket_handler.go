package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/subledger/internal/adapter/http/dto"
	"github.com/iho/subledger/internal/usecase"
)

// TicketHandler exposes the support ticket workflow.
type TicketHandler struct {
	tickets *usecase.TicketUseCase
}

// NewTicketHandler creates a new TicketHandler.
func NewTicketHandler(tickets *usecase.TicketUseCase) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// Open handles POST /api/v1/tickets.
func (h *TicketHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenTicketRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ticket, err := h.tickets.Open(r.Context(), req.AccountID, req.Category, req.Subject, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.FromTicket(ticket))
}

// Get handles GET /api/v1/tickets/{id}.
func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.tickets.GetTicket(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromTicket(ticket))
}

// Reply handles POST /api/v1/tickets/{id}/reply.
func (h *TicketHandler) Reply(w http.ResponseWriter, r *http.Request) {
	var req dto.ReplyTicketRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ticket, err := h.tickets.Reply(r.Context(), chi.URLParam(r, "id"), req.Author, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromTicket(ticket))
}

// Close handles POST /api/v1/tickets/{id}/close. Admin only.
func (h *TicketHandler) Close(w http.ResponseWriter, r *http.Request) {
	var req dto.CloseTicketRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ticket, err := h.tickets.Close(r.Context(), chi.URLParam(r, "id"), req.ClosedBy)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromTicket(ticket))
}

// ListOpen handles GET /api/v1/tickets/open. Admin only.
func (h *TicketHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.tickets.ListOpen(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromTickets(tickets))
}
