package dto

import (
	"time"

	"github.com/iho/subledger/internal/domain"
	"github.com/iho/subledger/internal/usecase"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// OrderResponse represents an order in API responses.
type OrderResponse struct {
	ID              string        `json:"id"`
	AccountID       string        `json:"account_id"`
	Plan            PlanRequest   `json:"plan"`
	Server          ServerRequest `json:"server"`
	Status          string        `json:"status"`
	PaymentMethod   string        `json:"payment_method"`
	Kind            string        `json:"kind"`
	PaymentEvidence string        `json:"payment_evidence,omitempty"`
	ServiceID       string        `json:"service_id,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
	ExpiresAt       time.Time     `json:"expires_at"`
}

// FromOrder converts a domain order to its response form.
func FromOrder(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:        o.ID,
		AccountID: o.AccountID,
		Plan: PlanRequest{
			PlanID:       o.Plan.PlanID,
			Name:         o.Plan.Name,
			Price:        o.Plan.Price,
			DurationDays: o.Plan.DurationDays,
			DataLimitGB:  o.Plan.DataLimitGB,
		},
		Server:          ServerRequest{ID: o.Server.ID, Name: o.Server.Name},
		Status:          string(o.Status),
		PaymentMethod:   string(o.PaymentMethod),
		Kind:            string(o.Kind),
		PaymentEvidence: o.PaymentEvidence,
		ServiceID:       o.ServiceID,
		CreatedAt:       o.CreatedAt,
		CompletedAt:     o.CompletedAt,
		ExpiresAt:       o.ExpiresAt,
	}
}

// FromOrders converts a slice of domain orders.
func FromOrders(orders []*domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromOrder(o))
	}
	return out
}

// ChargeResponse represents a wallet charge in API responses.
type ChargeResponse struct {
	ID              string     `json:"id"`
	AccountID       string     `json:"account_id"`
	Amount          string     `json:"amount"`
	Status          string     `json:"status"`
	PaymentEvidence string     `json:"payment_evidence,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	ExpiresAt       time.Time  `json:"expires_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// FromCharge converts a domain charge to its response form.
func FromCharge(c *domain.WalletCharge) ChargeResponse {
	return ChargeResponse{
		ID:              c.ID,
		AccountID:       c.AccountID,
		Amount:          c.Amount.String(),
		Status:          string(c.Status),
		PaymentEvidence: c.PaymentEvidence,
		CreatedAt:       c.CreatedAt,
		ExpiresAt:       c.ExpiresAt,
		CompletedAt:     c.CompletedAt,
	}
}

// FromCharges converts a slice of domain charges.
func FromCharges(charges []*domain.WalletCharge) []ChargeResponse {
	out := make([]ChargeResponse, 0, len(charges))
	for _, c := range charges {
		out = append(out, FromCharge(c))
	}
	return out
}

// ServiceResponse represents a provisioned service in API responses.
type ServiceResponse struct {
	ID           string        `json:"id"`
	AccountID    string        `json:"account_id"`
	Username     string        `json:"username"`
	PlanName     string        `json:"plan_name"`
	DataLimitGB  int64         `json:"data_limit_gb"`
	ExpiresAt    time.Time     `json:"expires_at"`
	AccessConfig string        `json:"access_config,omitempty"`
	Status       string        `json:"status"`
	OrderID      string        `json:"order_id"`
	Server       ServerRequest `json:"server"`
	CreatedAt    time.Time     `json:"created_at"`
}

// FromService converts a domain service to its response form.
func FromService(s *domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:           s.ID,
		AccountID:    s.AccountID,
		Username:     s.Username,
		PlanName:     s.PlanName,
		DataLimitGB:  s.DataLimitGB,
		ExpiresAt:    s.ExpiresAt,
		AccessConfig: s.AccessConfig,
		Status:       string(s.Status),
		OrderID:      s.OrderID,
		Server:       ServerRequest{ID: s.Server.ID, Name: s.Server.Name},
		CreatedAt:    s.CreatedAt,
	}
}

// FromServices converts a slice of domain services.
func FromServices(services []*domain.Service) []ServiceResponse {
	out := make([]ServiceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, FromService(s))
	}
	return out
}

// BalanceResponse represents a wallet balance.
type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   string `json:"balance"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	Amount      string    `json:"amount"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// FromEntry converts a domain ledger entry to its response form.
func FromEntry(e *domain.LedgerEntry) EntryResponse {
	return EntryResponse{
		ID:          e.ID,
		AccountID:   e.AccountID,
		Amount:      e.Amount.String(),
		Kind:        string(e.Kind),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

// FromEntries converts a slice of domain ledger entries.
func FromEntries(entries []*domain.LedgerEntry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromEntry(e))
	}
	return out
}

// ReconcileResponse reports a balance reconciliation.
type ReconcileResponse struct {
	AccountID         string    `json:"account_id"`
	RecordedBalance   string    `json:"recorded_balance"`
	CalculatedBalance string    `json:"calculated_balance"`
	Drift             string    `json:"drift"`
	Corrected         bool      `json:"corrected"`
	CheckedAt         time.Time `json:"checked_at"`
}

// FromReconcileResult converts a reconcile result to its response form.
func FromReconcileResult(r *usecase.ReconcileResult) ReconcileResponse {
	return ReconcileResponse{
		AccountID:         r.AccountID,
		RecordedBalance:   r.RecordedBalance.String(),
		CalculatedBalance: r.CalculatedBalance.String(),
		Drift:             r.Drift.String(),
		Corrected:         r.Corrected,
		CheckedAt:         r.CheckedAt,
	}
}

// TicketMessageResponse represents one message in a ticket thread.
type TicketMessageResponse struct {
	Author string    `json:"author"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sent_at"`
}

// TicketResponse represents a support ticket in API responses.
type TicketResponse struct {
	ID        string                  `json:"id"`
	AccountID string                  `json:"account_id"`
	Category  string                  `json:"category"`
	Subject   string                  `json:"subject"`
	Messages  []TicketMessageResponse `json:"messages"`
	Status    string                  `json:"status"`
	ClosedBy  string                  `json:"closed_by,omitempty"`
	ClosedAt  *time.Time              `json:"closed_at,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

// FromTicket converts a domain ticket to its response form.
func FromTicket(t *domain.Ticket) TicketResponse {
	messages := make([]TicketMessageResponse, 0, len(t.Thread.Messages))
	for _, m := range t.Thread.Messages {
		messages = append(messages, TicketMessageResponse{
			Author: m.Author,
			Body:   m.Body,
			SentAt: m.SentAt,
		})
	}
	return TicketResponse{
		ID:        t.ID,
		AccountID: t.AccountID,
		Category:  t.Category,
		Subject:   t.Subject,
		Messages:  messages,
		Status:    string(t.Status),
		ClosedBy:  t.ClosedBy,
		ClosedAt:  t.ClosedAt,
		CreatedAt: t.CreatedAt,
	}
}

// FromTickets converts a slice of domain tickets.
func FromTickets(tickets []*domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, FromTicket(t))
	}
	return out
}
