package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/subledger/internal/domain"
	"github.com/iho/subledger/internal/usecase"
)

// PlanRequest carries the plan terms chosen for an order. The server
// snapshots them; later catalog edits never change a pending order.
type PlanRequest struct {
	PlanID       string          `json:"plan_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	DurationDays int             `json:"duration_days"`
	DataLimitGB  int64           `json:"data_limit_gb"`
}

// ServerRequest names the server to provision on.
type ServerRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateOrderRequest represents a request to create an order.
type CreateOrderRequest struct {
	AccountID      string        `json:"account_id"`
	Plan           PlanRequest   `json:"plan"`
	Server         ServerRequest `json:"server"`
	PaymentMethod  string        `json:"payment_method"`
	Kind           string        `json:"kind,omitempty"`
	RenewServiceID string        `json:"renew_service_id,omitempty"`
}

// ToInput converts the request into usecase input.
func (r CreateOrderRequest) ToInput() usecase.CreateOrderInput {
	return usecase.CreateOrderInput{
		AccountID: r.AccountID,
		Plan: domain.PlanTerms{
			PlanID:       r.Plan.PlanID,
			Name:         r.Plan.Name,
			Price:        r.Plan.Price,
			DurationDays: r.Plan.DurationDays,
			DataLimitGB:  r.Plan.DataLimitGB,
		},
		Server: domain.ServerRef{
			ID:   r.Server.ID,
			Name: r.Server.Name,
		},
		PaymentMethod:  domain.PaymentMethod(r.PaymentMethod),
		Kind:           domain.OrderKind(r.Kind),
		RenewServiceID: r.RenewServiceID,
	}
}

// SubmitEvidenceRequest attaches payment evidence to an order or charge.
type SubmitEvidenceRequest struct {
	Evidence string `json:"evidence"`
}

// RejectRequest carries the admin's rejection reason.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// CreateChargeRequest represents a request to open a wallet top-up.
type CreateChargeRequest struct {
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// AdjustmentRequest credits or debits a wallet directly.
type AdjustmentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// OpenTicketRequest represents a request to open a support ticket.
type OpenTicketRequest struct {
	AccountID string `json:"account_id"`
	Category  string `json:"category"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// ReplyTicketRequest appends a message to a ticket thread.
type ReplyTicketRequest struct {
	Author string `json:"author"`
	Body   string `json:"body"`
}

// CloseTicketRequest closes a ticket.
type CloseTicketRequest struct {
	ClosedBy string `json:"closed_by"`
}
