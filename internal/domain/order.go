package domain

import (
	"time"
)

// PaymentStatus is the shared state machine for orders and wallet charges.
type PaymentStatus string

const (
	StatusWaitingPayment   PaymentStatus = "waiting_payment"
	StatusPaymentSubmitted PaymentStatus = "payment_submitted"
	StatusCompleted        PaymentStatus = "completed"
	StatusRejected         PaymentStatus = "rejected"
	StatusExpired          PaymentStatus = "expired"
	StatusCancelled        PaymentStatus = "cancelled"
)

var paymentTransitions = map[PaymentStatus]map[PaymentStatus]struct{}{
	StatusWaitingPayment: {
		StatusPaymentSubmitted: {},
		StatusRejected:         {},
		StatusExpired:          {},
		StatusCancelled:        {},
	},
	StatusPaymentSubmitted: {
		StatusCompleted: {},
		StatusRejected:  {},
		StatusExpired:   {},
	},
	StatusCompleted: {},
	StatusRejected:  {},
	StatusExpired:   {},
	StatusCancelled: {},
}

// CanTransition reports whether the payment workflow allows moving from one
// status to another. Same-status is not a transition.
func (s PaymentStatus) CanTransition(to PaymentStatus) bool {
	allowed, ok := paymentTransitions[s]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// Terminal reports whether no further transition is possible.
func (s PaymentStatus) Terminal() bool {
	return len(paymentTransitions[s]) == 0
}

// OrderKind distinguishes first purchases from renewals of an existing service.
type OrderKind string

const (
	OrderKindNew     OrderKind = "new"
	OrderKindRenewal OrderKind = "renewal"
)

// PaymentMethod records how the customer intends to pay.
type PaymentMethod string

const (
	PaymentMethodCardTransfer PaymentMethod = "card_transfer"
	PaymentMethodWallet       PaymentMethod = "wallet"
)

// Order is a request to obtain a new or renewed Service. It is mutated only
// through the order workflow; once the status is terminal it never changes.
type Order struct {
	ID              string
	AccountID       string
	Plan            PlanTerms
	Server          ServerRef
	Status          PaymentStatus
	PaymentMethod   PaymentMethod
	Kind            OrderKind
	PaymentEvidence string
	ServiceID       string // set on completion (or at creation for renewals)
	CreatedAt       time.Time
	CompletedAt     *time.Time
	ExpiresAt       time.Time
}

// PaymentWindowElapsed reports whether the order sat unpaid past its window.
func (o *Order) PaymentWindowElapsed(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
