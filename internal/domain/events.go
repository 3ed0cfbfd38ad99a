package domain

import "time"

// Event types
const (
	EventTypeServiceExpiringSoon = "service.expiring_soon"
	EventTypeServiceExpired      = "service.expired"
	EventTypeOrderCompleted      = "order.completed"
	EventTypeChargeCompleted     = "charge.completed"
)

// Aggregate types
const (
	AggregateTypeService = "service"
	AggregateTypeOrder   = "order"
	AggregateTypeCharge  = "charge"
)

// OutboxEvent is an event written in the same transaction as the state change
// it describes and published to the notification sender asynchronously.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// ServiceExpiringSoonEvent payload
type ServiceExpiringSoonEvent struct {
	ServiceID string `json:"service_id"`
	AccountID string `json:"account_id"`
	ExpiresAt string `json:"expires_at"`
}

// ServiceExpiredEvent payload
type ServiceExpiredEvent struct {
	ServiceID string `json:"service_id"`
	AccountID string `json:"account_id"`
}

// OrderCompletedEvent payload
type OrderCompletedEvent struct {
	OrderID   string `json:"order_id"`
	AccountID string `json:"account_id"`
	ServiceID string `json:"service_id"`
}
