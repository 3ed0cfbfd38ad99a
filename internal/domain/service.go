package domain

import (
	"time"
)

// ServiceStatus moves one way: active to expired.
type ServiceStatus string

const (
	ServiceStatusActive  ServiceStatus = "active"
	ServiceStatusExpired ServiceStatus = "expired"
)

// Service is a provisioned, time-boxed access grant. Exactly one Service is
// created per completed order; the access config is an opaque value produced
// by the external provisioner.
type Service struct {
	ID           string
	AccountID    string
	Username     string
	PlanName     string
	DataLimitGB  int64
	ExpiresAt    time.Time
	AccessConfig string
	Status       ServiceStatus
	OrderID      string
	Server       ServerRef
	CreatedAt    time.Time
}

// Overdue reports whether the service has passed its expiry timestamp.
func (s *Service) Overdue(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
