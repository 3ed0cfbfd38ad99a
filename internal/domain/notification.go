package domain

import "time"

// NotificationKind identifies an outbound alert about a service.
type NotificationKind string

const (
	NotificationExpiringSoon NotificationKind = "expiring_soon"
	NotificationExpired      NotificationKind = "expired"
)

// NotificationRecord marks that an alert of a given kind has been sent for a
// service. Existence of a (service, kind) record is the dedup guard: sweep
// runs are stateless, so this table is the single authority for "already
// sent".
type NotificationRecord struct {
	ID        string
	ServiceID string
	Kind      NotificationKind
	SentAt    time.Time
}
