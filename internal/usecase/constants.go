package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database
	// transaction. This prevents long-running transactions from blocking tables.
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultPaymentWindow is how long an order or charge waits for payment
	// before the sweep expires it.
	DefaultPaymentWindow = 15 * time.Minute

	// DefaultWarningWindow is how far ahead of expiry the advance warning fires.
	DefaultWarningWindow = 24 * time.Hour

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	// BalanceCacheTTL bounds staleness of cached balance reads.
	BalanceCacheTTL = 30 * time.Second
)

// ID prefixes, one per entity.
const (
	PrefixOrder        = "ord"
	PrefixService      = "srv"
	PrefixCharge       = "chg"
	PrefixEntry        = "txn"
	PrefixTicket       = "tkt"
	PrefixNotification = "ntf"
	PrefixEvent        = "evt"
)
