package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/subledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	// Ensure creates the account if it does not exist and touches its
	// last-activity timestamp. Accounts are created lazily and never deleted.
	Ensure(ctx context.Context, id string, now time.Time) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error)
	SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
	CountByAccount(ctx context.Context, accountID string) (int64, error)
}

// OrderStatusUpdate is the explicit set of fields a status transition may
// touch. Anything not listed here cannot change on an order after creation.
type OrderStatusUpdate struct {
	Status          domain.PaymentStatus
	PaymentEvidence *string
	CompletedAt     *time.Time
	ServiceID       *string
}

// OrderRepository defines data access for orders.
type OrderRepository interface {
	Create(ctx context.Context, tx Transaction, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Order, error)
	// TransitionStatus applies upd only if the order is still in the expected
	// status. Returns false when the guard lost, leaving the row untouched.
	TransitionStatus(ctx context.Context, tx Transaction, id string, expected domain.PaymentStatus, upd OrderStatusUpdate) (bool, error)
	ListPending(ctx context.Context) ([]*domain.Order, error)
	ListStale(ctx context.Context, now time.Time) ([]*domain.Order, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Order, error)
}

// ChargeStatusUpdate mirrors OrderStatusUpdate for wallet charges.
type ChargeStatusUpdate struct {
	Status          domain.PaymentStatus
	PaymentEvidence *string
	CompletedAt     *time.Time
}

// ChargeRepository defines data access for wallet charges.
type ChargeRepository interface {
	Create(ctx context.Context, tx Transaction, charge *domain.WalletCharge) error
	GetByID(ctx context.Context, id string) (*domain.WalletCharge, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.WalletCharge, error)
	TransitionStatus(ctx context.Context, tx Transaction, id string, expected domain.PaymentStatus, upd ChargeStatusUpdate) (bool, error)
	ListPending(ctx context.Context) ([]*domain.WalletCharge, error)
	ListStale(ctx context.Context, now time.Time) ([]*domain.WalletCharge, error)
}

// ServiceRepository defines data access for provisioned services.
type ServiceRepository interface {
	Create(ctx context.Context, tx Transaction, service *domain.Service) error
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Service, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Service, error)
	ListOverdue(ctx context.Context, now time.Time) ([]*domain.Service, error)
	ListExpiringWithin(ctx context.Context, from, to time.Time) ([]*domain.Service, error)
	// MarkExpired flips active to expired; returns false if the service had
	// already left the active state.
	MarkExpired(ctx context.Context, tx Transaction, id string) (bool, error)
	ExtendExpiry(ctx context.Context, tx Transaction, id string, expiresAt time.Time) error
}

// NotificationRepository defines data access for notification dedup records.
type NotificationRepository interface {
	// TryCreate inserts the record unless one already exists for the same
	// (service, kind) pair. Returns true when this call inserted it.
	TryCreate(ctx context.Context, tx Transaction, rec *domain.NotificationRecord) (bool, error)
}

// TicketRepository defines data access for support tickets.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Ticket, error)
	UpdateThread(ctx context.Context, tx Transaction, id string, thread domain.TicketThread) error
	// Close flips open to closed; returns false if already closed.
	Close(ctx context.Context, tx Transaction, id, closedBy string, closedAt time.Time) (bool, error)
	ListByAccount(ctx context.Context, accountID string) ([]*domain.Ticket, error)
	ListOpen(ctx context.Context) ([]*domain.Ticket, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// ProvisionRequest is the input to the external access provisioner.
type ProvisionRequest struct {
	Server      domain.ServerRef
	Username    string
	DataLimitGB int64
	ExpiresAt   time.Time
}

// Provisioner obtains an opaque access-config string from the external panel.
// Implementations retry with bounded attempts before giving up.
type Provisioner interface {
	Provision(ctx context.Context, req ProvisionRequest) (string, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique, prefix-tagged IDs.
type IDGenerator interface {
	Generate(prefix string) string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage for the webhook boundary.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
