package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/subledger/internal/domain"
	"github.com/iho/subledger/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	EnsureFunc           func(ctx context.Context, id string, now time.Time) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	UpdateBalanceFunc    func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Seed inserts an account directly, bypassing Ensure.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

func (m *MockAccountRepository) Ensure(ctx context.Context, id string, now time.Time) error {
	if m.EnsureFunc != nil {
		return m.EnsureFunc(ctx, id, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.LastActivityAt = now
		return nil
	}
	m.accounts[id] = &domain.Account{
		ID:             id,
		Balance:        decimal.Zero,
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		copied := *acc
		return &copied, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Balance = balance
	acc.UpdatedAt = updatedAt
	return nil
}

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.LedgerEntry

	CreateFunc func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockEntryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.LedgerEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].AccountID == accountID {
			out = append(out, m.entries[i])
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockEntryRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, e := range m.entries {
		if e.AccountID == accountID {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

func (m *MockEntryRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, e := range m.entries {
		if e.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

// MockOrderRepository is a mock implementation of OrderRepository. The status
// transition honors the compare-and-set contract under a mutex, so workflow
// tests exercise the same guard semantics the SQL implementation has.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, order *domain.Order) error
	TransitionStatusFunc func(ctx context.Context, tx usecase.Transaction, id string, expected domain.PaymentStatus, upd usecase.OrderStatusUpdate) (bool, error)
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
	}
}

func (m *MockOrderRepository) Create(ctx context.Context, tx usecase.Transaction, order *domain.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if o, ok := m.orders[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, domain.ErrOrderNotFound
}

func (m *MockOrderRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Order, error) {
	return m.GetByID(ctx, id)
}

func (m *MockOrderRepository) TransitionStatus(ctx context.Context, tx usecase.Transaction, id string, expected domain.PaymentStatus, upd usecase.OrderStatusUpdate) (bool, error) {
	if m.TransitionStatusFunc != nil {
		return m.TransitionStatusFunc(ctx, tx, id, expected, upd)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return false, domain.ErrOrderNotFound
	}
	if o.Status != expected {
		return false, nil
	}
	o.Status = upd.Status
	if upd.PaymentEvidence != nil {
		o.PaymentEvidence = *upd.PaymentEvidence
	}
	if upd.CompletedAt != nil {
		o.CompletedAt = upd.CompletedAt
	}
	if upd.ServiceID != nil {
		o.ServiceID = *upd.ServiceID
	}
	return true, nil
}

func (m *MockOrderRepository) ListPending(ctx context.Context) ([]*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Order
	for _, o := range m.orders {
		if o.Status == domain.StatusPaymentSubmitted {
			copied := *o
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockOrderRepository) ListStale(ctx context.Context, now time.Time) ([]*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Order
	for _, o := range m.orders {
		if !o.Status.Terminal() && o.PaymentWindowElapsed(now) {
			copied := *o
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockOrderRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Order
	for _, o := range m.orders {
		if o.AccountID == accountID {
			copied := *o
			out = append(out, &copied)
		}
	}
	return out, nil
}

// MockChargeRepository is a mock implementation of ChargeRepository.
type MockChargeRepository struct {
	mu      sync.RWMutex
	charges map[string]*domain.WalletCharge

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, charge *domain.WalletCharge) error
	TransitionStatusFunc func(ctx context.Context, tx usecase.Transaction, id string, expected domain.PaymentStatus, upd usecase.ChargeStatusUpdate) (bool, error)
}

func NewMockChargeRepository() *MockChargeRepository {
	return &MockChargeRepository{
		charges: make(map[string]*domain.WalletCharge),
	}
}

func (m *MockChargeRepository) Create(ctx context.Context, tx usecase.Transaction, charge *domain.WalletCharge) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, charge)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *charge
	m.charges[charge.ID] = &copied
	return nil
}

func (m *MockChargeRepository) GetByID(ctx context.Context, id string) (*domain.WalletCharge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.charges[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, domain.ErrChargeNotFound
}

func (m *MockChargeRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.WalletCharge, error) {
	return m.GetByID(ctx, id)
}

func (m *MockChargeRepository) TransitionStatus(ctx context.Context, tx usecase.Transaction, id string, expected domain.PaymentStatus, upd usecase.ChargeStatusUpdate) (bool, error) {
	if m.TransitionStatusFunc != nil {
		return m.TransitionStatusFunc(ctx, tx, id, expected, upd)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.charges[id]
	if !ok {
		return false, domain.ErrChargeNotFound
	}
	if c.Status != expected {
		return false, nil
	}
	c.Status = upd.Status
	if upd.PaymentEvidence != nil {
		c.PaymentEvidence = *upd.PaymentEvidence
	}
	if upd.CompletedAt != nil {
		c.CompletedAt = upd.CompletedAt
	}
	return true, nil
}

func (m *MockChargeRepository) ListPending(ctx context.Context) ([]*domain.WalletCharge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.WalletCharge
	for _, c := range m.charges {
		if c.Status == domain.StatusPaymentSubmitted {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockChargeRepository) ListStale(ctx context.Context, now time.Time) ([]*domain.WalletCharge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.WalletCharge
	for _, c := range m.charges {
		if !c.Status.Terminal() && now.After(c.ExpiresAt) {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

// MockServiceRepository is a mock implementation of ServiceRepository.
type MockServiceRepository struct {
	mu       sync.RWMutex
	services map[string]*domain.Service

	CreateFunc      func(ctx context.Context, tx usecase.Transaction, service *domain.Service) error
	MarkExpiredFunc func(ctx context.Context, tx usecase.Transaction, id string) (bool, error)
}

func NewMockServiceRepository() *MockServiceRepository {
	return &MockServiceRepository{
		services: make(map[string]*domain.Service),
	}
}

// Seed inserts a service directly.
func (m *MockServiceRepository) Seed(service *domain.Service) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *service
	m.services[service.ID] = &copied
}

func (m *MockServiceRepository) Create(ctx context.Context, tx usecase.Transaction, service *domain.Service) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, service)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *service
	m.services[service.ID] = &copied
	return nil
}

func (m *MockServiceRepository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.services[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, domain.ErrServiceNotFound
}

func (m *MockServiceRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.services {
		if s.OrderID == orderID {
			copied := *s
			return &copied, nil
		}
	}
	return nil, domain.ErrServiceNotFound
}

func (m *MockServiceRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Service
	for _, s := range m.services {
		if s.AccountID == accountID {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockServiceRepository) ListOverdue(ctx context.Context, now time.Time) ([]*domain.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Service
	for _, s := range m.services {
		if s.Status == domain.ServiceStatusActive && s.Overdue(now) {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockServiceRepository) ListExpiringWithin(ctx context.Context, from, to time.Time) ([]*domain.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Service
	for _, s := range m.services {
		if s.Status == domain.ServiceStatusActive && s.ExpiresAt.After(from) && !s.ExpiresAt.After(to) {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockServiceRepository) MarkExpired(ctx context.Context, tx usecase.Transaction, id string) (bool, error) {
	if m.MarkExpiredFunc != nil {
		return m.MarkExpiredFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.services[id]
	if !ok {
		return false, domain.ErrServiceNotFound
	}
	if s.Status != domain.ServiceStatusActive {
		return false, nil
	}
	s.Status = domain.ServiceStatusExpired
	return true, nil
}

func (m *MockServiceRepository) ExtendExpiry(ctx context.Context, tx usecase.Transaction, id string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.services[id]
	if !ok {
		return domain.ErrServiceNotFound
	}
	s.ExpiresAt = expiresAt
	s.Status = domain.ServiceStatusActive
	return nil
}

// MockNotificationRepository is a mock implementation of
// NotificationRepository with real (service, kind) dedup.
type MockNotificationRepository struct {
	mu      sync.Mutex
	records map[string]*domain.NotificationRecord

	TryCreateFunc func(ctx context.Context, tx usecase.Transaction, rec *domain.NotificationRecord) (bool, error)
}

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{
		records: make(map[string]*domain.NotificationRecord),
	}
}

func (m *MockNotificationRepository) TryCreate(ctx context.Context, tx usecase.Transaction, rec *domain.NotificationRecord) (bool, error) {
	if m.TryCreateFunc != nil {
		return m.TryCreateFunc(ctx, tx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := rec.ServiceID + "|" + string(rec.Kind)
	if _, ok := m.records[key]; ok {
		return false, nil
	}
	m.records[key] = rec
	return true, nil
}

// Count returns how many dedup records exist.
func (m *MockNotificationRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// MockTicketRepository is a mock implementation of TicketRepository.
type MockTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]*domain.Ticket
}

func NewMockTicketRepository() *MockTicketRepository {
	return &MockTicketRepository{
		tickets: make(map[string]*domain.Ticket),
	}
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *ticket
	m.tickets[ticket.ID] = &copied
	return nil
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.tickets[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, domain.ErrTicketNotFound
}

func (m *MockTicketRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Ticket, error) {
	return m.GetByID(ctx, id)
}

func (m *MockTicketRepository) UpdateThread(ctx context.Context, tx usecase.Transaction, id string, thread domain.TicketThread) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return domain.ErrTicketNotFound
	}
	t.Thread = thread
	return nil
}

func (m *MockTicketRepository) Close(ctx context.Context, tx usecase.Transaction, id, closedBy string, closedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return false, domain.ErrTicketNotFound
	}
	if t.Status == domain.TicketStatusClosed {
		return false, nil
	}
	t.Status = domain.TicketStatusClosed
	t.ClosedBy = closedBy
	t.ClosedAt = &closedAt
	return true, nil
}

func (m *MockTicketRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Ticket
	for _, t := range m.tickets {
		if t.AccountID == accountID {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockTicketRepository) ListOpen(ctx context.Context) ([]*domain.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Ticket
	for _, t := range m.tickets {
		if t.Status == domain.TicketStatusOpen {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.Mutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			out = append(out, e)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// Events returns a snapshot of all queued events.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.OutboxEvent, len(m.events))
	copy(out, m.events)
	return out
}

// MockProvisioner is a mock implementation of Provisioner. Without an
// override it succeeds and records every request.
type MockProvisioner struct {
	mu       sync.Mutex
	requests []usecase.ProvisionRequest

	ProvisionFunc func(ctx context.Context, req usecase.ProvisionRequest) (string, error)
}

func NewMockProvisioner() *MockProvisioner {
	return &MockProvisioner{}
}

func (m *MockProvisioner) Provision(ctx context.Context, req usecase.ProvisionRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.ProvisionFunc != nil {
		return m.ProvisionFunc(ctx, req)
	}
	return "vpn://config/" + req.Username, nil
}

// Calls returns how many times Provision was invoked.
func (m *MockProvisioner) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator is a mock implementation of IDGenerator producing
// deterministic sequential IDs.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate(prefix string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("%s_%026d", prefix, m.counter)
}

// MockCache is an in-memory mock implementation of Cache. TTLs are ignored.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc func(ctx context.Context, key string) ([]byte, error)
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("cache miss: %s", key)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is an in-memory mock implementation of
// IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	m.data[key] = response
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
