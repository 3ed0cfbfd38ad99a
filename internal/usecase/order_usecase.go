package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iho/subledger/internal/domain"
	"github.com/iho/subledger/internal/infrastructure/metrics"
)

// OrderUseCase drives the order payment workflow from plan selection to a
// provisioned service or a terminal rejection. Every state-changing call is
// safe to invoke more than once with the same input: webhook retries and
// double-submitted admin clicks must land on the CAS guard, not on caller
// discipline.
type OrderUseCase struct {
	txManager     TransactionManager
	accountRepo   AccountRepository
	entryRepo     EntryRepository
	orderRepo     OrderRepository
	serviceRepo   ServiceRepository
	outboxRepo    OutboxRepository
	provisioner   Provisioner
	idGen         IDGenerator
	metrics       *metrics.Metrics
	paymentWindow time.Duration
}

// NewOrderUseCase creates a new OrderUseCase. metrics may be nil; a
// non-positive paymentWindow falls back to the default.
func NewOrderUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	orderRepo OrderRepository,
	serviceRepo ServiceRepository,
	outboxRepo OutboxRepository,
	provisioner Provisioner,
	idGen IDGenerator,
	m *metrics.Metrics,
	paymentWindow time.Duration,
) *OrderUseCase {
	if paymentWindow <= 0 {
		paymentWindow = DefaultPaymentWindow
	}

	return &OrderUseCase{
		txManager:     txManager,
		accountRepo:   accountRepo,
		entryRepo:     entryRepo,
		orderRepo:     orderRepo,
		serviceRepo:   serviceRepo,
		outboxRepo:    outboxRepo,
		provisioner:   provisioner,
		idGen:         idGen,
		metrics:       m,
		paymentWindow: paymentWindow,
	}
}

// CreateOrderInput represents input for creating an order.
type CreateOrderInput struct {
	AccountID      string
	Plan           domain.PlanTerms
	Server         domain.ServerRef
	PaymentMethod  domain.PaymentMethod
	Kind           domain.OrderKind
	RenewServiceID string // required when Kind is renewal
}

// CreateOrder snapshots the plan terms and opens the payment window.
//
// Wallet-funded orders debit the wallet up front in the same transaction that
// creates the order, and start in payment_submitted: the debit is the payment
// evidence. Rejection or expiry later refunds it.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if err := input.Plan.Validate(); err != nil {
		return nil, err
	}

	if input.Kind == "" {
		input.Kind = domain.OrderKindNew
	}

	if input.Kind == domain.OrderKindRenewal {
		if input.RenewServiceID == "" {
			return nil, fmt.Errorf("%w: renewal order requires a service id", domain.ErrInvalidPlan)
		}
		if _, err := uc.serviceRepo.GetByID(ctx, input.RenewServiceID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	if err := uc.accountRepo.Ensure(ctx, input.AccountID, now); err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:            uc.idGen.Generate(PrefixOrder),
		AccountID:     input.AccountID,
		Plan:          input.Plan.Snapshot(),
		Server:        input.Server,
		Status:        domain.StatusWaitingPayment,
		PaymentMethod: input.PaymentMethod,
		Kind:          input.Kind,
		ServiceID:     input.RenewServiceID,
		CreatedAt:     now,
		ExpiresAt:     now.Add(uc.paymentWindow),
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if input.PaymentMethod == domain.PaymentMethodWallet {
		desc := "purchase: " + order.Plan.Name
		if _, err := applyDebit(txCtx, tx, uc.accountRepo, uc.entryRepo, uc.idGen,
			input.AccountID, order.Plan.Price, domain.EntryKindPurchaseDebit, desc); err != nil {
			return nil, err
		}

		order.Status = domain.StatusPaymentSubmitted
		order.PaymentEvidence = "wallet:" + order.ID
	}

	if err := uc.orderRepo.Create(txCtx, tx, order); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.OrdersCreated.Inc()
	}

	return order, nil
}

// SubmitEvidence attaches payment evidence and moves the order to
// payment_submitted. Only valid from waiting_payment; a resubmission after
// approval fails with ErrInvalidState instead of being silently accepted.
func (uc *OrderUseCase) SubmitEvidence(ctx context.Context, orderID, evidence string) (*domain.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != domain.StatusWaitingPayment {
		return nil, fmt.Errorf("%w: order %s is %s", domain.ErrInvalidState, orderID, order.Status)
	}

	ok, err := uc.orderRepo.TransitionStatus(ctx, nil, orderID, domain.StatusWaitingPayment, OrderStatusUpdate{
		Status:          domain.StatusPaymentSubmitted,
		PaymentEvidence: &evidence,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race to another transition since the read above.
		return nil, fmt.Errorf("%w: order %s left waiting_payment", domain.ErrInvalidState, orderID)
	}

	order.Status = domain.StatusPaymentSubmitted
	order.PaymentEvidence = evidence

	return order, nil
}

// Approve confirms payment and provisions the service, as one atomic unit:
// username generation, provisioner call, service insert, status flip. Replay
// safe: approving an already-completed order returns the existing service
// without re-provisioning.
func (uc *OrderUseCase) Approve(ctx context.Context, orderID string) (*domain.Service, error) {
	start := time.Now()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	order, err := uc.orderRepo.GetByIDForUpdate(txCtx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == domain.StatusCompleted {
		// Duplicate trigger; the first approval already did the work. The
		// completed order carries the service link, which for renewals points
		// at the extended service rather than one created by this order.
		if order.ServiceID != "" {
			return uc.serviceRepo.GetByID(ctx, order.ServiceID)
		}
		return uc.serviceRepo.GetByOrderID(ctx, orderID)
	}

	if order.Status != domain.StatusPaymentSubmitted {
		return nil, fmt.Errorf("%w: order %s is %s", domain.ErrInvalidState, orderID, order.Status)
	}

	now := time.Now().UTC()

	var service *domain.Service
	if order.Kind == domain.OrderKindRenewal {
		service, err = uc.approveRenewal(txCtx, tx, order, now)
	} else {
		service, err = uc.approveNew(txCtx, tx, order, now)
	}
	if err != nil {
		return nil, err
	}

	ok, err := uc.orderRepo.TransitionStatus(txCtx, tx, order.ID, domain.StatusPaymentSubmitted, OrderStatusUpdate{
		Status:      domain.StatusCompleted,
		CompletedAt: &now,
		ServiceID:   &service.ID,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: order %s left payment_submitted", domain.ErrInvalidState, orderID)
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(PrefixEvent),
		AggregateID:   order.ID,
		AggregateType: domain.AggregateTypeOrder,
		EventType:     domain.EventTypeOrderCompleted,
		Payload: map[string]any{
			"order_id":   order.ID,
			"account_id": order.AccountID,
			"service_id": service.ID,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.OrdersApproved.Inc()
		uc.metrics.ApproveDuration.Observe(time.Since(start).Seconds())
	}

	return service, nil
}

// approveNew provisions a fresh service. A provisioner failure aborts the
// whole transaction, leaving the order in payment_submitted.
func (uc *OrderUseCase) approveNew(ctx context.Context, tx Transaction, order *domain.Order, now time.Time) (*domain.Service, error) {
	serviceID := uc.idGen.Generate(PrefixService)
	username := serviceUsername(serviceID)
	expiresAt := now.Add(time.Duration(order.Plan.DurationDays) * 24 * time.Hour)

	accessConfig, err := uc.provisioner.Provision(ctx, ProvisionRequest{
		Server:      order.Server,
		Username:    username,
		DataLimitGB: order.Plan.DataLimitGB,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.ProvisionFailures.Inc()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrProvisioningFailed, err)
	}

	service := &domain.Service{
		ID:           serviceID,
		AccountID:    order.AccountID,
		Username:     username,
		PlanName:     order.Plan.Name,
		DataLimitGB:  order.Plan.DataLimitGB,
		ExpiresAt:    expiresAt,
		AccessConfig: accessConfig,
		Status:       domain.ServiceStatusActive,
		OrderID:      order.ID,
		Server:       order.Server,
		CreatedAt:    now,
	}

	// A username collision (ErrUsernameTaken) aborts the transaction and
	// leaves the order in payment_submitted; the next approve draws a fresh
	// service id and with it a fresh username.
	if err := uc.serviceRepo.Create(ctx, tx, service); err != nil {
		return nil, err
	}

	return service, nil
}

// approveRenewal extends the linked service instead of provisioning a second
// one. An expired service restarts its clock from the approval time.
func (uc *OrderUseCase) approveRenewal(ctx context.Context, tx Transaction, order *domain.Order, now time.Time) (*domain.Service, error) {
	service, err := uc.serviceRepo.GetByID(ctx, order.ServiceID)
	if err != nil {
		return nil, err
	}

	base := service.ExpiresAt
	if base.Before(now) {
		base = now
	}
	newExpiry := base.Add(time.Duration(order.Plan.DurationDays) * 24 * time.Hour)

	if err := uc.serviceRepo.ExtendExpiry(ctx, tx, service.ID, newExpiry); err != nil {
		return nil, err
	}

	service.ExpiresAt = newExpiry

	return service, nil
}

// Reject declines the payment. Valid from waiting_payment or
// payment_submitted; wallet-funded orders get their debit refunded in the
// same transaction. Rejecting an already-rejected order is a silent no-op.
func (uc *OrderUseCase) Reject(ctx context.Context, orderID, reason string) (*domain.Order, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	order, err := uc.orderRepo.GetByIDForUpdate(txCtx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == domain.StatusRejected {
		return order, nil
	}

	if order.Status != domain.StatusWaitingPayment && order.Status != domain.StatusPaymentSubmitted {
		return nil, fmt.Errorf("%w: order %s is %s", domain.ErrInvalidState, orderID, order.Status)
	}

	if err := uc.refundWalletDebit(txCtx, tx, order, "refund: "+reason); err != nil {
		return nil, err
	}

	ok, err := uc.orderRepo.TransitionStatus(txCtx, tx, orderID, order.Status, OrderStatusUpdate{
		Status: domain.StatusRejected,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: order %s changed state during reject", domain.ErrInvalidState, orderID)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.OrdersRejected.Inc()
	}

	order.Status = domain.StatusRejected

	return order, nil
}

// Cancel is user-initiated abandonment, only from waiting_payment.
func (uc *OrderUseCase) Cancel(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == domain.StatusCancelled {
		return order, nil
	}

	if order.Status != domain.StatusWaitingPayment {
		return nil, fmt.Errorf("%w: order %s is %s", domain.ErrInvalidState, orderID, order.Status)
	}

	ok, err := uc.orderRepo.TransitionStatus(ctx, nil, orderID, domain.StatusWaitingPayment, OrderStatusUpdate{
		Status: domain.StatusCancelled,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: order %s left waiting_payment", domain.ErrInvalidState, orderID)
	}

	order.Status = domain.StatusCancelled

	return order, nil
}

// ExpireStale transitions every order past its payment window to expired,
// refunding wallet-funded ones. Re-entrant: a second run finds nothing left
// to do.
func (uc *OrderUseCase) ExpireStale(ctx context.Context, now time.Time) (int, error) {
	stale, err := uc.orderRepo.ListStale(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, order := range stale {
		if err := uc.expireOne(ctx, order, now); err != nil {
			return expired, fmt.Errorf("expire order %s: %w", order.ID, err)
		}
		expired++
	}

	if uc.metrics != nil && expired > 0 {
		uc.metrics.OrdersExpired.Add(float64(expired))
	}

	return expired, nil
}

func (uc *OrderUseCase) expireOne(ctx context.Context, order *domain.Order, now time.Time) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Re-read under lock: the admin may have approved since the list query.
	current, err := uc.orderRepo.GetByIDForUpdate(txCtx, tx, order.ID)
	if err != nil {
		return err
	}

	if current.Status.Terminal() || !current.PaymentWindowElapsed(now) {
		return nil
	}

	if err := uc.refundWalletDebit(txCtx, tx, current, "refund: order expired"); err != nil {
		return err
	}

	ok, err := uc.orderRepo.TransitionStatus(txCtx, tx, current.ID, current.Status, OrderStatusUpdate{
		Status: domain.StatusExpired,
	})
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	return tx.Commit(txCtx)
}

func (uc *OrderUseCase) refundWalletDebit(ctx context.Context, tx Transaction, order *domain.Order, description string) error {
	if order.PaymentMethod != domain.PaymentMethodWallet {
		return nil
	}

	_, err := applyCredit(ctx, tx, uc.accountRepo, uc.entryRepo, uc.idGen,
		order.AccountID, order.Plan.Price, domain.EntryKindAdjustment, description)

	return err
}

// GetOrder retrieves an order by ID.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return uc.orderRepo.GetByID(ctx, id)
}

// ListPending lists orders awaiting admin review, newest first.
func (uc *OrderUseCase) ListPending(ctx context.Context) ([]*domain.Order, error) {
	return uc.orderRepo.ListPending(ctx)
}

// ListByAccount lists an account's orders with pagination.
func (uc *OrderUseCase) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Order, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.orderRepo.ListByAccount(ctx, accountID, limit, offset)
}

// serviceUsername derives a customer-facing username from the service id.
// The ULID tail keeps it unique without another round-trip.
func serviceUsername(serviceID string) string {
	tail := serviceID
	if i := strings.IndexByte(tail, '_'); i >= 0 {
		tail = tail[i+1:]
	}
	if len(tail) > 8 {
		tail = tail[len(tail)-8:]
	}
	return "SUB-" + strings.ToUpper(tail)
}
