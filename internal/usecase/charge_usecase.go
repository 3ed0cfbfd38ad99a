package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/subledger/internal/domain"
	"github.com/iho/subledger/internal/infrastructure/metrics"
)

// ChargeUseCase drives wallet top-ups through the same payment state machine
// as orders. The wallet is only credited on completion, so abandoning or
// rejecting a charge never touches the ledger.
type ChargeUseCase struct {
	txManager     TransactionManager
	accountRepo   AccountRepository
	entryRepo     EntryRepository
	chargeRepo    ChargeRepository
	outboxRepo    OutboxRepository
	idGen         IDGenerator
	metrics       *metrics.Metrics
	paymentWindow time.Duration
}

// NewChargeUseCase creates a new ChargeUseCase. metrics may be nil; a
// non-positive paymentWindow falls back to the default.
func NewChargeUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	chargeRepo ChargeRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
	paymentWindow time.Duration,
) *ChargeUseCase {
	if paymentWindow <= 0 {
		paymentWindow = DefaultPaymentWindow
	}

	return &ChargeUseCase{
		txManager:     txManager,
		accountRepo:   accountRepo,
		entryRepo:     entryRepo,
		chargeRepo:    chargeRepo,
		outboxRepo:    outboxRepo,
		idGen:         idGen,
		metrics:       m,
		paymentWindow: paymentWindow,
	}
}

// CreateCharge opens a top-up request and its payment window.
func (uc *ChargeUseCase) CreateCharge(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.WalletCharge, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if err := uc.accountRepo.Ensure(ctx, accountID, now); err != nil {
		return nil, err
	}

	charge := &domain.WalletCharge{
		ID:        uc.idGen.Generate(PrefixCharge),
		AccountID: accountID,
		Amount:    amount,
		Status:    domain.StatusWaitingPayment,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.paymentWindow),
	}

	if err := charge.Validate(); err != nil {
		return nil, err
	}

	if err := uc.chargeRepo.Create(ctx, nil, charge); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ChargesCreated.Inc()
		amt, _ := amount.Float64()
		uc.metrics.ChargeAmount.Observe(amt)
	}

	return charge, nil
}

// SubmitEvidence attaches payment evidence, moving the charge to
// payment_submitted. Only valid from waiting_payment.
func (uc *ChargeUseCase) SubmitEvidence(ctx context.Context, chargeID, evidence string) (*domain.WalletCharge, error) {
	charge, err := uc.chargeRepo.GetByID(ctx, chargeID)
	if err != nil {
		return nil, err
	}

	if charge.Status != domain.StatusWaitingPayment {
		return nil, fmt.Errorf("%w: charge %s is %s", domain.ErrInvalidState, chargeID, charge.Status)
	}

	ok, err := uc.chargeRepo.TransitionStatus(ctx, nil, chargeID, domain.StatusWaitingPayment, ChargeStatusUpdate{
		Status:          domain.StatusPaymentSubmitted,
		PaymentEvidence: &evidence,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: charge %s left waiting_payment", domain.ErrInvalidState, chargeID)
	}

	charge.Status = domain.StatusPaymentSubmitted
	charge.PaymentEvidence = evidence

	return charge, nil
}

// Complete confirms the payment and credits the wallet. The credit entry,
// balance bump and status flip commit or roll back together, so a charge can
// never credit twice or complete without crediting. Completing an
// already-completed charge is a no-op returning the stored charge.
func (uc *ChargeUseCase) Complete(ctx context.Context, chargeID string) (*domain.WalletCharge, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	charge, err := uc.chargeRepo.GetByIDForUpdate(txCtx, tx, chargeID)
	if err != nil {
		return nil, err
	}

	if charge.Status == domain.StatusCompleted {
		return charge, nil
	}

	if charge.Status != domain.StatusPaymentSubmitted {
		return nil, fmt.Errorf("%w: charge %s is %s", domain.ErrInvalidState, chargeID, charge.Status)
	}

	if _, err := applyCredit(txCtx, tx, uc.accountRepo, uc.entryRepo, uc.idGen,
		charge.AccountID, charge.Amount, domain.EntryKindChargeCredit, "top-up: "+charge.ID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	ok, err := uc.chargeRepo.TransitionStatus(txCtx, tx, chargeID, domain.StatusPaymentSubmitted, ChargeStatusUpdate{
		Status:      domain.StatusCompleted,
		CompletedAt: &now,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: charge %s left payment_submitted", domain.ErrInvalidState, chargeID)
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(PrefixEvent),
		AggregateID:   charge.ID,
		AggregateType: domain.AggregateTypeCharge,
		EventType:     domain.EventTypeChargeCompleted,
		Payload: map[string]any{
			"charge_id":  charge.ID,
			"account_id": charge.AccountID,
			"amount":     charge.Amount.String(),
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
		uc.metrics.ChargesCompleted.Inc()
	}

	charge.Status = domain.StatusCompleted
	charge.CompletedAt = &now

	return charge, nil
}

// Reject declines the top-up from waiting_payment or payment_submitted.
// Rejecting an already-rejected charge is a silent no-op.
func (uc *ChargeUseCase) Reject(ctx context.Context, chargeID string) (*domain.WalletCharge, error) {
	charge, err := uc.chargeRepo.GetByID(ctx, chargeID)
	if err != nil {
		return nil, err
	}

	if charge.Status == domain.StatusRejected {
		return charge, nil
	}

	if charge.Status != domain.StatusWaitingPayment && charge.Status != domain.StatusPaymentSubmitted {
		return nil, fmt.Errorf("%w: charge %s is %s", domain.ErrInvalidState, chargeID, charge.Status)
	}

	ok, err := uc.chargeRepo.TransitionStatus(ctx, nil, chargeID, charge.Status, ChargeStatusUpdate{
		Status: domain.StatusRejected,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: charge %s changed state during reject", domain.ErrInvalidState, chargeID)
	}

	if uc.metrics != nil {
		uc.metrics.ChargesRejected.Inc()
	}

	charge.Status = domain.StatusRejected

	return charge, nil
}

// ExpireStale transitions every charge past its payment window to expired.
// Nothing was credited yet, so there is nothing to unwind.
func (uc *ChargeUseCase) ExpireStale(ctx context.Context, now time.Time) (int, error) {
	stale, err := uc.chargeRepo.ListStale(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, charge := range stale {
		ok, err := uc.chargeRepo.TransitionStatus(ctx, nil, charge.ID, charge.Status, ChargeStatusUpdate{
			Status: domain.StatusExpired,
		})
		if err != nil {
			return expired, fmt.Errorf("expire charge %s: %w", charge.ID, err)
		}
		if ok {
			expired++
		}
	}

	if uc.metrics != nil && expired > 0 {
		uc.metrics.ChargesExpired.Add(float64(expired))
	}

	return expired, nil
}

// GetCharge retrieves a charge by ID.
func (uc *ChargeUseCase) GetCharge(ctx context.Context, id string) (*domain.WalletCharge, error) {
	return uc.chargeRepo.GetByID(ctx, id)
}

// ListPending lists charges awaiting admin review, newest first.
func (uc *ChargeUseCase) ListPending(ctx context.Context) ([]*domain.WalletCharge, error) {
	return uc.chargeRepo.ListPending(ctx)
}
