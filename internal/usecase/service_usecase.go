package usecase

import (
	"context"
	"time"

	"github.com/iho/subledger/internal/domain"
	"github.com/iho/subledger/internal/infrastructure/metrics"
)

// ServiceUseCase covers the life of a provisioned service after approval:
// reads, the expiry flip, and the advance warning. Creation belongs to the
// order workflow.
type ServiceUseCase struct {
	txManager     TransactionManager
	serviceRepo   ServiceRepository
	notifier      *NotificationUseCase
	metrics       *metrics.Metrics
	warningWindow time.Duration
}

// NewServiceUseCase creates a new ServiceUseCase. metrics may be nil; a
// non-positive warningWindow falls back to the default.
func NewServiceUseCase(
	txManager TransactionManager,
	serviceRepo ServiceRepository,
	notifier *NotificationUseCase,
	m *metrics.Metrics,
	warningWindow time.Duration,
) *ServiceUseCase {
	if warningWindow <= 0 {
		warningWindow = DefaultWarningWindow
	}

	return &ServiceUseCase{
		txManager:     txManager,
		serviceRepo:   serviceRepo,
		notifier:      notifier,
		metrics:       m,
		warningWindow: warningWindow,
	}
}

// GetService retrieves a service by ID.
func (uc *ServiceUseCase) GetService(ctx context.Context, id string) (*domain.Service, error) {
	return uc.serviceRepo.GetByID(ctx, id)
}

// ListByAccount lists an account's services with pagination.
func (uc *ServiceUseCase) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Service, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.serviceRepo.ListByAccount(ctx, accountID, limit, offset)
}

// ExpireOverdue flips every active service past its expiry to expired and
// emits the expired alert, one transaction per service. The status flip and
// the alert commit together; re-running finds the CAS already lost and emits
// nothing.
func (uc *ServiceUseCase) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	overdue, err := uc.serviceRepo.ListOverdue(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, service := range overdue {
		flipped, err := uc.expireOne(ctx, service)
		if err != nil {
			return expired, err
		}
		if flipped {
			expired++
		}
	}

	if uc.metrics != nil && expired > 0 {
		uc.metrics.ServicesExpired.Add(float64(expired))
	}

	return expired, nil
}

func (uc *ServiceUseCase) expireOne(ctx context.Context, service *domain.Service) (bool, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	flipped, err := uc.serviceRepo.MarkExpired(txCtx, tx, service.ID)
	if err != nil {
		return false, err
	}
	if !flipped {
		return false, nil
	}

	if _, err := uc.notifier.TryNotify(txCtx, tx, service, domain.NotificationExpired); err != nil {
		return false, err
	}

	return true, tx.Commit(txCtx)
}

// WarnExpiring emits the advance warning for active services expiring within
// the warning window. Dedup makes repeat sweeps silent; the count returned is
// alerts actually emitted, not services seen.
func (uc *ServiceUseCase) WarnExpiring(ctx context.Context, now time.Time) (int, error) {
	expiring, err := uc.serviceRepo.ListExpiringWithin(ctx, now, now.Add(uc.warningWindow))
	if err != nil {
		return 0, err
	}

	warned := 0
	for _, service := range expiring {
		emitted, err := uc.warnOne(ctx, service)
		if err != nil {
			return warned, err
		}
		if emitted {
			warned++
		}
	}

	return warned, nil
}

func (uc *ServiceUseCase) warnOne(ctx context.Context, service *domain.Service) (bool, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	emitted, err := uc.notifier.TryNotify(txCtx, tx, service, domain.NotificationExpiringSoon)
	if err != nil {
		return false, err
	}
	if !emitted {
		return false, nil
	}

	return true, tx.Commit(txCtx)
}
