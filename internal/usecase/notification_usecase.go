package usecase

import (
	"context"
	"time"

	"github.com/iho/subledger/internal/domain"
	"github.com/iho/subledger/internal/infrastructure/metrics"
)

// NotificationUseCase guarantees at-most-once emission per (service, kind)
// pair. The dedup record and the outbox event are written in the caller's
// transaction, so a rolled-back sweep item leaves no trace and a committed
// one can never emit again.
type NotificationUseCase struct {
	notificationRepo NotificationRepository
	outboxRepo       OutboxRepository
	idGen            IDGenerator
	metrics          *metrics.Metrics
}

// NewNotificationUseCase creates a new NotificationUseCase. metrics may be nil.
func NewNotificationUseCase(
	notificationRepo NotificationRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		outboxRepo:       outboxRepo,
		idGen:            idGen,
		metrics:          m,
	}
}

// TryNotify records the (service, kind) pair and queues the matching outbox
// event. Returns false without queueing anything when a record already
// exists. The unique constraint on the record is the authority; concurrent
// callers cannot both see true.
func (uc *NotificationUseCase) TryNotify(ctx context.Context, tx Transaction, service *domain.Service, kind domain.NotificationKind) (bool, error) {
	now := time.Now().UTC()

	inserted, err := uc.notificationRepo.TryCreate(ctx, tx, &domain.NotificationRecord{
		ID:        uc.idGen.Generate(PrefixNotification),
		ServiceID: service.ID,
		Kind:      kind,
		SentAt:    now,
	})
	if err != nil {
		return false, err
	}

	if !inserted {
		if uc.metrics != nil {
			uc.metrics.NotificationsDeduped.WithLabelValues(string(kind)).Inc()
		}
		return false, nil
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(PrefixEvent),
		AggregateID:   service.ID,
		AggregateType: domain.AggregateTypeService,
		EventType:     eventTypeFor(kind),
		Payload: map[string]any{
			"service_id": service.ID,
			"account_id": service.AccountID,
			"expires_at": service.ExpiresAt.Format(time.RFC3339),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return false, err
	}

	if uc.metrics != nil {
		uc.metrics.NotificationsEmitted.WithLabelValues(string(kind)).Inc()
	}

	return true, nil
}

func eventTypeFor(kind domain.NotificationKind) string {
	if kind == domain.NotificationExpired {
		return domain.EventTypeServiceExpired
	}
	return domain.EventTypeServiceExpiringSoon
}
