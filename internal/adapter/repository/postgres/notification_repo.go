package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/subledger/internal/domain"
	"github.com/iho/subledger/internal/usecase"
)

// NotificationRepository implements usecase.NotificationRepository. The
// UNIQUE (service_id, kind) constraint is the dedup authority; the insert
// either lands or silently loses to an earlier one.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// TryCreate inserts the dedup record. Returns true when this call inserted
// it, false when a record for the same (service, kind) already existed.
func (r *NotificationRepository) TryCreate(ctx context.Context, tx usecase.Transaction, rec *domain.NotificationRecord) (bool, error) {
	tag, err := conn(r.pool, tx).Exec(ctx, `
		INSERT INTO notifications (id, service_id, kind, sent_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (service_id, kind) DO NOTHING`,
		rec.ID, rec.ServiceID, rec.Kind, rec.SentAt,
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}
