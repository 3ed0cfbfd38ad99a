package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/subledger/internal/domain"
	"github.com/iho/subledger/internal/usecase"
)

// ServiceRepository implements usecase.ServiceRepository.
type ServiceRepository struct {
	pool *pgxpool.Pool
}

// NewServiceRepository creates a new ServiceRepository.
func NewServiceRepository(pool *pgxpool.Pool) *ServiceRepository {
	return &ServiceRepository{pool: pool}
}

const serviceColumns = `id, account_id, username, plan_name, data_limit_gb, expires_at,
	access_config, status, order_id, server, created_at`

// Create inserts a new service within a transaction. A username collision
// surfaces as domain.ErrUsernameTaken; the aborted approval can be retried
// and will generate a fresh username.
func (r *ServiceRepository) Create(ctx context.Context, tx usecase.Transaction, service *domain.Service) error {
	server, err := json.Marshal(service.Server)
	if err != nil {
		return err
	}

	_, err = conn(r.pool, tx).Exec(ctx, `
		INSERT INTO services (`+serviceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		service.ID, service.AccountID, service.Username, service.PlanName, service.DataLimitGB,
		service.ExpiresAt, service.AccessConfig, service.Status, service.OrderID, server, service.CreatedAt,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation && pgErr.ConstraintName == "idx_services_username" {
		return fmt.Errorf("%w: %s", domain.ErrUsernameTaken, service.Username)
	}

	return err
}

// GetByID retrieves a service by ID.
func (r *ServiceRepository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id)
	return scanService(row)
}

// GetByOrderID retrieves the service created by a completed order.
func (r *ServiceRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Service, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE order_id = $1`, orderID)
	return scanService(row)
}

// ListByAccount returns an account's services, newest first.
func (r *ServiceRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+serviceColumns+` FROM services
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		accountID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanServices(rows)
}

// ListOverdue returns active services past their expiry timestamp.
func (r *ServiceRepository) ListOverdue(ctx context.Context, now time.Time) ([]*domain.Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+serviceColumns+` FROM services
		WHERE status = $1 AND expires_at < $2
		ORDER BY expires_at`,
		domain.ServiceStatusActive, now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanServices(rows)
}

// ListExpiringWithin returns active services expiring inside (from, to].
func (r *ServiceRepository) ListExpiringWithin(ctx context.Context, from, to time.Time) ([]*domain.Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+serviceColumns+` FROM services
		WHERE status = $1 AND expires_at > $2 AND expires_at <= $3
		ORDER BY expires_at`,
		domain.ServiceStatusActive, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanServices(rows)
}

// MarkExpired flips an active service to expired. Returns false when the
// service already left the active state, so repeat sweeps are no-ops.
func (r *ServiceRepository) MarkExpired(ctx context.Context, tx usecase.Transaction, id string) (bool, error) {
	tag, err := conn(r.pool, tx).Exec(ctx, `
		UPDATE services SET status = $3 WHERE id = $1 AND status = $2`,
		id, domain.ServiceStatusActive, domain.ServiceStatusExpired,
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

// ExtendExpiry pushes the expiry forward and reactivates the service. Used
// by renewal approvals.
func (r *ServiceRepository) ExtendExpiry(ctx context.Context, tx usecase.Transaction, id string, expiresAt time.Time) error {
	tag, err := conn(r.pool, tx).Exec(ctx, `
		UPDATE services SET expires_at = $2, status = $3 WHERE id = $1`,
		id, expiresAt, domain.ServiceStatusActive,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrServiceNotFound
	}

	return nil
}

func scanService(row pgx.Row) (*domain.Service, error) {
	var (
		service domain.Service
		server  []byte
	)

	err := row.Scan(&service.ID, &service.AccountID, &service.Username, &service.PlanName,
		&service.DataLimitGB, &service.ExpiresAt, &service.AccessConfig, &service.Status,
		&service.OrderID, &server, &service.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrServiceNotFound
		}

		return nil, err
	}

	if err := json.Unmarshal(server, &service.Server); err != nil {
		return nil, err
	}

	return &service, nil
}

func scanServices(rows pgx.Rows) ([]*domain.Service, error) {
	var services []*domain.Service
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, service)
	}

	return services, rows.Err()
}
