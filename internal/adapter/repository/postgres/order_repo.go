package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/subledger/internal/domain"
	"github.com/iho/subledger/internal/usecase"
)

// OrderRepository implements usecase.OrderRepository. The plan snapshot and
// the server reference are stored as JSONB so catalog edits never reach
// pending orders.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `id, account_id, plan, server, status, payment_method, kind,
	payment_evidence, service_id, created_at, completed_at, expires_at`

// Create inserts a new order within a transaction.
func (r *OrderRepository) Create(ctx context.Context, tx usecase.Transaction, order *domain.Order) error {
	plan, err := json.Marshal(order.Plan)
	if err != nil {
		return err
	}
	server, err := json.Marshal(order.Server)
	if err != nil {
		return err
	}

	_, err = conn(r.pool, tx).Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		order.ID, order.AccountID, plan, server, order.Status, order.PaymentMethod, order.Kind,
		order.PaymentEvidence, nullIfEmpty(order.ServiceID), order.CreatedAt, order.CompletedAt, order.ExpiresAt,
	)

	return err
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return scanOrder(row)
}

// GetByIDForUpdate retrieves an order by ID with a FOR UPDATE lock. Every
// status decision is made while holding this lock.
func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Order, error) {
	row := conn(r.pool, tx).QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
	return scanOrder(row)
}

// TransitionStatus applies the update only if the order still has the
// expected status. The guard in the WHERE clause is what makes replays and
// racing admins safe.
func (r *OrderRepository) TransitionStatus(ctx context.Context, tx usecase.Transaction, id string, expected domain.PaymentStatus, upd usecase.OrderStatusUpdate) (bool, error) {
	tag, err := conn(r.pool, tx).Exec(ctx, `
		UPDATE orders
		SET status = $3,
		    payment_evidence = COALESCE($4, payment_evidence),
		    completed_at = COALESCE($5, completed_at),
		    service_id = COALESCE($6, service_id)
		WHERE id = $1 AND status = $2`,
		id, expected, upd.Status, upd.PaymentEvidence, upd.CompletedAt, upd.ServiceID,
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

// ListPending returns orders awaiting admin review, newest first.
func (r *OrderRepository) ListPending(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE status = $1
		ORDER BY created_at DESC`,
		domain.StatusPaymentSubmitted,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows)
}

// ListStale returns non-terminal orders whose payment window has elapsed.
func (r *OrderRepository) ListStale(ctx context.Context, now time.Time) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE status IN ($1, $2) AND expires_at < $3
		ORDER BY expires_at`,
		domain.StatusWaitingPayment, domain.StatusPaymentSubmitted, now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows)
}

// ListByAccount returns an account's orders, newest first.
func (r *OrderRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		accountID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows)
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		order     domain.Order
		plan      []byte
		server    []byte
		serviceID *string
	)

	err := row.Scan(&order.ID, &order.AccountID, &plan, &server, &order.Status, &order.PaymentMethod,
		&order.Kind, &order.PaymentEvidence, &serviceID, &order.CreatedAt, &order.CompletedAt, &order.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}

		return nil, err
	}

	if err := json.Unmarshal(plan, &order.Plan); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(server, &order.Server); err != nil {
		return nil, err
	}
	if serviceID != nil {
		order.ServiceID = *serviceID
	}

	return &order, nil
}

func scanOrders(rows pgx.Rows) ([]*domain.Order, error) {
	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
