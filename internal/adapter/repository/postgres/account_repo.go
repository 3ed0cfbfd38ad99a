package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/subledger/internal/domain"
	"github.com/iho/subledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Ensure creates the account on first contact and refreshes the activity
// timestamp on every subsequent one.
func (r *AccountRepository) Ensure(ctx context.Context, id string, now time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (id, balance, last_activity_at, created_at, updated_at)
		VALUES ($1, 0, $2, $2, $2)
		ON CONFLICT (id) DO UPDATE SET last_activity_at = EXCLUDED.last_activity_at`,
		id, now,
	)

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.get(ctx, r.pool, id, "")
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	return r.get(ctx, conn(r.pool, tx), id, " FOR UPDATE")
}

func (r *AccountRepository) get(ctx context.Context, q querier, id, suffix string) (*domain.Account, error) {
	row := q.QueryRow(ctx, `
		SELECT id, balance, last_activity_at, created_at, updated_at
		FROM accounts
		WHERE id = $1`+suffix,
		id,
	)

	var account domain.Account
	err := row.Scan(&account.ID, &account.Balance, &account.LastActivityAt, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return &account, nil
}

// UpdateBalance updates the stored balance of an account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	tag, err := conn(r.pool, tx).Exec(ctx, `
		UPDATE accounts SET balance = $2, updated_at = $3 WHERE id = $1`,
		id, balance, updatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}
