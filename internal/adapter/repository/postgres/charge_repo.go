package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/subledger/internal/domain"
	"github.com/iho/subledger/internal/usecase"
)

// ChargeRepository implements usecase.ChargeRepository.
type ChargeRepository struct {
	pool *pgxpool.Pool
}

// NewChargeRepository creates a new ChargeRepository.
func NewChargeRepository(pool *pgxpool.Pool) *ChargeRepository {
	return &ChargeRepository{pool: pool}
}

const chargeColumns = `id, account_id, amount, status, payment_evidence, created_at, expires_at, completed_at`

// Create inserts a new wallet charge.
func (r *ChargeRepository) Create(ctx context.Context, tx usecase.Transaction, charge *domain.WalletCharge) error {
	_, err := conn(r.pool, tx).Exec(ctx, `
		INSERT INTO wallet_charges (`+chargeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		charge.ID, charge.AccountID, charge.Amount, charge.Status, charge.PaymentEvidence,
		charge.CreatedAt, charge.ExpiresAt, charge.CompletedAt,
	)

	return err
}

// GetByID retrieves a charge by ID.
func (r *ChargeRepository) GetByID(ctx context.Context, id string) (*domain.WalletCharge, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+chargeColumns+` FROM wallet_charges WHERE id = $1`, id)
	return scanCharge(row)
}

// GetByIDForUpdate retrieves a charge by ID with a FOR UPDATE lock.
func (r *ChargeRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.WalletCharge, error) {
	row := conn(r.pool, tx).QueryRow(ctx, `SELECT `+chargeColumns+` FROM wallet_charges WHERE id = $1 FOR UPDATE`, id)
	return scanCharge(row)
}

// TransitionStatus applies the update only if the charge still has the
// expected status.
func (r *ChargeRepository) TransitionStatus(ctx context.Context, tx usecase.Transaction, id string, expected domain.PaymentStatus, upd usecase.ChargeStatusUpdate) (bool, error) {
	tag, err := conn(r.pool, tx).Exec(ctx, `
		UPDATE wallet_charges
		SET status = $3,
		    payment_evidence = COALESCE($4, payment_evidence),
		    completed_at = COALESCE($5, completed_at)
		WHERE id = $1 AND status = $2`,
		id, expected, upd.Status, upd.PaymentEvidence, upd.CompletedAt,
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

// ListPending returns charges awaiting admin review, newest first.
func (r *ChargeRepository) ListPending(ctx context.Context) ([]*domain.WalletCharge, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+chargeColumns+` FROM wallet_charges
		WHERE status = $1
		ORDER BY created_at DESC`,
		domain.StatusPaymentSubmitted,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCharges(rows)
}

// ListStale returns non-terminal charges whose payment window has elapsed.
func (r *ChargeRepository) ListStale(ctx context.Context, now time.Time) ([]*domain.WalletCharge, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+chargeColumns+` FROM wallet_charges
		WHERE status IN ($1, $2) AND expires_at < $3
		ORDER BY expires_at`,
		domain.StatusWaitingPayment, domain.StatusPaymentSubmitted, now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCharges(rows)
}

func scanCharge(row pgx.Row) (*domain.WalletCharge, error) {
	var charge domain.WalletCharge
	err := row.Scan(&charge.ID, &charge.AccountID, &charge.Amount, &charge.Status,
		&charge.PaymentEvidence, &charge.CreatedAt, &charge.ExpiresAt, &charge.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChargeNotFound
		}

		return nil, err
	}

	return &charge, nil
}

func scanCharges(rows pgx.Rows) ([]*domain.WalletCharge, error) {
	var charges []*domain.WalletCharge
	for rows.Next() {
		charge, err := scanCharge(rows)
		if err != nil {
			return nil, err
		}
		charges = append(charges, charge)
	}

	return charges, rows.Err()
}
