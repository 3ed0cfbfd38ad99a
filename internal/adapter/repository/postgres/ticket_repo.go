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

// TicketRepository implements usecase.TicketRepository. The message thread
// is stored as versioned JSONB and always rewritten whole under a row lock.
type TicketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository creates a new TicketRepository.
func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

const ticketColumns = `id, account_id, category, subject, thread, status, closed_by, closed_at, created_at`

// Create inserts a new ticket.
func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	thread, err := json.Marshal(ticket.Thread)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO tickets (`+ticketColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		ticket.ID, ticket.AccountID, ticket.Category, ticket.Subject, thread,
		ticket.Status, ticket.ClosedBy, ticket.ClosedAt, ticket.CreatedAt,
	)

	return err
}

// GetByID retrieves a ticket by ID.
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)
	return scanTicket(row)
}

// GetByIDForUpdate retrieves a ticket by ID with a FOR UPDATE lock.
func (r *TicketRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Ticket, error) {
	row := conn(r.pool, tx).QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1 FOR UPDATE`, id)
	return scanTicket(row)
}

// UpdateThread replaces the stored message thread.
func (r *TicketRepository) UpdateThread(ctx context.Context, tx usecase.Transaction, id string, thread domain.TicketThread) error {
	raw, err := json.Marshal(thread)
	if err != nil {
		return err
	}

	tag, err := conn(r.pool, tx).Exec(ctx, `
		UPDATE tickets SET thread = $2 WHERE id = $1`,
		id, raw,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}

	return nil
}

// Close flips an open ticket to closed. Returns false if it was already
// closed.
func (r *TicketRepository) Close(ctx context.Context, tx usecase.Transaction, id, closedBy string, closedAt time.Time) (bool, error) {
	tag, err := conn(r.pool, tx).Exec(ctx, `
		UPDATE tickets SET status = $4, closed_by = $2, closed_at = $3
		WHERE id = $1 AND status = $5`,
		id, closedBy, closedAt, domain.TicketStatusClosed, domain.TicketStatusOpen,
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

// ListByAccount returns an account's tickets, newest first.
func (r *TicketRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Ticket, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+ticketColumns+` FROM tickets
		WHERE account_id = $1
		ORDER BY created_at DESC`,
		accountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTickets(rows)
}

// ListOpen returns open tickets, oldest first so the queue is fair.
func (r *TicketRepository) ListOpen(ctx context.Context) ([]*domain.Ticket, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+ticketColumns+` FROM tickets
		WHERE status = $1
		ORDER BY created_at`,
		domain.TicketStatusOpen,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTickets(rows)
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket domain.Ticket
		thread []byte
	)

	err := row.Scan(&ticket.ID, &ticket.AccountID, &ticket.Category, &ticket.Subject, &thread,
		&ticket.Status, &ticket.ClosedBy, &ticket.ClosedAt, &ticket.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}

		return nil, err
	}

	if err := json.Unmarshal(thread, &ticket.Thread); err != nil {
		return nil, err
	}

	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]*domain.Ticket, error) {
	var tickets []*domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}

	return tickets, rows.Err()
}
