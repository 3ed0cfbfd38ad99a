package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/subledger/internal/domain"
)

// TicketUseCase manages support tickets and their append-only message
// threads.
type TicketUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	ticketRepo  TicketRepository
	idGen       IDGenerator
}

// NewTicketUseCase creates a new TicketUseCase.
func NewTicketUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	ticketRepo TicketRepository,
	idGen IDGenerator,
) *TicketUseCase {
	return &TicketUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		ticketRepo:  ticketRepo,
		idGen:       idGen,
	}
}

// Open creates a ticket with the first message in its thread.
func (uc *TicketUseCase) Open(ctx context.Context, accountID, category, subject, body string) (*domain.Ticket, error) {
	if subject == "" || body == "" {
		return nil, domain.ErrInvalidTicket
	}

	now := time.Now().UTC()

	if err := uc.accountRepo.Ensure(ctx, accountID, now); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		ID:        uc.idGen.Generate(PrefixTicket),
		AccountID: accountID,
		Category:  category,
		Subject:   subject,
		Thread: domain.TicketThread{}.Append(domain.TicketMessage{
			Author: accountID,
			Body:   body,
			SentAt: now,
		}),
		Status:    domain.TicketStatusOpen,
		CreatedAt: now,
	}

	if err := uc.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	return ticket, nil
}

// Reply appends a message to an open ticket's thread. The read and the
// thread write run under a row lock so concurrent replies cannot drop each
// other's messages.
func (uc *TicketUseCase) Reply(ctx context.Context, ticketID, author, body string) (*domain.Ticket, error) {
	if body == "" {
		return nil, fmt.Errorf("%w: reply body is empty", domain.ErrInvalidTicket)
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	ticket, err := uc.ticketRepo.GetByIDForUpdate(txCtx, tx, ticketID)
	if err != nil {
		return nil, err
	}

	if ticket.Status == domain.TicketStatusClosed {
		return nil, domain.ErrTicketClosed
	}

	ticket.Thread = ticket.Thread.Append(domain.TicketMessage{
		Author: author,
		Body:   body,
		SentAt: time.Now().UTC(),
	})

	if err := uc.ticketRepo.UpdateThread(txCtx, tx, ticketID, ticket.Thread); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return ticket, nil
}

// Close closes an open ticket. Closing twice is a silent no-op.
func (uc *TicketUseCase) Close(ctx context.Context, ticketID, closedBy string) (*domain.Ticket, error) {
	now := time.Now().UTC()

	if _, err := uc.ticketRepo.Close(ctx, nil, ticketID, closedBy, now); err != nil {
		return nil, err
	}

	return uc.ticketRepo.GetByID(ctx, ticketID)
}

// GetTicket retrieves a ticket by ID.
func (uc *TicketUseCase) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	return uc.ticketRepo.GetByID(ctx, id)
}

// ListByAccount lists an account's tickets, newest first.
func (uc *TicketUseCase) ListByAccount(ctx context.Context, accountID string) ([]*domain.Ticket, error) {
	return uc.ticketRepo.ListByAccount(ctx, accountID)
}

// ListOpen lists open tickets for the admin queue.
func (uc *TicketUseCase) ListOpen(ctx context.Context) ([]*domain.Ticket, error) {
	return uc.ticketRepo.ListOpen(ctx)
}
