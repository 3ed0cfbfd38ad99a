package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iho/subledger/internal/domain"
	"github.com/iho/subledger/internal/usecase"
	"github.com/iho/subledger/internal/usecase/mocks"
)

func newTicketFixture() (*usecase.TicketUseCase, *mocks.MockTicketRepository) {
	ticketRepo := mocks.NewMockTicketRepository()
	uc := usecase.NewTicketUseCase(
		mocks.NewMockTransactionManager(),
		mocks.NewMockAccountRepository(),
		ticketRepo,
		mocks.NewMockIDGenerator(),
	)
	return uc, ticketRepo
}

func TestTicketUseCase_OpenReplyClose(t *testing.T) {
	uc, _ := newTicketFixture()
	ctx := context.Background()

	ticket, err := uc.Open(ctx, "acc-1", "connection", "Cannot connect", "It stopped working today")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Errorf("expected open, got %s", ticket.Status)
	}
	if len(ticket.Thread.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(ticket.Thread.Messages))
	}
	if ticket.Thread.SchemaVersion != domain.TicketThreadSchemaVersion {
		t.Errorf("expected schema version %d, got %d", domain.TicketThreadSchemaVersion, ticket.Thread.SchemaVersion)
	}

	ticket, err = uc.Reply(ctx, ticket.ID, "admin", "Try the new config")
	if err != nil {
		t.Fatalf("reply failed: %v", err)
	}
	if len(ticket.Thread.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(ticket.Thread.Messages))
	}
	if ticket.Thread.Messages[1].Author != "admin" {
		t.Errorf("expected admin author, got %q", ticket.Thread.Messages[1].Author)
	}

	closed, err := uc.Close(ctx, ticket.ID, "admin")
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if closed.Status != domain.TicketStatusClosed {
		t.Errorf("expected closed, got %s", closed.Status)
	}
	if closed.ClosedAt == nil {
		t.Error("expected closed_at to be set")
	}

	// Replies to a closed ticket are refused.
	if _, err := uc.Reply(ctx, ticket.ID, "acc-1", "hello?"); !errors.Is(err, domain.ErrTicketClosed) {
		t.Fatalf("expected ErrTicketClosed, got %v", err)
	}

	// Closing twice is a silent no-op.
	if _, err := uc.Close(ctx, ticket.ID, "admin"); err != nil {
		t.Fatalf("second close failed: %v", err)
	}
}

func TestTicketUseCase_OpenValidation(t *testing.T) {
	uc, _ := newTicketFixture()

	tests := []struct {
		name    string
		subject string
		body    string
	}{
		{"empty subject", "", "body"},
		{"empty body", "subject", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Open(context.Background(), "acc-1", "other", tt.subject, tt.body)
			if !errors.Is(err, domain.ErrInvalidTicket) {
				t.Errorf("expected ErrInvalidTicket, got %v", err)
			}
		})
	}
}

func TestTicketUseCase_ReplyValidation(t *testing.T) {
	uc, _ := newTicketFixture()
	ctx := context.Background()

	ticket, err := uc.Open(ctx, "acc-1", "other", "subject", "body")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	if _, err := uc.Reply(ctx, ticket.ID, "acc-1", ""); !errors.Is(err, domain.ErrInvalidTicket) {
		t.Fatalf("expected ErrInvalidTicket, got %v", err)
	}
}

func TestTicketUseCase_ListOpen(t *testing.T) {
	uc, _ := newTicketFixture()
	ctx := context.Background()

	first, _ := uc.Open(ctx, "acc-1", "billing", "Charge missing", "Where is my top-up?")
	_, _ = uc.Open(ctx, "acc-2", "connection", "Slow speeds", "Evenings are unusable")
	_, _ = uc.Close(ctx, first.ID, "admin")

	open, err := uc.ListOpen(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("expected 1 open ticket, got %d", len(open))
	}
	if open[0].AccountID != "acc-2" {
		t.Errorf("expected acc-2's ticket, got %s", open[0].AccountID)
	}
}
