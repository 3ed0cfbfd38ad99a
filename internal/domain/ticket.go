package domain

import (
	"time"
)

// TicketThreadSchemaVersion tags serialized message threads.
const TicketThreadSchemaVersion = 1

type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

// TicketMessage is one entry in a ticket's ordered message thread.
type TicketMessage struct {
	Author string    `json:"author"` // customer account id or "admin"
	Body   string    `json:"body"`
	SentAt time.Time `json:"sent_at"`
}

// TicketThread is the append-only message thread stored with a ticket.
type TicketThread struct {
	SchemaVersion int             `json:"schema_version"`
	Messages      []TicketMessage `json:"messages"`
}

// Append returns the thread with a message added, stamping the schema version.
func (t TicketThread) Append(msg TicketMessage) TicketThread {
	t.SchemaVersion = TicketThreadSchemaVersion
	t.Messages = append(t.Messages, msg)
	return t
}

// Ticket is a support request. It shares the "mutable status + thread" shape
// of the payment workflows but never touches money.
type Ticket struct {
	ID        string
	AccountID string
	Category  string
	Subject   string
	Thread    TicketThread
	Status    TicketStatus
	ClosedBy  string
	ClosedAt  *time.Time
	CreatedAt time.Time
}
