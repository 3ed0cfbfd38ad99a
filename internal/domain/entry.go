package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind classifies a ledger entry.
type EntryKind string

const (
	EntryKindPurchaseDebit EntryKind = "purchase_debit"
	EntryKindChargeCredit  EntryKind = "charge_credit"
	EntryKindAdjustment    EntryKind = "adjustment"
)

// LedgerEntry is a single immutable, signed balance-affecting record.
// Entries are never updated or deleted.
type LedgerEntry struct {
	ID          string
	AccountID   string
	Amount      decimal.Decimal
	Kind        EntryKind
	Description string
	CreatedAt   time.Time
}
