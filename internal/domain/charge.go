package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletCharge is a request to add funds to an account's wallet. It moves
// through the same payment workflow as an Order but feeds the ledger on
// completion instead of provisioning a service.
type WalletCharge struct {
	ID              string
	AccountID       string
	Amount          decimal.Decimal
	Status          PaymentStatus
	PaymentEvidence string
	CreatedAt       time.Time
	ExpiresAt       time.Time
	CompletedAt     *time.Time
}

// Validate checks the requested top-up amount.
func (c *WalletCharge) Validate() error {
	if c.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}
