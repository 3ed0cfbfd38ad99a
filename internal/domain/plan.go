package domain

import (
	"github.com/shopspring/decimal"
)

// PlanSnapshotSchemaVersion tags serialized plan snapshots so the layout can
// evolve without breaking pending orders.
const PlanSnapshotSchemaVersion = 1

// PlanTerms is an immutable copy of plan terms captured at order-creation
// time. Later catalog edits never alter a pending order.
type PlanTerms struct {
	SchemaVersion int             `json:"schema_version"`
	PlanID        string          `json:"plan_id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	DurationDays  int             `json:"duration_days"`
	DataLimitGB   int64           `json:"data_limit_gb"` // 0 means unlimited
}

// Snapshot stamps the terms with the current schema version.
func (p PlanTerms) Snapshot() PlanTerms {
	p.SchemaVersion = PlanSnapshotSchemaVersion
	return p
}

// Validate checks the plan terms of an incoming order.
func (p PlanTerms) Validate() error {
	if p.PlanID == "" || p.Name == "" {
		return ErrInvalidPlan
	}
	if p.Price.IsNegative() {
		return ErrInvalidPlan
	}
	if p.DurationDays <= 0 {
		return ErrInvalidPlan
	}
	if p.DataLimitGB < 0 {
		return ErrInvalidPlan
	}
	return nil
}

// ServerRef identifies the server a service is provisioned on. The name is
// snapshotted alongside the id so old orders keep their display name.
type ServerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
