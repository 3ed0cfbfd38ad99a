package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/subledger/internal/infrastructure/metrics"
)

// SweepReport summarizes one sweep run. Failed counts items the run could not
// process; their work is retried on the next run because every phase is
// re-entrant.
type SweepReport struct {
	StartedAt       time.Time     `json:"started_at"`
	Duration        time.Duration `json:"duration"`
	OrdersExpired   int           `json:"orders_expired"`
	ChargesExpired  int           `json:"charges_expired"`
	WarningsEmitted int           `json:"warnings_emitted"`
	ServicesExpired int           `json:"services_expired"`
	Failed          int           `json:"failed"`
}

// SweepUseCase runs the periodic housekeeping pass: expire stale orders and
// charges, warn about services close to expiry, expire overdue services. A
// failing phase is logged and skipped, never aborting the others.
type SweepUseCase struct {
	orders   *OrderUseCase
	charges  *ChargeUseCase
	services *ServiceUseCase
	logger   zerolog.Logger
	metrics  *metrics.Metrics
}

// NewSweepUseCase creates a new SweepUseCase. metrics may be nil.
func NewSweepUseCase(
	orders *OrderUseCase,
	charges *ChargeUseCase,
	services *ServiceUseCase,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *SweepUseCase {
	return &SweepUseCase{
		orders:   orders,
		charges:  charges,
		services: services,
		logger:   logger,
		metrics:  m,
	}
}

// Run executes one sweep pass at the given instant. Safe to call from
// overlapping schedulers or operators: the per-item CAS guards make repeat
// processing a no-op.
func (uc *SweepUseCase) Run(ctx context.Context, now time.Time) *SweepReport {
	start := time.Now()
	report := &SweepReport{StartedAt: now}

	var err error

	report.OrdersExpired, err = uc.orders.ExpireStale(ctx, now)
	if err != nil {
		report.Failed++
		uc.logger.Error().Err(err).Msg("sweep: expiring stale orders failed")
	}

	report.ChargesExpired, err = uc.charges.ExpireStale(ctx, now)
	if err != nil {
		report.Failed++
		uc.logger.Error().Err(err).Msg("sweep: expiring stale charges failed")
	}

	report.WarningsEmitted, err = uc.services.WarnExpiring(ctx, now)
	if err != nil {
		report.Failed++
		uc.logger.Error().Err(err).Msg("sweep: expiry warnings failed")
	}

	report.ServicesExpired, err = uc.services.ExpireOverdue(ctx, now)
	if err != nil {
		report.Failed++
		uc.logger.Error().Err(err).Msg("sweep: expiring overdue services failed")
	}

	report.Duration = time.Since(start)

	if uc.metrics != nil {
		uc.metrics.SweepRuns.Inc()
		uc.metrics.SweepDuration.Observe(report.Duration.Seconds())
		if report.Failed > 0 {
			uc.metrics.SweepItemFails.Add(float64(report.Failed))
		}
	}

	uc.logger.Info().
		Int("orders_expired", report.OrdersExpired).
		Int("charges_expired", report.ChargesExpired).
		Int("warnings_emitted", report.WarningsEmitted).
		Int("services_expired", report.ServicesExpired).
		Int("failed", report.Failed).
		Dur("duration", report.Duration).
		Msg("sweep completed")

	return report
}
