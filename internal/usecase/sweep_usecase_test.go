package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/subledger/internal/domain"
	"github.com/iho/subledger/internal/usecase"
	"github.com/iho/subledger/internal/usecase/mocks"
)

type sweepFixture struct {
	uc               *usecase.SweepUseCase
	accountRepo      *mocks.MockAccountRepository
	orderRepo        *mocks.MockOrderRepository
	chargeRepo       *mocks.MockChargeRepository
	serviceRepo      *mocks.MockServiceRepository
	notificationRepo *mocks.MockNotificationRepository
	outboxRepo       *mocks.MockOutboxRepository
	orders           *usecase.OrderUseCase
	charges          *usecase.ChargeUseCase
}

func newSweepFixture() *sweepFixture {
	f := &sweepFixture{
		accountRepo:      mocks.NewMockAccountRepository(),
		orderRepo:        mocks.NewMockOrderRepository(),
		chargeRepo:       mocks.NewMockChargeRepository(),
		serviceRepo:      mocks.NewMockServiceRepository(),
		notificationRepo: mocks.NewMockNotificationRepository(),
		outboxRepo:       mocks.NewMockOutboxRepository(),
	}

	txManager := mocks.NewMockTransactionManager()
	entryRepo := mocks.NewMockEntryRepository()
	idGen := mocks.NewMockIDGenerator()

	f.orders = usecase.NewOrderUseCase(txManager, f.accountRepo, entryRepo, f.orderRepo,
		f.serviceRepo, f.outboxRepo, mocks.NewMockProvisioner(), idGen, nil, 15*time.Minute)
	f.charges = usecase.NewChargeUseCase(txManager, f.accountRepo, entryRepo, f.chargeRepo,
		f.outboxRepo, idGen, nil, 15*time.Minute)

	notifier := usecase.NewNotificationUseCase(f.notificationRepo, f.outboxRepo, idGen, nil)
	services := usecase.NewServiceUseCase(txManager, f.serviceRepo, notifier, nil, 24*time.Hour)

	f.uc = usecase.NewSweepUseCase(f.orders, f.charges, services, zerolog.Nop(), nil)

	return f
}

func (f *sweepFixture) seedService(id string, expiresAt time.Time) {
	f.serviceRepo.Seed(&domain.Service{
		ID:        id,
		AccountID: "acc-1",
		Username:  "SUB-" + id,
		PlanName:  "1 month / 50 GB",
		ExpiresAt: expiresAt,
		Status:    domain.ServiceStatusActive,
		OrderID:   "ord_" + id,
	})
}

func TestSweepUseCase_Run(t *testing.T) {
	f := newSweepFixture()
	ctx := context.Background()
	now := time.Now().UTC()

	// A stale order and charge, past the 15 minute window.
	order, _ := f.orders.CreateOrder(ctx, usecase.CreateOrderInput{
		AccountID:     "acc-1",
		Plan:          testPlan(),
		Server:        testServer(),
		PaymentMethod: domain.PaymentMethodCardTransfer,
	})
	charge, _ := f.charges.CreateCharge(ctx, "acc-1", decimal.NewFromInt(1000))

	// One service well past expiry, one inside the warning window, one healthy.
	f.seedService("overdue", now.Add(-time.Hour))
	f.seedService("closing", now.Add(12*time.Hour))
	f.seedService("healthy", now.Add(20*24*time.Hour))

	sweepAt := now.Add(16 * time.Minute)
	report := f.uc.Run(ctx, sweepAt)

	if report.OrdersExpired != 1 {
		t.Errorf("expected 1 order expired, got %d", report.OrdersExpired)
	}
	if report.ChargesExpired != 1 {
		t.Errorf("expected 1 charge expired, got %d", report.ChargesExpired)
	}
	if report.ServicesExpired != 1 {
		t.Errorf("expected 1 service expired, got %d", report.ServicesExpired)
	}
	if report.WarningsEmitted != 1 {
		t.Errorf("expected 1 warning, got %d", report.WarningsEmitted)
	}
	if report.Failed != 0 {
		t.Errorf("expected no failures, got %d", report.Failed)
	}

	storedOrder, _ := f.orders.GetOrder(ctx, order.ID)
	if storedOrder.Status != domain.StatusExpired {
		t.Errorf("expected order expired, got %s", storedOrder.Status)
	}
	storedCharge, _ := f.charges.GetCharge(ctx, charge.ID)
	if storedCharge.Status != domain.StatusExpired {
		t.Errorf("expected charge expired, got %s", storedCharge.Status)
	}

	// One expired alert plus one expiring_soon alert.
	if got := f.notificationRepo.Count(); got != 2 {
		t.Errorf("expected 2 notification records, got %d", got)
	}

	var expiredEvents, warningEvents int
	for _, e := range f.outboxRepo.Events() {
		switch e.EventType {
		case domain.EventTypeServiceExpired:
			expiredEvents++
		case domain.EventTypeServiceExpiringSoon:
			warningEvents++
		}
	}
	if expiredEvents != 1 || warningEvents != 1 {
		t.Errorf("expected 1 expired and 1 warning event, got %d and %d", expiredEvents, warningEvents)
	}
}

func TestSweepUseCase_RunTwiceIsIdempotent(t *testing.T) {
	f := newSweepFixture()
	ctx := context.Background()
	now := time.Now().UTC()

	_, _ = f.orders.CreateOrder(ctx, usecase.CreateOrderInput{
		AccountID:     "acc-1",
		Plan:          testPlan(),
		Server:        testServer(),
		PaymentMethod: domain.PaymentMethodCardTransfer,
	})
	f.seedService("overdue", now.Add(-time.Hour))
	f.seedService("closing", now.Add(12*time.Hour))

	sweepAt := now.Add(16 * time.Minute)
	_ = f.uc.Run(ctx, sweepAt)

	second := f.uc.Run(ctx, sweepAt.Add(time.Minute))

	if second.OrdersExpired != 0 || second.ChargesExpired != 0 ||
		second.ServicesExpired != 0 || second.WarningsEmitted != 0 {
		t.Errorf("expected empty second run, got %+v", second)
	}
	if got := f.notificationRepo.Count(); got != 2 {
		t.Errorf("expected dedup to hold at 2 records, got %d", got)
	}
}

func TestSweepUseCase_ExpiredServiceAlertsOnce(t *testing.T) {
	f := newSweepFixture()
	ctx := context.Background()
	now := time.Now().UTC()

	// A service inside the warning window that then expires: it gets the
	// expiring_soon alert on the first run and the expired alert on the
	// second, never a duplicate of either.
	f.seedService("svc", now.Add(12*time.Hour))

	_ = f.uc.Run(ctx, now)
	report := f.uc.Run(ctx, now.Add(13*time.Hour))

	if report.ServicesExpired != 1 {
		t.Errorf("expected service expired on second run, got %d", report.ServicesExpired)
	}
	if report.WarningsEmitted != 0 {
		t.Errorf("expected no repeat warning, got %d", report.WarningsEmitted)
	}
	if got := f.notificationRepo.Count(); got != 2 {
		t.Errorf("expected 2 records (one per kind), got %d", got)
	}

	third := f.uc.Run(ctx, now.Add(14*time.Hour))
	if third.ServicesExpired != 0 {
		t.Errorf("expected no re-expiry, got %d", third.ServicesExpired)
	}
}
