package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/subledger/internal/adapter/provisioner"
	pgrepo "github.com/iho/subledger/internal/adapter/repository/postgres"
	"github.com/iho/subledger/internal/domain"
	"github.com/iho/subledger/internal/usecase"
	"github.com/iho/subledger/tests/testutil"
)

func newSweepStack(t *testing.T, db *testutil.TestDB, panelURL string) (*usecase.SweepUseCase, *usecase.ChargeUseCase, *usecase.LedgerUseCase) {
	t.Helper()

	pool := db.Pool
	txManager := pgrepo.NewTxManager(pool)
	accountRepo := pgrepo.NewAccountRepository(pool)
	entryRepo := pgrepo.NewEntryRepository(pool)
	outboxRepo := pgrepo.NewOutboxRepository(pool)
	serviceRepo := pgrepo.NewServiceRepository(pool)
	idGen := pgrepo.NewULIDGenerator()

	panel := provisioner.New(provisioner.Config{BaseURL: panelURL, APIKey: "test-key"}, zerolog.Nop())

	orderUC := usecase.NewOrderUseCase(txManager, accountRepo, entryRepo,
		pgrepo.NewOrderRepository(pool), serviceRepo, outboxRepo, panel, idGen, nil, time.Minute)
	chargeUC := usecase.NewChargeUseCase(txManager, accountRepo, entryRepo,
		pgrepo.NewChargeRepository(pool), outboxRepo, idGen, nil, time.Minute)
	notificationUC := usecase.NewNotificationUseCase(
		pgrepo.NewNotificationRepository(pool), outboxRepo, idGen, nil)
	serviceUC := usecase.NewServiceUseCase(txManager, serviceRepo, notificationUC, nil, 24*time.Hour)
	sweepUC := usecase.NewSweepUseCase(orderUC, chargeUC, serviceUC, zerolog.Nop(), nil)
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, entryRepo, idGen, nil)

	return sweepUC, chargeUC, ledgerUC
}

func TestChargeCompletionCreditsOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	defer db.Cleanup()
	db.TruncateAll(ctx)

	panel := fakePanel(t)
	_, chargeUC, ledgerUC := newSweepStack(t, db, panel.URL)

	charge, err := chargeUC.CreateCharge(ctx, "acct-3", decimal.NewFromInt(50000))
	if err != nil {
		t.Fatalf("CreateCharge: %v", err)
	}

	if _, err := chargeUC.SubmitEvidence(ctx, charge.ID, "receipt-photo-id"); err != nil {
		t.Fatalf("SubmitEvidence: %v", err)
	}

	// Concurrent duplicate deliveries race on the row lock; retry deadlocks
	// the same way the webhook consumer would.
	retrier := pgrepo.NewRetrier(zerolog.Nop())
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := retrier.Retry(ctx, func() error {
				_, err := chargeUC.Complete(ctx, charge.ID)
				return err
			})
			if err != nil {
				t.Errorf("Complete: %v", err)
			}
		}()
	}
	wg.Wait()

	balance, err := ledgerUC.Balance(ctx, "acct-3")
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("balance = %s, want 50000", balance)
	}
}

func TestSweepExpiresStaleAndRefunds(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	defer db.Cleanup()
	db.TruncateAll(ctx)

	panel := fakePanel(t)
	sweepUC, chargeUC, ledgerUC := newSweepStack(t, db, panel.URL)

	db.SeedAccount(ctx, "acct-4", decimal.NewFromInt(25000))

	pool := db.Pool
	txManager := pgrepo.NewTxManager(pool)
	accountRepo := pgrepo.NewAccountRepository(pool)
	entryRepo := pgrepo.NewEntryRepository(pool)
	idGen := pgrepo.NewULIDGenerator()
	prov := provisioner.New(provisioner.Config{BaseURL: panel.URL, APIKey: "test-key"}, zerolog.Nop())
	orderUC := usecase.NewOrderUseCase(txManager, accountRepo, entryRepo,
		pgrepo.NewOrderRepository(pool), pgrepo.NewServiceRepository(pool),
		pgrepo.NewOutboxRepository(pool), prov, idGen, nil, time.Minute)

	order, err := orderUC.CreateOrder(ctx, usecase.CreateOrderInput{
		AccountID:     "acct-4",
		Plan:          testutil.TestPlan(),
		Server:        testutil.TestServer(),
		PaymentMethod: domain.PaymentMethodWallet,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	charge, err := chargeUC.CreateCharge(ctx, "acct-4", decimal.NewFromInt(10000))
	if err != nil {
		t.Fatalf("CreateCharge: %v", err)
	}

	// Run the sweep past both payment windows.
	future := time.Now().UTC().Add(2 * time.Minute)
	report := sweepUC.Run(ctx, future)

	if report.OrdersExpired != 1 {
		t.Errorf("orders expired = %d, want 1", report.OrdersExpired)
	}
	if report.ChargesExpired != 1 {
		t.Errorf("charges expired = %d, want 1", report.ChargesExpired)
	}
	if report.Failed != 0 {
		t.Errorf("failed = %d, want 0", report.Failed)
	}

	// The expired wallet order was refunded; the expired charge credited nothing.
	balance, err := ledgerUC.Balance(ctx, "acct-4")
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(25000)) {
		t.Errorf("balance = %s, want 25000", balance)
	}

	got, err := orderUC.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got.Status != domain.StatusExpired {
		t.Errorf("order status = %s, want expired", got.Status)
	}

	gotCharge, err := chargeUC.GetCharge(ctx, charge.ID)
	if err != nil {
		t.Fatalf("GetCharge: %v", err)
	}
	if gotCharge.Status != domain.StatusExpired {
		t.Errorf("charge status = %s, want expired", gotCharge.Status)
	}

	// A second sweep finds nothing.
	report = sweepUC.Run(ctx, future)
	if report.OrdersExpired != 0 || report.ChargesExpired != 0 {
		t.Errorf("second sweep expired %d orders, %d charges, want 0/0",
			report.OrdersExpired, report.ChargesExpired)
	}
}
