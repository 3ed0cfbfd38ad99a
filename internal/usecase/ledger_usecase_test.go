package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/subledger/internal/domain"
	"github.com/iho/subledger/internal/usecase"
	"github.com/iho/subledger/internal/usecase/mocks"
)

func newLedgerFixture() (*usecase.LedgerUseCase, *mocks.MockAccountRepository, *mocks.MockEntryRepository) {
	accountRepo := mocks.NewMockAccountRepository()
	entryRepo := mocks.NewMockEntryRepository()
	uc := usecase.NewLedgerUseCase(
		mocks.NewMockTransactionManager(),
		accountRepo,
		entryRepo,
		mocks.NewMockIDGenerator(),
		nil,
	)
	return uc, accountRepo, entryRepo
}

func seedAccount(repo *mocks.MockAccountRepository, id string, balance decimal.Decimal) {
	now := time.Now().UTC()
	repo.Seed(&domain.Account{
		ID:             id,
		Balance:        balance,
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func TestLedgerUseCase_CreditThenDebit(t *testing.T) {
	uc, accountRepo, entryRepo := newLedgerFixture()
	seedAccount(accountRepo, "acc-1", decimal.Zero)
	ctx := context.Background()

	entry, err := uc.Credit(ctx, "acc-1", decimal.NewFromInt(50000), domain.EntryKindChargeCredit, "top-up")
	if err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	if !entry.Amount.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("expected entry amount 50000, got %s", entry.Amount)
	}

	entry, err = uc.Debit(ctx, "acc-1", decimal.NewFromInt(25000), domain.EntryKindPurchaseDebit, "purchase")
	if err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	if !entry.Amount.Equal(decimal.NewFromInt(-25000)) {
		t.Errorf("expected entry amount -25000, got %s", entry.Amount)
	}

	balance, err := uc.Balance(ctx, "acc-1")
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(25000)) {
		t.Errorf("expected balance 25000, got %s", balance)
	}

	// The stored balance must always equal the sum of entries.
	sum, err := entryRepo.SumByAccount(ctx, "acc-1")
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if !sum.Equal(balance) {
		t.Errorf("balance %s diverged from entry sum %s", balance, sum)
	}
}

func TestLedgerUseCase_DebitInsufficientFunds(t *testing.T) {
	uc, accountRepo, entryRepo := newLedgerFixture()
	seedAccount(accountRepo, "acc-1", decimal.NewFromInt(100))
	ctx := context.Background()

	_, err := uc.Debit(ctx, "acc-1", decimal.NewFromInt(500), domain.EntryKindPurchaseDebit, "purchase")
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// A failed debit leaves no trace.
	count, _ := entryRepo.CountByAccount(ctx, "acc-1")
	if count != 0 {
		t.Errorf("expected no entries after failed debit, got %d", count)
	}
	balance, _ := uc.Balance(ctx, "acc-1")
	if !balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected balance unchanged at 100, got %s", balance)
	}
}

func TestLedgerUseCase_DebitInvalidAmounts(t *testing.T) {
	uc, accountRepo, _ := newLedgerFixture()
	seedAccount(accountRepo, "acc-1", decimal.NewFromInt(1000))

	tests := []struct {
		name   string
		amount decimal.Decimal
	}{
		{"zero", decimal.Zero},
		{"negative", decimal.NewFromInt(-10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Debit(context.Background(), "acc-1", tt.amount, domain.EntryKindPurchaseDebit, "x")
			if !errors.Is(err, domain.ErrInvalidAmount) {
				t.Errorf("expected ErrInvalidAmount, got %v", err)
			}
		})
	}
}

func TestLedgerUseCase_CreditUnknownAccount(t *testing.T) {
	uc, _, _ := newLedgerFixture()

	_, err := uc.Credit(context.Background(), "missing", decimal.NewFromInt(10), domain.EntryKindAdjustment, "x")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestLedgerUseCase_Reconcile(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	entryRepo := mocks.NewMockEntryRepository()
	uc := usecase.NewLedgerUseCase(mocks.NewMockTransactionManager(), accountRepo, entryRepo, mocks.NewMockIDGenerator(), nil)
	ctx := context.Background()

	// Stored balance drifted: entries say 300, the column says 500.
	seedAccount(accountRepo, "acc-1", decimal.NewFromInt(500))
	_ = entryRepo.Create(ctx, nil, &domain.LedgerEntry{ID: "txn_1", AccountID: "acc-1", Amount: decimal.NewFromInt(300)})

	result, err := uc.Reconcile(ctx, "acc-1")
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	if !result.Drift.Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected drift 200, got %s", result.Drift)
	}
	if !result.Corrected {
		t.Error("expected drift to be corrected")
	}

	balance, _ := uc.Balance(ctx, "acc-1")
	if !balance.Equal(decimal.NewFromInt(300)) {
		t.Errorf("expected corrected balance 300, got %s", balance)
	}

	// Second pass finds nothing to fix.
	result, err = uc.Reconcile(ctx, "acc-1")
	if err != nil {
		t.Fatalf("second reconcile failed: %v", err)
	}
	if result.Corrected {
		t.Error("expected no correction on clean account")
	}
}

func TestLedgerUseCase_BalanceUsesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewCacheMock(ctrl)

	accountRepo := mocks.NewMockAccountRepository()
	uc := usecase.NewLedgerUseCase(mocks.NewMockTransactionManager(), accountRepo, mocks.NewMockEntryRepository(), mocks.NewMockIDGenerator(), cache)

	// Cache hit: the repository must not be consulted.
	cache.EXPECT().Get(gomock.Any(), "balance:acc-1").Return([]byte(`"750"`), nil)
	accountRepo.GetByIDFunc = func(ctx context.Context, id string) (*domain.Account, error) {
		t.Fatal("repository consulted despite cache hit")
		return nil, nil
	}

	balance, err := uc.Balance(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(750)) {
		t.Errorf("expected cached balance 750, got %s", balance)
	}
}

func TestLedgerUseCase_BalanceCacheMissFallsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewCacheMock(ctrl)

	accountRepo := mocks.NewMockAccountRepository()
	seedAccount(accountRepo, "acc-1", decimal.NewFromInt(42))
	uc := usecase.NewLedgerUseCase(mocks.NewMockTransactionManager(), accountRepo, mocks.NewMockEntryRepository(), mocks.NewMockIDGenerator(), cache)

	cache.EXPECT().Get(gomock.Any(), "balance:acc-1").Return(nil, errors.New("miss"))
	cache.EXPECT().Set(gomock.Any(), "balance:acc-1", gomock.Any(), usecase.BalanceCacheTTL).Return(nil)

	balance, err := uc.Balance(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(42)) {
		t.Errorf("expected balance 42, got %s", balance)
	}
}
