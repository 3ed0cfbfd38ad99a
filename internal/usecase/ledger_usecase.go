package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/subledger/internal/domain"
)

// LedgerUseCase handles wallet credits, debits and balance queries. Every
// successful credit or debit appends exactly one immutable entry and adjusts
// the cached balance in the same transaction.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
	cache       Cache // optional
}

// NewLedgerUseCase creates a new LedgerUseCase. cache may be nil.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	cache Cache,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
		cache:       cache,
	}
}

// Credit adds amount to the account's wallet.
func (uc *LedgerUseCase) Credit(ctx context.Context, accountID string, amount decimal.Decimal, kind domain.EntryKind, description string) (*domain.LedgerEntry, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := applyCredit(txCtx, tx, uc.accountRepo, uc.entryRepo, uc.idGen, accountID, amount, kind, description)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.invalidateBalance(ctx, accountID)

	return entry, nil
}

// Debit removes amount from the account's wallet. The balance check and the
// balance mutation happen under a row lock, so no concurrent debit can
// observe a stale balance in between.
func (uc *LedgerUseCase) Debit(ctx context.Context, accountID string, amount decimal.Decimal, kind domain.EntryKind, description string) (*domain.LedgerEntry, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := applyDebit(txCtx, tx, uc.accountRepo, uc.entryRepo, uc.idGen, accountID, amount, kind, description)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.invalidateBalance(ctx, accountID)

	return entry, nil
}

// Balance returns the account's cached balance.
func (uc *LedgerUseCase) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, balanceCacheKey(accountID)); err == nil {
			var cached string
			if err := json.Unmarshal(raw, &cached); err == nil {
				if b, err := decimal.NewFromString(cached); err == nil {
					return b, nil
				}
			}
		}
	}

	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(account.Balance.String()); err == nil {
			_ = uc.cache.Set(ctx, balanceCacheKey(accountID), raw, BalanceCacheTTL)
		}
	}

	return account.Balance, nil
}

// ListEntries returns the account's transaction history, newest first.
func (uc *LedgerUseCase) ListEntries(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.entryRepo.ListByAccount(ctx, accountID, limit, offset)
}

// ReconcileResult reports the outcome of recomputing a balance from entries.
type ReconcileResult struct {
	AccountID         string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Drift             decimal.Decimal
	Corrected         bool
	CheckedAt         time.Time
}

// Reconcile recomputes the account balance from the full entry history and
// corrects the cached value if it drifted. The entry sum is the source of
// truth; the cached column is only an optimization.
func (uc *LedgerUseCase) Reconcile(ctx context.Context, accountID string) (*ReconcileResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, accountID)
	if err != nil {
		return nil, err
	}

	calculated, err := uc.entryRepo.SumByAccount(txCtx, accountID)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{
		AccountID:         accountID,
		RecordedBalance:   account.Balance,
		CalculatedBalance: calculated,
		Drift:             account.Balance.Sub(calculated),
		CheckedAt:         time.Now().UTC(),
	}

	if !result.Drift.IsZero() {
		if err := uc.accountRepo.UpdateBalance(txCtx, tx, accountID, calculated, result.CheckedAt); err != nil {
			return nil, err
		}
		result.Corrected = true
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if result.Corrected {
		uc.invalidateBalance(ctx, accountID)
	}

	return result, nil
}

func (uc *LedgerUseCase) invalidateBalance(ctx context.Context, accountID string) {
	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, balanceCacheKey(accountID))
	}
}

func balanceCacheKey(accountID string) string {
	return "balance:" + accountID
}

// applyCredit appends a credit entry and bumps the cached balance inside tx.
// Shared with the charge workflow so a completed top-up credits the wallet in
// the same transaction that flips the charge status.
func applyCredit(
	ctx context.Context,
	tx Transaction,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	accountID string,
	amount decimal.Decimal,
	kind domain.EntryKind,
	description string,
) (*domain.LedgerEntry, error) {
	account, err := accountRepo.GetByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := &domain.LedgerEntry{
		ID:          idGen.Generate(PrefixEntry),
		AccountID:   accountID,
		Amount:      amount,
		Kind:        kind,
		Description: description,
		CreatedAt:   now,
	}

	if err := entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := accountRepo.UpdateBalance(ctx, tx, accountID, account.ApplyCredit(amount), now); err != nil {
		return nil, err
	}

	return entry, nil
}

// applyDebit is the debit counterpart; the insufficient-funds check runs
// under the same row lock as the balance write.
func applyDebit(
	ctx context.Context,
	tx Transaction,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	accountID string,
	amount decimal.Decimal,
	kind domain.EntryKind,
	description string,
) (*domain.LedgerEntry, error) {
	account, err := accountRepo.GetByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	if err := account.ValidateDebit(amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := &domain.LedgerEntry{
		ID:          idGen.Generate(PrefixEntry),
		AccountID:   accountID,
		Amount:      amount.Neg(),
		Kind:        kind,
		Description: description,
		CreatedAt:   now,
	}

	if err := entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := accountRepo.UpdateBalance(ctx, tx, accountID, account.ApplyDebit(amount), now); err != nil {
		return nil, err
	}

	return entry, nil
}
