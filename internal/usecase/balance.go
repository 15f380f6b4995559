package usecase

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/ashtari/pointledger/internal/domain/errors"
	"github.com/ashtari/pointledger/internal/domain/model"
	"github.com/ashtari/pointledger/internal/domain/repository"
)

// BalanceUseCase reads the balance cache and applies ledger-change deltas
// to it. ApplyDelta runs in its own transaction, separate from the ledger
// write it shadows.
type BalanceUseCase struct {
	repos repository.Factory
	now   func() time.Time
}

// NewBalanceUseCase constructs BalanceUseCase.
func NewBalanceUseCase(repos repository.Factory) *BalanceUseCase {
	return &BalanceUseCase{repos: repos, now: time.Now}
}

// Balance returns the cached aggregate, or an empty one when the member has
// no cache row yet.
func (u *BalanceUseCase) Balance(ctx context.Context, memberID int64) (*model.MemberPointBalance, error) {
	balance, err := u.repos.Balances().Get(ctx, memberID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return model.NewMemberPointBalance(memberID), nil
		}
		return nil, err
	}
	return balance, nil
}

// ApplyDelta mutates the cache row for one ledger event under a row lock,
// creating the row on first touch. Deltas are applied as-is even when they
// drive the balance negative; reconciliation owns correctness.
func (u *BalanceUseCase) ApplyDelta(ctx context.Context, event model.LedgerEvent) error {
	return u.repos.Atomic(ctx, func(r repository.Factory) error {
		balance, err := r.Balances().GetForUpdate(ctx, event.MemberID)
		if err != nil {
			if !errors.Is(err, domainErrors.ErrNotFound) {
				return err
			}
			balance = model.NewMemberPointBalance(event.MemberID)
		}
		balance.Apply(event.Kind, event.Amount, u.now())
		return r.Balances().Save(ctx, balance)
	})
}
