package usecase

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/ashtari/pointledger/internal/domain/errors"
	"github.com/ashtari/pointledger/internal/domain/model"
	"github.com/ashtari/pointledger/internal/domain/repository"
)

// ReconcileUseCase recomputes the true available balance from the ledger
// and corrects the cache by assignment. It is idempotent and safe to
// re-run at any time.
type ReconcileUseCase struct {
	repos repository.Factory
	now   func() time.Time
}

// NewReconcileUseCase constructs ReconcileUseCase.
func NewReconcileUseCase(repos repository.Factory) *ReconcileUseCase {
	return &ReconcileUseCase{repos: repos, now: time.Now}
}

// Reconcile compares the ledger truth against the cache row for one member.
// Missing row with zero truth is SKIPPED, missing row with value is
// CREATED, equal values MATCHED, anything else CORRECTED by assignment.
func (u *ReconcileUseCase) Reconcile(ctx context.Context, memberID int64) (*model.ReconcileResult, error) {
	result := &model.ReconcileResult{MemberID: memberID}
	err := u.repos.Atomic(ctx, func(r repository.Factory) error {
		actual, err := r.Accumulations().SumAvailable(ctx, memberID)
		if err != nil {
			return err
		}
		result.Actual = actual.Int64()

		balance, err := r.Balances().GetForUpdate(ctx, memberID)
		if err != nil {
			if !errors.Is(err, domainErrors.ErrNotFound) {
				return err
			}
			if result.Actual == 0 {
				result.Status = model.ReconcileStatusSkipped
				return nil
			}
			balance = model.NewMemberPointBalance(memberID)
			balance.AvailableBalance = result.Actual
			balance.Version++
			balance.UpdatedAt = u.now()
			result.Status = model.ReconcileStatusCreated
			result.Diff = result.Actual
			return r.Balances().Save(ctx, balance)
		}

		result.Cached = balance.AvailableBalance
		if balance.AvailableBalance == result.Actual {
			result.Status = model.ReconcileStatusMatched
			return nil
		}

		result.Diff = result.Actual - balance.AvailableBalance
		balance.AvailableBalance = result.Actual
		balance.Version++
		balance.UpdatedAt = u.now()
		result.Status = model.ReconcileStatusCorrected
		return r.Balances().Save(ctx, balance)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReconcileAll runs per-member reconciliation over every known cache row
// and returns aggregate counts by status.
func (u *ReconcileUseCase) ReconcileAll(ctx context.Context) (*model.ReconcileSummary, error) {
	memberIDs, err := u.repos.Balances().ListMemberIDs(ctx)
	if err != nil {
		return nil, err
	}

	summary := &model.ReconcileSummary{}
	for _, memberID := range memberIDs {
		result, err := u.Reconcile(ctx, memberID)
		if err != nil {
			return nil, err
		}
		switch result.Status {
		case model.ReconcileStatusMatched:
			summary.Matched++
		case model.ReconcileStatusCorrected:
			summary.Corrected++
		case model.ReconcileStatusCreated:
			summary.Created++
		case model.ReconcileStatusSkipped:
			summary.Skipped++
		}
	}
	return summary, nil
}
