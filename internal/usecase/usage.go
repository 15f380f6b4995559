package usecase

import (
	"context"
	"time"

	domainErrors "github.com/ashtari/pointledger/internal/domain/errors"
	"github.com/ashtari/pointledger/internal/domain/model"
	"github.com/ashtari/pointledger/internal/domain/repository"
)

// UsageUseCase orchestrates point consumption and its reversal.
type UsageUseCase struct {
	repos             repository.Factory
	keys              repository.KeyGenerator
	events            repository.EventPublisher
	allocator         *Allocator
	defaultExpiration time.Duration
	now               func() time.Time
}

// NewUsageUseCase constructs UsageUseCase.
func NewUsageUseCase(repos repository.Factory, keys repository.KeyGenerator, events repository.EventPublisher, allocator *Allocator, defaultExpiration time.Duration) *UsageUseCase {
	return &UsageUseCase{
		repos:             repos,
		keys:              keys,
		events:            events,
		allocator:         allocator,
		defaultExpiration: defaultExpiration,
		now:               time.Now,
	}
}

// Use consumes amount of the member's points against an order. Candidate
// accumulations are locked, allocated deterministically, drawn down, and
// persisted with one usage detail per touched accumulation, all in a single
// transaction. The Used event is published only after commit.
func (u *UsageUseCase) Use(ctx context.Context, memberID int64, orderNumber string, amount model.Money) (*model.Usage, error) {
	if !amount.IsPositive() {
		return nil, domainErrors.ErrInvalidAmount
	}
	if orderNumber == "" {
		return nil, domainErrors.ErrInvalidOrderNumber
	}

	now := u.now()
	var usage *model.Usage
	err := u.repos.Atomic(ctx, func(r repository.Factory) error {
		// Fail fast before locking anything.
		available, err := r.Accumulations().SumAvailable(ctx, memberID)
		if err != nil {
			return err
		}
		if available < amount {
			return domainErrors.ErrInsufficientPoints
		}

		candidates, err := r.Accumulations().ListAvailableForUpdate(ctx, memberID)
		if err != nil {
			return err
		}
		selected, err := u.allocator.Select(amount, candidates)
		if err != nil {
			return err
		}

		usage = model.NewUsage(u.keys.Generate(), memberID, orderNumber, amount, now)
		details := make([]*model.UsageDetail, 0, len(selected))
		remaining := amount
		for _, acc := range selected {
			slice := min(remaining, acc.AvailableAmount)
			if err := acc.Use(slice); err != nil {
				return err
			}
			details = append(details, model.NewUsageDetail(usage.Key, acc.Key, slice, now))
			remaining -= slice
		}

		if err := r.Usages().Save(ctx, usage); err != nil {
			return err
		}
		if err := r.Accumulations().SaveAll(ctx, selected); err != nil {
			return err
		}
		return r.UsageDetails().SaveAll(ctx, details)
	})
	if err != nil {
		return nil, err
	}

	u.events.Publish(model.LedgerEvent{
		Kind:       model.EventUsed,
		MemberID:   memberID,
		Amount:     amount,
		SubjectKey: usage.Key,
		OccurredAt: now,
	})
	return usage, nil
}

// Cancel reverses part or all of a usage. A nil amount cancels the full
// remainder. Details are walked in creation order; each touched
// accumulation is restored, or re-granted as a fresh accumulation when it
// has expired since the usage.
func (u *UsageUseCase) Cancel(ctx context.Context, usageKey string, amount *model.Money, reason string) (*model.Usage, error) {
	now := u.now()
	var (
		usage        *model.Usage
		cancelAmount model.Money
	)
	err := u.repos.Atomic(ctx, func(r repository.Factory) error {
		found, err := r.Usages().GetByKey(ctx, usageKey)
		if err != nil {
			return err
		}
		usage = found

		cancelAmount = usage.Remaining()
		if amount != nil {
			cancelAmount = *amount
		}
		if !cancelAmount.IsPositive() || cancelAmount > usage.Remaining() {
			return domainErrors.ErrCannotCancelUsage
		}

		details, err := r.UsageDetails().ListByUsageKey(ctx, usageKey)
		if err != nil {
			return err
		}

		// Per-accumulation restoration amounts, keyed and ordered by the
		// detail walk so lock acquisition stays deterministic.
		restore := make(map[string]model.Money)
		var order []string
		var touched []*model.UsageDetail
		left := cancelAmount
		for _, d := range details {
			if left == 0 {
				break
			}
			if d.Remaining() == 0 {
				continue
			}
			slice := min(left, d.Remaining())
			if err := d.Cancel(slice); err != nil {
				return err
			}
			if _, seen := restore[d.AccumulationKey]; !seen {
				order = append(order, d.AccumulationKey)
			}
			restore[d.AccumulationKey] += slice
			touched = append(touched, d)
			left -= slice
		}
		if left != 0 {
			return domainErrors.ErrCannotCancelUsage
		}

		locked, err := r.Accumulations().GetByKeysForUpdate(ctx, order)
		if err != nil {
			return err
		}

		mutated := make([]*model.Accumulation, 0, len(order))
		for _, key := range order {
			acc, ok := locked[key]
			if !ok {
				return domainErrors.ErrNotFound
			}
			slice := restore[key]
			if acc.Status == model.AccumulationStatusExpired || acc.IsExpired(now) {
				// Expired value is not revived in place; it is re-granted
				// as new, auditable value with a fresh expiration window.
				minted := model.NewAccumulation(u.keys.Generate(), acc.MemberID, slice, now.Add(u.defaultExpiration), false, now)
				mutated = append(mutated, minted)
				continue
			}
			if err := acc.Restore(slice); err != nil {
				return err
			}
			mutated = append(mutated, acc)
		}

		if err := usage.Cancel(cancelAmount); err != nil {
			return err
		}

		if err := r.Usages().Save(ctx, usage); err != nil {
			return err
		}
		if err := r.UsageDetails().SaveAll(ctx, touched); err != nil {
			return err
		}
		return r.Accumulations().SaveAll(ctx, mutated)
	})
	if err != nil {
		return nil, err
	}

	u.events.Publish(model.LedgerEvent{
		Kind:       model.EventUsageCancelled,
		MemberID:   usage.MemberID,
		Amount:     cancelAmount,
		SubjectKey: usage.Key,
		Reason:     reason,
		OccurredAt: now,
	})
	return usage, nil
}

// History returns the member's usages, optionally filtered by order number.
func (u *UsageUseCase) History(ctx context.Context, memberID int64, orderNumber string, limit, offset int) ([]model.Usage, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return u.repos.Usages().ListByMember(ctx, memberID, orderNumber, limit, offset)
}
