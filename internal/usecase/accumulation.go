package usecase

import (
	"context"
	"time"

	domainErrors "github.com/ashtari/pointledger/internal/domain/errors"
	"github.com/ashtari/pointledger/internal/domain/model"
	"github.com/ashtari/pointledger/internal/domain/repository"
)

// AccumulationUseCase manages the grant side of the ledger: issuing,
// cancelling and expiring accumulations.
type AccumulationUseCase struct {
	repos             repository.Factory
	keys              repository.KeyGenerator
	events            repository.EventPublisher
	defaultExpiration time.Duration
	now               func() time.Time
}

// NewAccumulationUseCase constructs AccumulationUseCase.
func NewAccumulationUseCase(repos repository.Factory, keys repository.KeyGenerator, events repository.EventPublisher, defaultExpiration time.Duration) *AccumulationUseCase {
	return &AccumulationUseCase{
		repos:             repos,
		keys:              keys,
		events:            events,
		defaultExpiration: defaultExpiration,
		now:               time.Now,
	}
}

// Accumulate grants points to a member. A zero expiresAt applies the
// configured default expiration window.
func (u *AccumulationUseCase) Accumulate(ctx context.Context, memberID int64, amount model.Money, expiresAt time.Time, manual bool) (*model.Accumulation, error) {
	if !amount.IsPositive() {
		return nil, domainErrors.ErrInvalidAmount
	}

	now := u.now()
	if expiresAt.IsZero() {
		expiresAt = now.Add(u.defaultExpiration)
	}
	if expiresAt.Before(now) {
		return nil, domainErrors.ErrPointExpired
	}

	acc := model.NewAccumulation(u.keys.Generate(), memberID, amount, expiresAt, manual, now)
	if err := u.repos.Accumulations().Save(ctx, acc); err != nil {
		return nil, err
	}

	u.events.Publish(model.LedgerEvent{
		Kind:       model.EventAccumulated,
		MemberID:   memberID,
		Amount:     amount,
		SubjectKey: acc.Key,
		OccurredAt: now,
	})
	return acc, nil
}

// Cancel voids an untouched grant and removes its value from circulation.
func (u *AccumulationUseCase) Cancel(ctx context.Context, key string) (*model.Accumulation, error) {
	var acc *model.Accumulation
	err := u.repos.Atomic(ctx, func(r repository.Factory) error {
		locked, err := r.Accumulations().GetByKeysForUpdate(ctx, []string{key})
		if err != nil {
			return err
		}
		found, ok := locked[key]
		if !ok {
			return domainErrors.ErrNotFound
		}
		if err := found.Cancel(); err != nil {
			return err
		}
		acc = found
		return r.Accumulations().Save(ctx, acc)
	})
	if err != nil {
		return nil, err
	}

	u.events.Publish(model.LedgerEvent{
		Kind:       model.EventAccumulationCancelled,
		MemberID:   acc.MemberID,
		Amount:     acc.Amount,
		SubjectKey: acc.Key,
		OccurredAt: u.now(),
	})
	return acc, nil
}

// MarkExpired applies the explicit expiration marking driven by an external
// housekeeping scheduler. The forfeited amount travels with the event so
// the cache can account the loss.
func (u *AccumulationUseCase) MarkExpired(ctx context.Context, key string) (*model.Accumulation, error) {
	var (
		acc       *model.Accumulation
		forfeited model.Money
	)
	err := u.repos.Atomic(ctx, func(r repository.Factory) error {
		locked, err := r.Accumulations().GetByKeysForUpdate(ctx, []string{key})
		if err != nil {
			return err
		}
		found, ok := locked[key]
		if !ok {
			return domainErrors.ErrNotFound
		}
		forfeited, err = found.Expire()
		if err != nil {
			return err
		}
		acc = found
		return r.Accumulations().Save(ctx, acc)
	})
	if err != nil {
		return nil, err
	}

	u.events.Publish(model.LedgerEvent{
		Kind:       model.EventExpired,
		MemberID:   acc.MemberID,
		Amount:     forfeited,
		SubjectKey: acc.Key,
		OccurredAt: u.now(),
	})
	return acc, nil
}
