package app

import (
	"context"
	"time"

	"github.com/ashtari/pointledger/internal/domain/model"
	"github.com/ashtari/pointledger/internal/usecase"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// LedgerFacade is the single entry point into the ledger for the HTTP layer
// and the cache maintenance worker. It translates raw integer amounts into
// domain money before delegating to the use cases.
type LedgerFacade struct {
	accumulations *usecase.AccumulationUseCase
	usages        *usecase.UsageUseCase
	balances      *usecase.BalanceUseCase
	reconciler    *usecase.ReconcileUseCase
	health        HealthChecker
}

// NewLedgerFacade constructs LedgerFacade.
func NewLedgerFacade(
	accumulations *usecase.AccumulationUseCase,
	usages *usecase.UsageUseCase,
	balances *usecase.BalanceUseCase,
	reconciler *usecase.ReconcileUseCase,
	health HealthChecker,
) *LedgerFacade {
	return &LedgerFacade{
		accumulations: accumulations,
		usages:        usages,
		balances:      balances,
		reconciler:    reconciler,
		health:        health,
	}
}

// Accumulate records a new point grant for a member.
func (f *LedgerFacade) Accumulate(ctx context.Context, memberID, amount int64, expiresAt time.Time, manual bool) (*model.Accumulation, error) {
	money, err := model.NewMoney(amount)
	if err != nil {
		return nil, err
	}
	return f.accumulations.Accumulate(ctx, memberID, money, expiresAt, manual)
}

// CancelAccumulation voids an untouched grant.
func (f *LedgerFacade) CancelAccumulation(ctx context.Context, key string) (*model.Accumulation, error) {
	return f.accumulations.Cancel(ctx, key)
}

// ExpireAccumulation forfeits the remaining amount of a grant.
func (f *LedgerFacade) ExpireAccumulation(ctx context.Context, key string) (*model.Accumulation, error) {
	return f.accumulations.MarkExpired(ctx, key)
}

// Use consumes points from a member's active grants.
func (f *LedgerFacade) Use(ctx context.Context, memberID int64, orderNumber string, amount int64) (*model.Usage, error) {
	money, err := model.NewMoney(amount)
	if err != nil {
		return nil, err
	}
	return f.usages.Use(ctx, memberID, orderNumber, money)
}

// CancelUsage reverses part or all of a usage. A nil amount cancels the
// remaining active portion.
func (f *LedgerFacade) CancelUsage(ctx context.Context, key string, amount *int64, reason string) (*model.Usage, error) {
	var money *model.Money
	if amount != nil {
		m, err := model.NewMoney(*amount)
		if err != nil {
			return nil, err
		}
		money = &m
	}
	return f.usages.Cancel(ctx, key, money, reason)
}

// Balance returns the cached point balance of a member.
func (f *LedgerFacade) Balance(ctx context.Context, memberID int64) (*model.MemberPointBalance, error) {
	return f.balances.Balance(ctx, memberID)
}

// UsageHistory lists a member's consumption transactions.
func (f *LedgerFacade) UsageHistory(ctx context.Context, memberID int64, orderNumber string, limit, offset int) ([]model.Usage, error) {
	return f.usages.History(ctx, memberID, orderNumber, limit, offset)
}

// ApplyBalanceDelta folds one ledger event into the balance cache.
func (f *LedgerFacade) ApplyBalanceDelta(ctx context.Context, event model.LedgerEvent) error {
	return f.balances.ApplyDelta(ctx, event)
}

// ReconcileMember recomputes one member's cached balance from the ledger.
func (f *LedgerFacade) ReconcileMember(ctx context.Context, memberID int64) (*model.ReconcileResult, error) {
	return f.reconciler.Reconcile(ctx, memberID)
}

// ReconcileAll recomputes the cached balance of every known member.
func (f *LedgerFacade) ReconcileAll(ctx context.Context) (*model.ReconcileSummary, error) {
	return f.reconciler.ReconcileAll(ctx)
}

// HealthCheck pings the backing store.
func (f *LedgerFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
