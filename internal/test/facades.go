package test

import (
	"context"
	"time"

	"github.com/ashtari/pointledger/internal/domain/model"
)

// PointFacadeStub provides controllable behaviour for grant and usage endpoints.
type PointFacadeStub struct {
	AccumulateFn         func(context.Context, int64, int64, time.Time, bool) (*model.Accumulation, error)
	CancelAccumulationFn func(context.Context, string) (*model.Accumulation, error)
	ExpireAccumulationFn func(context.Context, string) (*model.Accumulation, error)
	UseFn                func(context.Context, int64, string, int64) (*model.Usage, error)
	CancelUsageFn        func(context.Context, string, *int64, string) (*model.Usage, error)
}

func defaultAccumulation(memberID, amount int64) *model.Accumulation {
	return &model.Accumulation{
		Key:             "acc-1",
		MemberID:        memberID,
		Amount:          model.Money(amount),
		AvailableAmount: model.Money(amount),
		Status:          model.AccumulationStatusAccumulated,
		ExpiresAt:       time.Unix(0, 0).Add(24 * time.Hour),
		CreatedAt:       time.Unix(0, 0),
	}
}

// Accumulate delegates to provided function or returns a default grant.
func (s PointFacadeStub) Accumulate(ctx context.Context, memberID, amount int64, expiresAt time.Time, manual bool) (*model.Accumulation, error) {
	if s.AccumulateFn != nil {
		return s.AccumulateFn(ctx, memberID, amount, expiresAt, manual)
	}
	return defaultAccumulation(memberID, amount), nil
}

// CancelAccumulation delegates to provided function or returns a cancelled grant.
func (s PointFacadeStub) CancelAccumulation(ctx context.Context, key string) (*model.Accumulation, error) {
	if s.CancelAccumulationFn != nil {
		return s.CancelAccumulationFn(ctx, key)
	}
	acc := defaultAccumulation(1, 100)
	acc.Key = key
	acc.Status = model.AccumulationStatusCancelled
	acc.AvailableAmount = 0
	return acc, nil
}

// ExpireAccumulation delegates to provided function or returns an expired grant.
func (s PointFacadeStub) ExpireAccumulation(ctx context.Context, key string) (*model.Accumulation, error) {
	if s.ExpireAccumulationFn != nil {
		return s.ExpireAccumulationFn(ctx, key)
	}
	acc := defaultAccumulation(1, 100)
	acc.Key = key
	acc.Status = model.AccumulationStatusExpired
	acc.AvailableAmount = 0
	return acc, nil
}

// Use delegates to provided function or returns a default usage.
func (s PointFacadeStub) Use(ctx context.Context, memberID int64, orderNumber string, amount int64) (*model.Usage, error) {
	if s.UseFn != nil {
		return s.UseFn(ctx, memberID, orderNumber, amount)
	}
	return &model.Usage{
		Key:         "usage-1",
		MemberID:    memberID,
		OrderNumber: orderNumber,
		TotalAmount: model.Money(amount),
		Status:      model.UsageStatusUsed,
		CreatedAt:   time.Unix(0, 0),
	}, nil
}

// CancelUsage delegates to provided function or returns a fully cancelled usage.
func (s PointFacadeStub) CancelUsage(ctx context.Context, key string, amount *int64, reason string) (*model.Usage, error) {
	if s.CancelUsageFn != nil {
		return s.CancelUsageFn(ctx, key, amount, reason)
	}
	return &model.Usage{
		Key:             key,
		MemberID:        1,
		TotalAmount:     100,
		CancelledAmount: 100,
		Status:          model.UsageStatusFullyCancelled,
		CreatedAt:       time.Unix(0, 0),
	}, nil
}

// BalanceFacadeStub simulates balance cache reads.
type BalanceFacadeStub struct {
	BalanceFn func(context.Context, int64) (*model.MemberPointBalance, error)
	HistoryFn func(context.Context, int64, string, int, int) ([]model.Usage, error)
}

// Balance returns stored aggregate or default data.
func (s BalanceFacadeStub) Balance(ctx context.Context, memberID int64) (*model.MemberPointBalance, error) {
	if s.BalanceFn != nil {
		return s.BalanceFn(ctx, memberID)
	}
	return &model.MemberPointBalance{MemberID: memberID, AvailableBalance: 500, TotalAccumulated: 800, TotalUsed: 300}, nil
}

// UsageHistory returns preconfigured history.
func (s BalanceFacadeStub) UsageHistory(ctx context.Context, memberID int64, orderNumber string, limit, offset int) ([]model.Usage, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, memberID, orderNumber, limit, offset)
	}
	return []model.Usage{{Key: "usage-1", MemberID: memberID, TotalAmount: 100, Status: model.UsageStatusUsed}}, nil
}

// ReconcileFacadeStub simulates reconciliation operations.
type ReconcileFacadeStub struct {
	MemberFn func(context.Context, int64) (*model.ReconcileResult, error)
	AllFn    func(context.Context) (*model.ReconcileSummary, error)
}

// ReconcileMember delegates to provided function or reports a match.
func (s ReconcileFacadeStub) ReconcileMember(ctx context.Context, memberID int64) (*model.ReconcileResult, error) {
	if s.MemberFn != nil {
		return s.MemberFn(ctx, memberID)
	}
	return &model.ReconcileResult{MemberID: memberID, Status: model.ReconcileStatusMatched}, nil
}

// ReconcileAll delegates to provided function or reports an empty run.
func (s ReconcileFacadeStub) ReconcileAll(ctx context.Context) (*model.ReconcileSummary, error) {
	if s.AllFn != nil {
		return s.AllFn(ctx)
	}
	return &model.ReconcileSummary{}, nil
}

// HealthFacadeStub simulates storage health probes.
type HealthFacadeStub struct {
	Err error
}

// HealthCheck returns the configured error.
func (s HealthFacadeStub) HealthCheck(context.Context) error {
	return s.Err
}

// LedgerFacadeStub aggregates all facade stubs for router level tests.
type LedgerFacadeStub struct {
	PointFacadeStub
	BalanceFacadeStub
	ReconcileFacadeStub
	HealthFacadeStub
}
