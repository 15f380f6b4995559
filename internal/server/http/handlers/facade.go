package handlers

import (
	"context"
	"time"

	"github.com/ashtari/pointledger/internal/domain/model"
)

// PointFacade encapsulates grant and consumption operations exposed via HTTP.
type PointFacade interface {
	Accumulate(ctx context.Context, memberID, amount int64, expiresAt time.Time, manual bool) (*model.Accumulation, error)
	CancelAccumulation(ctx context.Context, key string) (*model.Accumulation, error)
	ExpireAccumulation(ctx context.Context, key string) (*model.Accumulation, error)
	Use(ctx context.Context, memberID int64, orderNumber string, amount int64) (*model.Usage, error)
	CancelUsage(ctx context.Context, key string, amount *int64, reason string) (*model.Usage, error)
}

// BalanceFacade provides read access to the balance cache and usage history.
type BalanceFacade interface {
	Balance(ctx context.Context, memberID int64) (*model.MemberPointBalance, error)
	UsageHistory(ctx context.Context, memberID int64, orderNumber string, limit, offset int) ([]model.Usage, error)
}

// ReconcileFacade exposes cache reconciliation operations.
type ReconcileFacade interface {
	ReconcileMember(ctx context.Context, memberID int64) (*model.ReconcileResult, error)
	ReconcileAll(ctx context.Context) (*model.ReconcileSummary, error)
}

// HealthFacade reports storage availability.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// LedgerFacade aggregates the full set of operations used across handlers.
type LedgerFacade interface {
	PointFacade
	BalanceFacade
	ReconcileFacade
	HealthFacade
}
