package repository

import (
	"context"

	"github.com/ashtari/pointledger/internal/domain/model"
)

// UsageDetailRepository persists allocation records. ListByUsageKey returns
// details in creation order; cancellation walks them in that order.
type UsageDetailRepository interface {
	SaveAll(ctx context.Context, details []*model.UsageDetail) error
	ListByUsageKey(ctx context.Context, usageKey string) ([]*model.UsageDetail, error)
	ListByAccumulationKey(ctx context.Context, accumulationKey string) ([]*model.UsageDetail, error)
}
