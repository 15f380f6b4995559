package repository

import (
	"context"

	"github.com/ashtari/pointledger/internal/domain/model"
)

// AccumulationRepository persists point grants. The ForUpdate variants must
// be called inside Atomic; they take row-level write locks so that
// concurrent usages cannot double-allocate the same available amount.
type AccumulationRepository interface {
	Save(ctx context.Context, acc *model.Accumulation) error
	SaveAll(ctx context.Context, accs []*model.Accumulation) error
	GetByKey(ctx context.Context, key string) (*model.Accumulation, error)
	ListAvailable(ctx context.Context, memberID int64) ([]*model.Accumulation, error)
	ListAvailableForUpdate(ctx context.Context, memberID int64) ([]*model.Accumulation, error)
	GetByKeysForUpdate(ctx context.Context, keys []string) (map[string]*model.Accumulation, error)
	SumAvailable(ctx context.Context, memberID int64) (model.Money, error)
}
