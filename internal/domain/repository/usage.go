package repository

import (
	"context"

	"github.com/ashtari/pointledger/internal/domain/model"
)

// UsageRepository persists consumption transactions.
type UsageRepository interface {
	Save(ctx context.Context, usage *model.Usage) error
	GetByKey(ctx context.Context, key string) (*model.Usage, error)
	ListByMember(ctx context.Context, memberID int64, orderNumber string, limit, offset int) ([]model.Usage, error)
}
