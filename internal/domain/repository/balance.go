package repository

import (
	"context"

	"github.com/ashtari/pointledger/internal/domain/model"
)

// BalanceRepository persists the per-member cache rows. GetForUpdate locks
// the row and must run inside Atomic; the cache transaction is always
// separate from the ledger transaction that produced the change.
type BalanceRepository interface {
	Get(ctx context.Context, memberID int64) (*model.MemberPointBalance, error)
	GetForUpdate(ctx context.Context, memberID int64) (*model.MemberPointBalance, error)
	Save(ctx context.Context, balance *model.MemberPointBalance) error
	ListMemberIDs(ctx context.Context) ([]int64, error)
}
