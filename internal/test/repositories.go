package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/ashtari/pointledger/internal/domain/errors"
	"github.com/ashtari/pointledger/internal/domain/model"
	"github.com/ashtari/pointledger/internal/domain/repository"
)

// LedgerStore is an in-memory repository.Factory for tests. Reads hand out
// copies and saves write copies back, so a failed orchestration leaves the
// stored entities untouched just like a rolled-back transaction would.
type LedgerStore struct {
	mu sync.Mutex

	accumulations map[string]*model.Accumulation
	accOrder      []string
	usages        map[string]*model.Usage
	usageOrder    []string
	details       []*model.UsageDetail
	balances      map[int64]*model.MemberPointBalance
	balanceOrder  []int64

	// Clock drives date-based expiry checks in SumAvailable and listings.
	Clock func() time.Time

	// BalanceSaveErr, when set, fails every balance save. Used to exercise
	// the retry-then-reconcile path.
	BalanceSaveErr error
}

// NewLedgerStore constructs an empty store.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		accumulations: make(map[string]*model.Accumulation),
		usages:        make(map[string]*model.Usage),
		balances:      make(map[int64]*model.MemberPointBalance),
		Clock:         time.Now,
	}
}

func (s *LedgerStore) Accumulations() repository.AccumulationRepository { return &accStub{s} }
func (s *LedgerStore) Usages() repository.UsageRepository              { return &usageStub{s} }
func (s *LedgerStore) UsageDetails() repository.UsageDetailRepository  { return &detailStub{s} }
func (s *LedgerStore) Balances() repository.BalanceRepository          { return &balanceStub{s} }

// Atomic runs fn against the store itself; the copy-on-read discipline
// stands in for transaction isolation.
func (s *LedgerStore) Atomic(ctx context.Context, fn func(repository.Factory) error) error {
	return fn(s)
}

// Accumulation returns a copy of the stored grant, or nil.
func (s *LedgerStore) Accumulation(key string) *model.Accumulation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.accumulations[key]; ok {
		clone := *acc
		return &clone
	}
	return nil
}

// AccumulationKeys returns grant keys in insertion order.
func (s *LedgerStore) AccumulationKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.accOrder...)
}

// Details returns copies of all stored usage details in creation order.
func (s *LedgerStore) Details() []*model.UsageDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.UsageDetail, 0, len(s.details))
	for _, d := range s.details {
		clone := *d
		out = append(out, &clone)
	}
	return out
}

// SetBalance seeds a cache row directly, bypassing the event pipeline.
func (s *LedgerStore) SetBalance(b *model.MemberPointBalance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.balances[b.MemberID]; !ok {
		s.balanceOrder = append(s.balanceOrder, b.MemberID)
	}
	clone := *b
	s.balances[b.MemberID] = &clone
}

type accStub struct{ s *LedgerStore }

func (r *accStub) Save(ctx context.Context, acc *model.Accumulation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accumulations[acc.Key]; !ok {
		r.s.accOrder = append(r.s.accOrder, acc.Key)
	}
	clone := *acc
	r.s.accumulations[acc.Key] = &clone
	return nil
}

func (r *accStub) SaveAll(ctx context.Context, accs []*model.Accumulation) error {
	for _, acc := range accs {
		if err := r.Save(ctx, acc); err != nil {
			return err
		}
	}
	return nil
}

func (r *accStub) GetByKey(ctx context.Context, key string) (*model.Accumulation, error) {
	if acc := r.s.Accumulation(key); acc != nil {
		return acc, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (r *accStub) ListAvailable(ctx context.Context, memberID int64) ([]*model.Accumulation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.Clock()
	var out []*model.Accumulation
	for _, key := range r.s.accOrder {
		acc := r.s.accumulations[key]
		if acc.MemberID != memberID || acc.Status != model.AccumulationStatusAccumulated {
			continue
		}
		if !acc.AvailableAmount.IsPositive() || acc.IsExpired(now) {
			continue
		}
		clone := *acc
		out = append(out, &clone)
	}
	return out, nil
}

func (r *accStub) ListAvailableForUpdate(ctx context.Context, memberID int64) ([]*model.Accumulation, error) {
	return r.ListAvailable(ctx, memberID)
}

func (r *accStub) GetByKeysForUpdate(ctx context.Context, keys []string) (map[string]*model.Accumulation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]*model.Accumulation, len(keys))
	for _, key := range keys {
		if acc, ok := r.s.accumulations[key]; ok {
			clone := *acc
			out[key] = &clone
		}
	}
	return out, nil
}

func (r *accStub) SumAvailable(ctx context.Context, memberID int64) (model.Money, error) {
	accs, err := r.ListAvailable(ctx, memberID)
	if err != nil {
		return 0, err
	}
	var sum model.Money
	for _, acc := range accs {
		sum += acc.AvailableAmount
	}
	return sum, nil
}

type usageStub struct{ s *LedgerStore }

func (r *usageStub) Save(ctx context.Context, usage *model.Usage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.usages[usage.Key]; !ok {
		r.s.usageOrder = append(r.s.usageOrder, usage.Key)
	}
	clone := *usage
	r.s.usages[usage.Key] = &clone
	return nil
}

func (r *usageStub) GetByKey(ctx context.Context, key string) (*model.Usage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if usage, ok := r.s.usages[key]; ok {
		clone := *usage
		return &clone, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (r *usageStub) ListByMember(ctx context.Context, memberID int64, orderNumber string, limit, offset int) ([]model.Usage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []model.Usage
	for i := len(r.s.usageOrder) - 1; i >= 0; i-- {
		usage := r.s.usages[r.s.usageOrder[i]]
		if usage.MemberID != memberID {
			continue
		}
		if orderNumber != "" && usage.OrderNumber != orderNumber {
			continue
		}
		all = append(all, *usage)
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

type detailStub struct{ s *LedgerStore }

func (r *detailStub) SaveAll(ctx context.Context, details []*model.UsageDetail) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range details {
		clone := *d
		replaced := false
		for i, existing := range r.s.details {
			if existing.UsageKey == d.UsageKey && existing.AccumulationKey == d.AccumulationKey {
				r.s.details[i] = &clone
				replaced = true
				break
			}
		}
		if !replaced {
			r.s.details = append(r.s.details, &clone)
		}
	}
	return nil
}

func (r *detailStub) ListByUsageKey(ctx context.Context, usageKey string) ([]*model.UsageDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.UsageDetail
	for _, d := range r.s.details {
		if d.UsageKey == usageKey {
			clone := *d
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *detailStub) ListByAccumulationKey(ctx context.Context, accumulationKey string) ([]*model.UsageDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.UsageDetail
	for _, d := range r.s.details {
		if d.AccumulationKey == accumulationKey {
			clone := *d
			out = append(out, &clone)
		}
	}
	return out, nil
}

type balanceStub struct{ s *LedgerStore }

func (r *balanceStub) Get(ctx context.Context, memberID int64) (*model.MemberPointBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.balances[memberID]; ok {
		clone := *b
		return &clone, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (r *balanceStub) GetForUpdate(ctx context.Context, memberID int64) (*model.MemberPointBalance, error) {
	return r.Get(ctx, memberID)
}

func (r *balanceStub) Save(ctx context.Context, balance *model.MemberPointBalance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.BalanceSaveErr != nil {
		return r.s.BalanceSaveErr
	}
	if _, ok := r.s.balances[balance.MemberID]; !ok {
		r.s.balanceOrder = append(r.s.balanceOrder, balance.MemberID)
	}
	clone := *balance
	r.s.balances[balance.MemberID] = &clone
	return nil
}

func (r *balanceStub) ListMemberIDs(ctx context.Context) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]int64(nil), r.s.balanceOrder...), nil
}
