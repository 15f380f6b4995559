package usecase

import (
	"sort"

	domainErrors "github.com/ashtari/pointledger/internal/domain/errors"
	"github.com/ashtari/pointledger/internal/domain/model"
)

// Allocator selects which accumulations satisfy a usage request and in what
// order: manual grants first, then soonest-expiring, a greedy
// use-it-or-lose-it policy that minimizes future expiration waste.
type Allocator struct{}

// NewAllocator constructs the allocation engine.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Select orders the candidates and returns the prefix whose available sum
// covers target, including the entry that crosses the threshold. The caller
// computes the partial slice for that last entry. Candidates are expected
// to be pre-filtered to available, non-expired ACCUMULATED grants.
//
// Ties break on creation time and then key so that repeated runs against
// identical data produce identical selections.
func (a *Allocator) Select(target model.Money, candidates []*model.Accumulation) ([]*model.Accumulation, error) {
	if !target.IsPositive() {
		return nil, domainErrors.ErrInvalidAmount
	}

	sorted := make([]*model.Accumulation, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ManualGrant != sorted[j].ManualGrant {
			return sorted[i].ManualGrant
		}
		if !sorted[i].ExpiresAt.Equal(sorted[j].ExpiresAt) {
			return sorted[i].ExpiresAt.Before(sorted[j].ExpiresAt)
		}
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].Key < sorted[j].Key
	})

	var sum model.Money
	for i, acc := range sorted {
		sum += acc.AvailableAmount
		if sum >= target {
			return sorted[:i+1], nil
		}
	}
	return nil, domainErrors.ErrInsufficientPoints
}
