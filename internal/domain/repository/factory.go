package repository

import "context"

// Factory describes access to the ledger repositories. Atomic runs fn with
// a factory whose repositories share one transaction; orchestrators use it
// to persist a usage, its details and the mutated accumulations as a unit.
type Factory interface {
	Accumulations() AccumulationRepository
	Usages() UsageRepository
	UsageDetails() UsageDetailRepository
	Balances() BalanceRepository
	Atomic(ctx context.Context, fn func(Factory) error) error
}
