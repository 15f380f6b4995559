package usecase

import (
	"go.uber.org/fx"

	"github.com/ashtari/pointledger/internal/config"
	"github.com/ashtari/pointledger/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAllocator,
	newAccumulationUseCase,
	newUsageUseCase,
	NewBalanceUseCase,
	NewReconcileUseCase,
)

type useCaseParams struct {
	fx.In

	Repos     repository.Factory
	Keys      repository.KeyGenerator
	Events    repository.EventPublisher
	Allocator *Allocator
	Config    *config.Config
}

func newAccumulationUseCase(p useCaseParams) *AccumulationUseCase {
	return NewAccumulationUseCase(p.Repos, p.Keys, p.Events, p.Config.DefaultExpiration)
}

func newUsageUseCase(p useCaseParams) *UsageUseCase {
	return NewUsageUseCase(p.Repos, p.Keys, p.Events, p.Allocator, p.Config.DefaultExpiration)
}
