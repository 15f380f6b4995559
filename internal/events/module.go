package events

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/ashtari/pointledger/internal/config"
	"github.com/ashtari/pointledger/internal/domain/repository"
)

// Module wires the in-process event bus.
var Module = fx.Options(
	fx.Provide(newBus),
	fx.Provide(func(b *Bus) repository.EventPublisher { return b }),
	fx.Invoke(registerLifecycle),
)

type busParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newBus(p busParams) *Bus {
	return NewBus(p.Config.EventBufferSize, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, bus *Bus) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			bus.Close()
			return nil
		},
	})
}
