package di

import (
	"go.uber.org/fx"

	"github.com/ashtari/pointledger/internal/app"
	"github.com/ashtari/pointledger/internal/config"
	"github.com/ashtari/pointledger/internal/events"
	"github.com/ashtari/pointledger/internal/logger"
	"github.com/ashtari/pointledger/internal/pkg/auth"
	"github.com/ashtari/pointledger/internal/pkg/keygen"
	"github.com/ashtari/pointledger/internal/server/http/handlers"
	"github.com/ashtari/pointledger/internal/server/http/router"
	"github.com/ashtari/pointledger/internal/storage/postgres"
	"github.com/ashtari/pointledger/internal/usecase"
)

// Module composes the full application graph.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		keygen.Module,
		events.Module,
		postgres.Module,
		usecase.Module,
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		fx.Provide(func(f *app.LedgerFacade) handlers.LedgerFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
