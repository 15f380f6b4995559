package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/ashtari/pointledger/internal/app"
	"github.com/ashtari/pointledger/internal/config"
	"github.com/ashtari/pointledger/internal/domain/repository"
	"github.com/ashtari/pointledger/internal/storage/postgres"
	"github.com/ashtari/pointledger/internal/test"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:        ":0",
		DatabaseURI:       "postgres://stub",
		AdminTokenHash:    "hash",
		DefaultExpiration: time.Hour,
		EventBufferSize:   8,
		WorkerPoolSize:    1,
		CacheRetries:      1,
		CacheRetryBackoff: time.Millisecond,
		ShutdownTimeout:   time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	store := test.NewLedgerStore()

	var facade *app.LedgerFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Provide(func() context.Context { return context.Background() }),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.Factory(store)),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected ledger facade instance")
	}
}
