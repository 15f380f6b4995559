package app

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/ashtari/pointledger/internal/domain/errors"
	"github.com/ashtari/pointledger/internal/domain/model"
	testhelpers "github.com/ashtari/pointledger/internal/test"
	"github.com/ashtari/pointledger/internal/usecase"
)

type healthStub struct {
	err error
}

func (h healthStub) HealthCheck(context.Context) error { return h.err }

func newFacade(health error) (*LedgerFacade, *testhelpers.LedgerStore, *testhelpers.EventRecorder) {
	store := testhelpers.NewLedgerStore()
	keys := testhelpers.NewSequenceKeys("key")
	events := &testhelpers.EventRecorder{}
	window := 30 * 24 * time.Hour

	allocator := usecase.NewAllocator()
	accumulations := usecase.NewAccumulationUseCase(store, keys, events, window)
	usages := usecase.NewUsageUseCase(store, keys, events, allocator, window)
	balances := usecase.NewBalanceUseCase(store)
	reconciler := usecase.NewReconcileUseCase(store)

	facade := NewLedgerFacade(accumulations, usages, balances, reconciler, healthStub{err: health})
	return facade, store, events
}

func TestLedgerFacadeGrantAndUse(t *testing.T) {
	facade, store, events := newFacade(nil)
	ctx := context.Background()

	acc, err := facade.Accumulate(ctx, 1, 1000, time.Time{}, false)
	if err != nil {
		t.Fatalf("accumulate returned error: %v", err)
	}
	if acc.Amount != 1000 || acc.AvailableAmount != 1000 {
		t.Fatalf("unexpected grant: %+v", acc)
	}

	usage, err := facade.Use(ctx, 1, "order-1", 400)
	if err != nil {
		t.Fatalf("use returned error: %v", err)
	}
	if usage.TotalAmount != 400 {
		t.Fatalf("unexpected usage total: %d", usage.TotalAmount)
	}

	stored := store.Accumulation(acc.Key)
	if stored.AvailableAmount != 600 {
		t.Fatalf("expected 600 available, got %d", stored.AvailableAmount)
	}
	if events.Last().Kind != model.EventUsed {
		t.Fatalf("expected used event, got %s", events.Last().Kind)
	}
}

func TestLedgerFacadeRejectsNegativeAmounts(t *testing.T) {
	facade, _, _ := newFacade(nil)
	ctx := context.Background()

	if _, err := facade.Accumulate(ctx, 1, -5, time.Time{}, false); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := facade.Use(ctx, 1, "order-1", -5); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}

	negative := int64(-5)
	if _, err := facade.CancelUsage(ctx, "usage-1", &negative, ""); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
}

func TestLedgerFacadeCancelUsageRemainder(t *testing.T) {
	facade, store, _ := newFacade(nil)
	ctx := context.Background()

	if _, err := facade.Accumulate(ctx, 1, 1000, time.Time{}, false); err != nil {
		t.Fatalf("accumulate returned error: %v", err)
	}
	usage, err := facade.Use(ctx, 1, "order-1", 700)
	if err != nil {
		t.Fatalf("use returned error: %v", err)
	}

	cancelled, err := facade.CancelUsage(ctx, usage.Key, nil, "full return")
	if err != nil {
		t.Fatalf("cancel usage returned error: %v", err)
	}
	if cancelled.Status != model.UsageStatusFullyCancelled {
		t.Fatalf("expected fully cancelled, got %s", cancelled.Status)
	}

	keys := store.AccumulationKeys()
	if len(keys) != 1 {
		t.Fatalf("expected one accumulation, got %d", len(keys))
	}
	if got := store.Accumulation(keys[0]).AvailableAmount; got != 1000 {
		t.Fatalf("expected restored 1000, got %d", got)
	}
}

func TestLedgerFacadeBalanceAndReconcile(t *testing.T) {
	facade, _, _ := newFacade(nil)
	ctx := context.Background()

	if _, err := facade.Accumulate(ctx, 9, 250, time.Time{}, true); err != nil {
		t.Fatalf("accumulate returned error: %v", err)
	}

	balance, err := facade.Balance(ctx, 9)
	if err != nil {
		t.Fatalf("balance returned error: %v", err)
	}
	if balance.AvailableBalance != 0 {
		t.Fatalf("expected empty cache before maintenance, got %d", balance.AvailableBalance)
	}

	result, err := facade.ReconcileMember(ctx, 9)
	if err != nil {
		t.Fatalf("reconcile returned error: %v", err)
	}
	if result.Status != model.ReconcileStatusCreated || result.Actual != 250 {
		t.Fatalf("unexpected reconcile result: %+v", result)
	}

	balance, err = facade.Balance(ctx, 9)
	if err != nil {
		t.Fatalf("balance returned error: %v", err)
	}
	if balance.AvailableBalance != 250 {
		t.Fatalf("expected 250 after reconcile, got %d", balance.AvailableBalance)
	}
}

func TestLedgerFacadeApplyBalanceDelta(t *testing.T) {
	facade, _, _ := newFacade(nil)
	ctx := context.Background()

	event := model.LedgerEvent{Kind: model.EventAccumulated, MemberID: 4, Amount: 120, OccurredAt: time.Unix(0, 0)}
	if err := facade.ApplyBalanceDelta(ctx, event); err != nil {
		t.Fatalf("apply delta returned error: %v", err)
	}

	balance, err := facade.Balance(ctx, 4)
	if err != nil {
		t.Fatalf("balance returned error: %v", err)
	}
	if balance.AvailableBalance != 120 || balance.TotalAccumulated != 120 {
		t.Fatalf("unexpected balance: %+v", balance)
	}
}

func TestLedgerFacadeUsageHistory(t *testing.T) {
	facade, _, _ := newFacade(nil)
	ctx := context.Background()

	if _, err := facade.Accumulate(ctx, 2, 500, time.Time{}, false); err != nil {
		t.Fatalf("accumulate returned error: %v", err)
	}
	if _, err := facade.Use(ctx, 2, "order-1", 100); err != nil {
		t.Fatalf("use returned error: %v", err)
	}
	if _, err := facade.Use(ctx, 2, "order-2", 50); err != nil {
		t.Fatalf("use returned error: %v", err)
	}

	history, err := facade.UsageHistory(ctx, 2, "", 0, 0)
	if err != nil {
		t.Fatalf("history returned error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected two usages, got %d", len(history))
	}

	filtered, err := facade.UsageHistory(ctx, 2, "order-2", 0, 0)
	if err != nil {
		t.Fatalf("history returned error: %v", err)
	}
	if len(filtered) != 1 || filtered[0].OrderNumber != "order-2" {
		t.Fatalf("unexpected filtered history: %+v", filtered)
	}
}

func TestLedgerFacadeHealthCheck(t *testing.T) {
	facade, _, _ := newFacade(nil)
	if err := facade.HealthCheck(context.Background()); err != nil {
		t.Fatalf("health check returned error: %v", err)
	}

	broken, _, _ := newFacade(errors.New("db down"))
	if err := broken.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected health check error")
	}
}
