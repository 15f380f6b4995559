package usecase

import (
	"context"
	"testing"
	"time"

	domainErrors "github.com/ashtari/pointledger/internal/domain/errors"
	"github.com/ashtari/pointledger/internal/domain/model"
	testhelpers "github.com/ashtari/pointledger/internal/test"
)

const defaultWindow = 365 * 24 * time.Hour

type usageFixture struct {
	store  *testhelpers.LedgerStore
	events *testhelpers.EventRecorder
	accs   *AccumulationUseCase
	usages *UsageUseCase
	clock  time.Time
}

func newUsageFixture(t *testing.T) *usageFixture {
	t.Helper()
	f := &usageFixture{
		store:  testhelpers.NewLedgerStore(),
		events: &testhelpers.EventRecorder{},
		clock:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	now := func() time.Time { return f.clock }
	f.store.Clock = now

	keys := testhelpers.NewSequenceKeys("key")
	f.accs = NewAccumulationUseCase(f.store, keys, f.events, defaultWindow)
	f.accs.now = now
	f.usages = NewUsageUseCase(f.store, keys, f.events, NewAllocator(), defaultWindow)
	f.usages.now = now
	return f
}

func (f *usageFixture) grant(t *testing.T, memberID int64, amount model.Money, window time.Duration) *model.Accumulation {
	t.Helper()
	acc, err := f.accs.Accumulate(context.Background(), memberID, amount, f.clock.Add(window), false)
	if err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	return acc
}

func TestUseAllocatesAcrossAccumulations(t *testing.T) {
	f := newUsageFixture(t)
	a := f.grant(t, 7, 1000, defaultWindow)
	b := f.grant(t, 7, 500, defaultWindow)

	usage, err := f.usages.Use(context.Background(), 7, "ord-1", 1200)
	if err != nil {
		t.Fatalf("use failed: %v", err)
	}

	if usage.TotalAmount != 1200 || usage.Status != model.UsageStatusUsed {
		t.Fatalf("unexpected usage: %+v", usage)
	}
	if got := f.store.Accumulation(a.Key).AvailableAmount; got != 0 {
		t.Fatalf("expected A drained, got %d", got)
	}
	if got := f.store.Accumulation(b.Key).AvailableAmount; got != 300 {
		t.Fatalf("expected B at 300, got %d", got)
	}

	details := f.store.Details()
	if len(details) != 2 {
		t.Fatalf("expected 2 details, got %d", len(details))
	}
	var sum model.Money
	for _, d := range details {
		sum += d.Amount
	}
	if sum != usage.TotalAmount {
		t.Fatalf("details sum %d != usage total %d", sum, usage.TotalAmount)
	}

	last := f.events.Last()
	if last.Kind != model.EventUsed || last.Amount != 1200 || last.MemberID != 7 {
		t.Fatalf("unexpected event: %+v", last)
	}
}

func TestUseFailsFastOnInsufficientPoints(t *testing.T) {
	f := newUsageFixture(t)
	a := f.grant(t, 7, 1000, defaultWindow)

	if _, err := f.usages.Use(context.Background(), 7, "ord-1", 1500); err != domainErrors.ErrInsufficientPoints {
		t.Fatalf("expected insufficient points, got %v", err)
	}
	if got := f.store.Accumulation(a.Key).AvailableAmount; got != 1000 {
		t.Fatalf("failed use must not touch rows, available=%d", got)
	}
	for _, ev := range f.events.Events() {
		if ev.Kind == model.EventUsed {
			t.Fatal("no Used event expected after failure")
		}
	}
}

func TestUseValidation(t *testing.T) {
	f := newUsageFixture(t)
	if _, err := f.usages.Use(context.Background(), 7, "ord-1", 0); err != domainErrors.ErrInvalidAmount {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := f.usages.Use(context.Background(), 7, "", 10); err != domainErrors.ErrInvalidOrderNumber {
		t.Fatalf("expected invalid order number, got %v", err)
	}
}

func TestUsePrefersManualGrants(t *testing.T) {
	f := newUsageFixture(t)
	ordinary := f.grant(t, 7, 500, 24*time.Hour)
	manual, err := f.accs.Accumulate(context.Background(), 7, 500, f.clock.Add(defaultWindow), true)
	if err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	if _, err := f.usages.Use(context.Background(), 7, "ord-1", 400); err != nil {
		t.Fatalf("use failed: %v", err)
	}

	if got := f.store.Accumulation(manual.Key).AvailableAmount; got != 100 {
		t.Fatalf("manual grant should be consumed first, available=%d", got)
	}
	if got := f.store.Accumulation(ordinary.Key).AvailableAmount; got != 500 {
		t.Fatalf("ordinary grant should be untouched, available=%d", got)
	}
}

func TestCancelUsagePartiallyRestoresInDetailOrder(t *testing.T) {
	f := newUsageFixture(t)
	a := f.grant(t, 7, 1000, defaultWindow)
	b := f.grant(t, 7, 500, defaultWindow)

	usage, err := f.usages.Use(context.Background(), 7, "ord-1", 1200)
	if err != nil {
		t.Fatalf("use failed: %v", err)
	}

	amount := model.Money(1100)
	cancelled, err := f.usages.Cancel(context.Background(), usage.Key, &amount, "customer refund")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if cancelled.CancelledAmount != 1100 || cancelled.Status != model.UsageStatusPartiallyCancelled {
		t.Fatalf("unexpected usage state: %+v", cancelled)
	}
	if got := f.store.Accumulation(a.Key).AvailableAmount; got != 1000 {
		t.Fatalf("expected A fully restored, got %d", got)
	}
	if got := f.store.Accumulation(b.Key).AvailableAmount; got != 400 {
		t.Fatalf("expected B at 400, got %d", got)
	}

	last := f.events.Last()
	if last.Kind != model.EventUsageCancelled || last.Amount != 1100 || last.Reason != "customer refund" {
		t.Fatalf("unexpected event: %+v", last)
	}
}

func TestCancelUsageFullRoundTrip(t *testing.T) {
	f := newUsageFixture(t)
	a := f.grant(t, 7, 1000, defaultWindow)
	b := f.grant(t, 7, 500, defaultWindow)

	usage, err := f.usages.Use(context.Background(), 7, "ord-1", 1200)
	if err != nil {
		t.Fatalf("use failed: %v", err)
	}

	// nil amount cancels the full remainder
	cancelled, err := f.usages.Cancel(context.Background(), usage.Key, nil, "")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != model.UsageStatusFullyCancelled {
		t.Fatalf("expected fully cancelled, got %s", cancelled.Status)
	}
	if got := f.store.Accumulation(a.Key).AvailableAmount; got != 1000 {
		t.Fatalf("expected A back to 1000, got %d", got)
	}
	if got := f.store.Accumulation(b.Key).AvailableAmount; got != 500 {
		t.Fatalf("expected B back to 500, got %d", got)
	}
	for _, d := range f.store.Details() {
		if d.Remaining() != 0 {
			t.Fatalf("expected every detail fully cancelled: %+v", d)
		}
	}

	if _, err := f.usages.Cancel(context.Background(), usage.Key, nil, ""); err != domainErrors.ErrCannotCancelUsage {
		t.Fatalf("expected cannot cancel exhausted usage, got %v", err)
	}
}

func TestCancelUsageRejectsOverCancel(t *testing.T) {
	f := newUsageFixture(t)
	f.grant(t, 7, 1000, defaultWindow)

	usage, err := f.usages.Use(context.Background(), 7, "ord-1", 600)
	if err != nil {
		t.Fatalf("use failed: %v", err)
	}

	amount := model.Money(700)
	if _, err := f.usages.Cancel(context.Background(), usage.Key, &amount, ""); err != domainErrors.ErrCannotCancelUsage {
		t.Fatalf("expected cannot cancel, got %v", err)
	}
}

func TestCancelUsageMintsNewGrantWhenExpired(t *testing.T) {
	f := newUsageFixture(t)
	a := f.grant(t, 7, 1000, 24*time.Hour)

	usage, err := f.usages.Use(context.Background(), 7, "ord-1", 1000)
	if err != nil {
		t.Fatalf("use failed: %v", err)
	}

	// The grant's expiration date passes before the cancellation arrives.
	f.clock = f.clock.Add(48 * time.Hour)

	if _, err := f.usages.Cancel(context.Background(), usage.Key, nil, "late refund"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	original := f.store.Accumulation(a.Key)
	if original.AvailableAmount != 0 {
		t.Fatalf("expired grant must stay drained, got %d", original.AvailableAmount)
	}

	keys := f.store.AccumulationKeys()
	if len(keys) != 2 {
		t.Fatalf("expected exactly one minted grant, have %d rows", len(keys))
	}
	minted := f.store.Accumulation(keys[1])
	if minted.Status != model.AccumulationStatusAccumulated {
		t.Fatalf("unexpected minted status: %s", minted.Status)
	}
	if minted.Amount != 1000 || minted.AvailableAmount != 1000 {
		t.Fatalf("unexpected minted value: %d/%d", minted.AvailableAmount, minted.Amount)
	}
	if minted.ManualGrant {
		t.Fatal("minted grant must not be manual")
	}
	if !minted.ExpiresAt.Equal(f.clock.Add(defaultWindow)) {
		t.Fatalf("minted grant should get a fresh default window, got %v", minted.ExpiresAt)
	}
}

func TestCancelUsageNotFound(t *testing.T) {
	f := newUsageFixture(t)
	if _, err := f.usages.Cancel(context.Background(), "missing", nil, ""); err != domainErrors.ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHistoryFiltersAndPaginates(t *testing.T) {
	f := newUsageFixture(t)
	f.grant(t, 7, 10000, defaultWindow)

	for _, order := range []string{"ord-1", "ord-2", "ord-1"} {
		if _, err := f.usages.Use(context.Background(), 7, order, 100); err != nil {
			t.Fatalf("use failed: %v", err)
		}
	}

	all, err := f.usages.History(context.Background(), 7, "", 10, 0)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 usages, got %d", len(all))
	}

	filtered, err := f.usages.History(context.Background(), 7, "ord-1", 10, 0)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 usages for ord-1, got %d", len(filtered))
	}

	paged, err := f.usages.History(context.Background(), 7, "", 2, 2)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(paged) != 1 {
		t.Fatalf("expected 1 usage on last page, got %d", len(paged))
	}
}
