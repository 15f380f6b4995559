package usecase

import (
	"context"
	"testing"
	"time"

	domainErrors "github.com/ashtari/pointledger/internal/domain/errors"
	"github.com/ashtari/pointledger/internal/domain/model"
)

func newAccumulationFixture(t *testing.T) (*AccumulationUseCase, *usageFixture) {
	t.Helper()
	f := newUsageFixture(t)
	return f.accs, f
}

func TestAccumulateDefaultsExpirationWindow(t *testing.T) {
	accs, f := newAccumulationFixture(t)

	acc, err := accs.Accumulate(context.Background(), 7, 1000, time.Time{}, false)
	if err != nil {
		t.Fatalf("accumulate failed: %v", err)
	}
	if !acc.ExpiresAt.Equal(f.clock.Add(defaultWindow)) {
		t.Fatalf("expected default window, got %v", acc.ExpiresAt)
	}
	if acc.AvailableAmount != acc.Amount {
		t.Fatalf("fresh grant must be fully available: %+v", acc)
	}

	last := f.events.Last()
	if last.Kind != model.EventAccumulated || last.Amount != 1000 || last.SubjectKey != acc.Key {
		t.Fatalf("unexpected event: %+v", last)
	}
}

func TestAccumulateValidation(t *testing.T) {
	accs, f := newAccumulationFixture(t)

	if _, err := accs.Accumulate(context.Background(), 7, 0, time.Time{}, false); err != domainErrors.ErrInvalidAmount {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := accs.Accumulate(context.Background(), 7, 100, f.clock.Add(-time.Hour), false); err != domainErrors.ErrPointExpired {
		t.Fatalf("expected expired error for past date, got %v", err)
	}
}

func TestCancelAccumulationOnlyUntouched(t *testing.T) {
	accs, f := newAccumulationFixture(t)
	acc := f.grant(t, 7, 1000, defaultWindow)

	cancelled, err := accs.Cancel(context.Background(), acc.Key)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != model.AccumulationStatusCancelled {
		t.Fatalf("unexpected status: %s", cancelled.Status)
	}
	last := f.events.Last()
	if last.Kind != model.EventAccumulationCancelled || last.Amount != 1000 {
		t.Fatalf("unexpected event: %+v", last)
	}

	touched := f.grant(t, 7, 500, defaultWindow)
	if _, err := f.usages.Use(context.Background(), 7, "ord-1", 100); err != nil {
		t.Fatalf("use failed: %v", err)
	}
	if _, err := accs.Cancel(context.Background(), touched.Key); err != domainErrors.ErrCannotCancelAccumulation {
		t.Fatalf("expected cannot cancel, got %v", err)
	}
}

func TestCancelAccumulationNotFound(t *testing.T) {
	accs, _ := newAccumulationFixture(t)
	if _, err := accs.Cancel(context.Background(), "missing"); err != domainErrors.ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkExpiredForfeitsRemainder(t *testing.T) {
	accs, f := newAccumulationFixture(t)
	acc := f.grant(t, 7, 1000, defaultWindow)
	if _, err := f.usages.Use(context.Background(), 7, "ord-1", 300); err != nil {
		t.Fatalf("use failed: %v", err)
	}

	expired, err := accs.MarkExpired(context.Background(), acc.Key)
	if err != nil {
		t.Fatalf("mark expired failed: %v", err)
	}
	if expired.Status != model.AccumulationStatusExpired || expired.AvailableAmount != 0 {
		t.Fatalf("unexpected state: %+v", expired)
	}

	last := f.events.Last()
	if last.Kind != model.EventExpired || last.Amount != 700 {
		t.Fatalf("expected Expired event for the forfeited 700, got %+v", last)
	}

	if _, err := accs.MarkExpired(context.Background(), acc.Key); err != domainErrors.ErrPointExpired {
		t.Fatalf("expected expired error on second marking, got %v", err)
	}
}
