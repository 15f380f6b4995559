package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ashtari/pointledger/internal/domain/model"
	testhelpers "github.com/ashtari/pointledger/internal/test"
)

func TestBalanceReturnsEmptyAggregateWhenNoRow(t *testing.T) {
	store := testhelpers.NewLedgerStore()
	uc := NewBalanceUseCase(store)

	balance, err := uc.Balance(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance.MemberID != 7 || balance.AvailableBalance != 0 || balance.Version != 0 {
		t.Fatalf("expected empty aggregate, got %+v", balance)
	}
}

func TestApplyDeltaCreatesAndMutatesRow(t *testing.T) {
	store := testhelpers.NewLedgerStore()
	uc := NewBalanceUseCase(store)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }

	events := []model.LedgerEvent{
		{Kind: model.EventAccumulated, MemberID: 7, Amount: 1000},
		{Kind: model.EventUsed, MemberID: 7, Amount: 700},
		{Kind: model.EventUsageCancelled, MemberID: 7, Amount: 200},
	}
	for _, ev := range events {
		if err := uc.ApplyDelta(context.Background(), ev); err != nil {
			t.Fatalf("apply delta failed: %v", err)
		}
	}

	balance, err := uc.Balance(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance.AvailableBalance != 500 {
		t.Fatalf("expected 500 available, got %d", balance.AvailableBalance)
	}
	if balance.TotalAccumulated != 1000 || balance.TotalUsed != 700 {
		t.Fatalf("unexpected totals: %+v", balance)
	}
	// Restoration must not rewrite usage history.
	if balance.TotalUsed != 700 {
		t.Fatalf("usage cancellation must not decrement TotalUsed: %d", balance.TotalUsed)
	}
	if balance.Version != 3 {
		t.Fatalf("expected version 3, got %d", balance.Version)
	}
}

func TestApplyDeltaPropagatesStorageError(t *testing.T) {
	store := testhelpers.NewLedgerStore()
	boom := errors.New("boom")
	store.BalanceSaveErr = boom
	uc := NewBalanceUseCase(store)

	err := uc.ApplyDelta(context.Background(), model.LedgerEvent{Kind: model.EventUsed, MemberID: 7, Amount: 10})
	if !errors.Is(err, boom) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
