package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ashtari/pointledger/internal/domain/model"
	"github.com/ashtari/pointledger/internal/domain/repository"
)

// CacheFacade exposes the subset of application functionality required by
// the maintenance worker.
type CacheFacade interface {
	ApplyBalanceDelta(ctx context.Context, event model.LedgerEvent) error
	ReconcileMember(ctx context.Context, memberID int64) (*model.ReconcileResult, error)
}

// BalanceMaintainer consumes ledger-change events and applies the matching
// deltas to the balance cache on a bounded worker pool. A delta that keeps
// failing after the configured retries is converted into a reconciliation
// request instead of surfacing anywhere: the ledger write it shadows has
// already committed and there is no synchronous caller left to tell.
type BalanceMaintainer struct {
	facade    CacheFacade
	publisher repository.EventPublisher
	source    <-chan model.LedgerEvent
	attempts  int
	backoff   time.Duration
	workers   int
	logger    *slog.Logger

	sleep  func(time.Duration)
	jobs   chan model.LedgerEvent
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewBalanceMaintainer constructs the cache maintenance worker pool.
func NewBalanceMaintainer(facade CacheFacade, publisher repository.EventPublisher, source <-chan model.LedgerEvent, attempts int, backoff time.Duration, workers int, logger *slog.Logger) *BalanceMaintainer {
	if workers <= 0 {
		workers = 1
	}
	if attempts <= 0 {
		attempts = 1
	}
	if backoff <= 0 {
		backoff = time.Second
	}
	return &BalanceMaintainer{
		facade:    facade,
		publisher: publisher,
		source:    source,
		attempts:  attempts,
		backoff:   backoff,
		workers:   workers,
		logger:    logger,
		sleep:     time.Sleep,
		jobs:      make(chan model.LedgerEvent, workers*4),
	}
}

// Start launches background processing.
func (m *BalanceMaintainer) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	for i := 0; i < m.workers; i++ {
		m.wg.Add(1)
		go m.worker(runCtx)
	}

	m.wg.Add(1)
	go m.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (m *BalanceMaintainer) Stop() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.mu.Unlock()

	m.wg.Wait()
}

func (m *BalanceMaintainer) dispatch(ctx context.Context) {
	defer m.wg.Done()
	defer close(m.jobs)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-m.source:
			if !ok {
				return
			}
			select {
			case <-ctx.Done():
				return
			case m.jobs <- event:
			}
		}
	}
}

func (m *BalanceMaintainer) worker(ctx context.Context) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-m.jobs:
			if !ok {
				return
			}
			m.handle(ctx, event)
		}
	}
}

func (m *BalanceMaintainer) handle(ctx context.Context, event model.LedgerEvent) {
	if event.Kind == model.EventReconcileRequested {
		m.reconcile(ctx, event)
		return
	}
	m.applyWithRetry(ctx, event)
}

func (m *BalanceMaintainer) applyWithRetry(ctx context.Context, event model.LedgerEvent) {
	backoff := m.backoff
	var lastErr error
	for attempt := 1; attempt <= m.attempts; attempt++ {
		lastErr = m.facade.ApplyBalanceDelta(ctx, event)
		if lastErr == nil {
			return
		}
		if attempt < m.attempts {
			m.logger.Warn("cache delta failed, retrying",
				slog.String("kind", string(event.Kind)),
				slog.Int64("member_id", event.MemberID),
				slog.Int("attempt", attempt),
				slog.String("error", lastErr.Error()),
			)
			m.sleep(backoff)
			backoff *= 2
		}
	}

	m.logger.Error("cache delta exhausted retries, requesting reconciliation",
		slog.String("kind", string(event.Kind)),
		slog.Int64("member_id", event.MemberID),
		slog.String("error", lastErr.Error()),
	)
	m.publisher.Publish(model.LedgerEvent{
		Kind:         model.EventReconcileRequested,
		MemberID:     event.MemberID,
		Reason:       lastErr.Error(),
		OriginalKind: event.Kind,
		OccurredAt:   time.Now(),
	})
}

func (m *BalanceMaintainer) reconcile(ctx context.Context, event model.LedgerEvent) {
	result, err := m.facade.ReconcileMember(ctx, event.MemberID)
	if err != nil {
		m.logger.Error("reconciliation failed",
			slog.Int64("member_id", event.MemberID),
			slog.String("error", err.Error()),
		)
		return
	}
	m.logger.Info("reconciliation finished",
		slog.Int64("member_id", event.MemberID),
		slog.String("status", string(result.Status)),
		slog.Int64("diff", result.Diff),
		slog.String("original_kind", string(event.OriginalKind)),
	)
}
