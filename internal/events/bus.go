package events

import (
	"log/slog"
	"sync"

	"github.com/ashtari/pointledger/internal/domain/model"
)

// Bus is the in-process hand-off between the synchronous orchestrators and
// the async maintenance worker. Orchestrators publish only after their
// transaction has committed; subscribers receive events on buffered
// channels. A full subscriber drops the event with a warning — the
// reconciliation engine heals whatever a dropped delta would have applied.
type Bus struct {
	mu     sync.Mutex
	subs   []chan model.LedgerEvent
	buffer int
	closed bool
	logger *slog.Logger
}

// NewBus constructs a bus with the given per-subscriber buffer size.
func NewBus(buffer int, logger *slog.Logger) *Bus {
	if buffer <= 0 {
		buffer = 1
	}
	return &Bus{buffer: buffer, logger: logger}
}

// Subscribe registers a new consumer channel.
func (b *Bus) Subscribe() <-chan model.LedgerEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan model.LedgerEvent, b.buffer)
	b.subs = append(b.subs, ch)
	return ch
}

// Publish delivers the event to every subscriber without blocking.
func (b *Bus) Publish(event model.LedgerEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
			b.logger.Warn("event dropped, subscriber buffer full",
				slog.String("kind", string(event.Kind)),
				slog.Int64("member_id", event.MemberID),
			)
		}
	}
}

// Close closes all subscriber channels. Publish becomes a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
}
