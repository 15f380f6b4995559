package test

import (
	"fmt"
	"sync"

	"github.com/ashtari/pointledger/internal/domain/model"
)

// SequenceKeys generates deterministic keys for tests.
type SequenceKeys struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewSequenceKeys constructs a generator producing prefix-0001, prefix-0002, ...
func NewSequenceKeys(prefix string) *SequenceKeys {
	return &SequenceKeys{prefix: prefix}
}

// Generate returns the next key in sequence.
func (g *SequenceKeys) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%04d", g.prefix, g.next)
}

// EventRecorder captures published ledger events for assertions.
type EventRecorder struct {
	mu     sync.Mutex
	events []model.LedgerEvent
}

// Publish records the event.
func (r *EventRecorder) Publish(event model.LedgerEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns everything published so far.
func (r *EventRecorder) Events() []model.LedgerEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.LedgerEvent(nil), r.events...)
}

// Last returns the most recent event, or a zero event.
func (r *EventRecorder) Last() model.LedgerEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return model.LedgerEvent{}
	}
	return r.events[len(r.events)-1]
}
