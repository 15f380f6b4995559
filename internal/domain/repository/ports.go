package repository

import "github.com/ashtari/pointledger/internal/domain/model"

// KeyGenerator produces opaque unique keys for accumulations and usages.
type KeyGenerator interface {
	Generate() string
}

// EventPublisher hands ledger-change events to the async maintenance
// pipeline. Publish must only be called after the transaction that produced
// the change has committed. Delivery is at-least-once, not exactly-once.
type EventPublisher interface {
	Publish(event model.LedgerEvent)
}
