package model

import "time"

// EventKind enumerates the ledger changes the balance cache reacts to,
// plus the reconciliation request emitted when cache maintenance gives up.
type EventKind string

const (
	EventAccumulated           EventKind = "ACCUMULATED"
	EventAccumulationCancelled EventKind = "ACCUMULATION_CANCELLED"
	EventUsed                  EventKind = "USED"
	EventUsageCancelled        EventKind = "USAGE_CANCELLED"
	EventExpired               EventKind = "EXPIRED"
	EventReconcileRequested    EventKind = "RECONCILE_REQUESTED"
)

// LedgerEvent is handed to the async maintenance worker after the ledger
// transaction that produced it has committed. Delivery is at-least-once.
type LedgerEvent struct {
	Kind         EventKind
	MemberID     int64
	Amount       Money
	SubjectKey   string
	Reason       string
	OriginalKind EventKind
	OccurredAt   time.Time
}
