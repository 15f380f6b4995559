package model

// ReconcileStatus describes the outcome of one member reconciliation.
type ReconcileStatus string

const (
	ReconcileStatusMatched   ReconcileStatus = "MATCHED"
	ReconcileStatusCorrected ReconcileStatus = "CORRECTED"
	ReconcileStatusCreated   ReconcileStatus = "CREATED"
	ReconcileStatusSkipped   ReconcileStatus = "SKIPPED"
)

// ReconcileResult reports what the engine found and did for one member.
// Actual is the ledger truth, Cached the value found in the cache row.
type ReconcileResult struct {
	MemberID int64
	Status   ReconcileStatus
	Actual   int64
	Cached   int64
	Diff     int64
}

// ReconcileSummary aggregates outcomes of a bulk reconciliation run.
type ReconcileSummary struct {
	Matched   int
	Corrected int
	Created   int
	Skipped   int
}
