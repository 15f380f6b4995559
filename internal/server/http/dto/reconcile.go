package dto

// ReconcileResponse reports the outcome of reconciling a single member.
type ReconcileResponse struct {
	MemberID int64  `json:"member_id"`
	Status   string `json:"status"`
	Actual   int64  `json:"actual"`
	Cached   int64  `json:"cached"`
	Diff     int64  `json:"diff"`
}

// ReconcileSummaryResponse aggregates the outcome of a bulk reconciliation.
type ReconcileSummaryResponse struct {
	Matched   int `json:"matched"`
	Corrected int `json:"corrected"`
	Created   int `json:"created"`
	Skipped   int `json:"skipped"`
}
