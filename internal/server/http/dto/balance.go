package dto

// BalanceResponse represents the cached point balance of a member.
type BalanceResponse struct {
	MemberID         int64 `json:"member_id"`
	Available        int64 `json:"available"`
	TotalAccumulated int64 `json:"total_accumulated"`
	TotalUsed        int64 `json:"total_used"`
	TotalExpired     int64 `json:"total_expired"`
	Version          int64 `json:"version"`
}
