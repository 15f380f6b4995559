package dto

import "time"

// AccumulateRequest describes a point grant payload.
type AccumulateRequest struct {
	MemberID  int64      `json:"member_id"`
	Amount    int64      `json:"amount"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Manual    bool       `json:"manual,omitempty"`
}

// AccumulationResponse describes a single point grant.
type AccumulationResponse struct {
	Key             string    `json:"key"`
	MemberID        int64     `json:"member_id"`
	Amount          int64     `json:"amount"`
	AvailableAmount int64     `json:"available_amount"`
	ExpiresAt       time.Time `json:"expires_at"`
	Manual          bool      `json:"manual"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// UseRequest describes a point consumption payload.
type UseRequest struct {
	MemberID    int64  `json:"member_id"`
	OrderNumber string `json:"order_number"`
	Amount      int64  `json:"amount"`
}

// UsageResponse describes a consumption transaction.
type UsageResponse struct {
	Key             string    `json:"key"`
	MemberID        int64     `json:"member_id"`
	OrderNumber     string    `json:"order_number"`
	TotalAmount     int64     `json:"total_amount"`
	CancelledAmount int64     `json:"cancelled_amount"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// CancelUsageRequest describes a usage cancellation payload. A nil amount
// cancels whatever portion of the usage is still active.
type CancelUsageRequest struct {
	Amount *int64 `json:"amount,omitempty"`
	Reason string `json:"reason,omitempty"`
}
