package model

import (
	"time"

	domainErrors "github.com/ashtari/pointledger/internal/domain/errors"
)

// UsageStatus is derived from how much of the usage has been cancelled.
type UsageStatus string

const (
	UsageStatusUsed               UsageStatus = "USED"
	UsageStatusPartiallyCancelled UsageStatus = "PARTIALLY_CANCELLED"
	UsageStatusFullyCancelled     UsageStatus = "FULLY_CANCELLED"
)

// Usage is a single consumption transaction drawn from one or more
// accumulations. It is created once and mutated only by cancellation.
type Usage struct {
	Key             string
	MemberID        int64
	OrderNumber     string
	TotalAmount     Money
	CancelledAmount Money
	Status          UsageStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewUsage creates a consumption record for the full requested amount.
func NewUsage(key string, memberID int64, orderNumber string, total Money, now time.Time) *Usage {
	return &Usage{
		Key:         key,
		MemberID:    memberID,
		OrderNumber: orderNumber,
		TotalAmount: total,
		Status:      UsageStatusUsed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Remaining is the portion of the usage that can still be cancelled.
func (u *Usage) Remaining() Money {
	return u.TotalAmount - u.CancelledAmount
}

// Cancel reverses amount of the usage and recomputes the status.
func (u *Usage) Cancel(amount Money) error {
	if !amount.IsPositive() {
		return domainErrors.ErrInvalidAmount
	}
	if amount > u.Remaining() {
		return domainErrors.ErrCannotCancelUsage
	}
	u.CancelledAmount += amount
	if u.CancelledAmount == u.TotalAmount {
		u.Status = UsageStatusFullyCancelled
	} else {
		u.Status = UsageStatusPartiallyCancelled
	}
	return nil
}
