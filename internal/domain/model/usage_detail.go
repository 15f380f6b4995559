package model

import (
	"time"

	domainErrors "github.com/ashtari/pointledger/internal/domain/errors"
)

// UsageDetail records how much of a usage was drawn from one specific
// accumulation. It is the join that makes an allocation exactly reversible:
// cancelling a usage walks its details and restores per accumulation.
type UsageDetail struct {
	UsageKey        string
	AccumulationKey string
	Amount          Money
	CancelledAmount Money
	CreatedAt       time.Time
}

// NewUsageDetail records a slice of a usage satisfied by one accumulation.
func NewUsageDetail(usageKey, accumulationKey string, amount Money, now time.Time) *UsageDetail {
	return &UsageDetail{
		UsageKey:        usageKey,
		AccumulationKey: accumulationKey,
		Amount:          amount,
		CreatedAt:       now,
	}
}

// Remaining is the portion of this slice not yet cancelled.
func (d *UsageDetail) Remaining() Money {
	return d.Amount - d.CancelledAmount
}

// Cancel marks amount of this slice as reversed.
func (d *UsageDetail) Cancel(amount Money) error {
	if !amount.IsPositive() || amount > d.Remaining() {
		return domainErrors.ErrCannotCancelDetail
	}
	d.CancelledAmount += amount
	return nil
}
