package model

import (
	"time"

	domainErrors "github.com/ashtari/pointledger/internal/domain/errors"
)

// AccumulationStatus describes the grant lifecycle.
type AccumulationStatus string

const (
	AccumulationStatusAccumulated AccumulationStatus = "ACCUMULATED"
	AccumulationStatusCancelled   AccumulationStatus = "CANCELLED"
	AccumulationStatusExpired     AccumulationStatus = "EXPIRED"
)

// Accumulation is a single point grant with its own expiration date and
// remaining balance. Grants are never deleted, only drawn down, restored,
// cancelled or expired.
type Accumulation struct {
	Key             string
	MemberID        int64
	Amount          Money
	AvailableAmount Money
	ExpiresAt       time.Time
	ManualGrant     bool
	Status          AccumulationStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewAccumulation creates a fresh grant with the full amount available.
func NewAccumulation(key string, memberID int64, amount Money, expiresAt time.Time, manual bool, now time.Time) *Accumulation {
	return &Accumulation{
		Key:             key,
		MemberID:        memberID,
		Amount:          amount,
		AvailableAmount: amount,
		ExpiresAt:       expiresAt,
		ManualGrant:     manual,
		Status:          AccumulationStatusAccumulated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// IsExpired is computed from the expiration date at read time; the EXPIRED
// status is a separate explicit marking applied by a housekeeping scheduler.
func (a *Accumulation) IsExpired(now time.Time) bool {
	return a.ExpiresAt.Before(now)
}

// Use draws amount down from the available balance. The allocation path
// never asks for more than is available, but the entity still guards it.
func (a *Accumulation) Use(amount Money) error {
	if !amount.IsPositive() {
		return domainErrors.ErrInvalidAmount
	}
	if a.Status == AccumulationStatusExpired {
		return domainErrors.ErrPointExpired
	}
	if a.Status != AccumulationStatusAccumulated || amount > a.AvailableAmount {
		return domainErrors.ErrInsufficientPoints
	}
	a.AvailableAmount -= amount
	return nil
}

// Restore returns a previously used slice to the available balance. The
// restored total may never exceed the face value of the grant.
func (a *Accumulation) Restore(amount Money) error {
	if !amount.IsPositive() {
		return domainErrors.ErrInvalidAmount
	}
	if a.Status != AccumulationStatusAccumulated {
		return domainErrors.ErrPointExpired
	}
	if a.AvailableAmount+amount > a.Amount {
		return domainErrors.ErrInvalidAmount
	}
	a.AvailableAmount += amount
	return nil
}

// Cancel voids an untouched grant. Once any amount has been used the grant
// can only shrink or grow through usage-cancellation flows.
func (a *Accumulation) Cancel() error {
	if a.Status != AccumulationStatusAccumulated || a.AvailableAmount != a.Amount {
		return domainErrors.ErrCannotCancelAccumulation
	}
	a.Status = AccumulationStatusCancelled
	return nil
}

// Expire marks the grant expired and forfeits whatever was still available.
// The transition is terminal.
func (a *Accumulation) Expire() (Money, error) {
	if a.Status != AccumulationStatusAccumulated {
		return 0, domainErrors.ErrPointExpired
	}
	forfeited := a.AvailableAmount
	a.AvailableAmount = 0
	a.Status = AccumulationStatusExpired
	return forfeited, nil
}
