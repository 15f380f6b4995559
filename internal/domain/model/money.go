package model

import (
	domainErrors "github.com/ashtari/pointledger/internal/domain/errors"
)

// Money is a whole number of reward points. There are no fractional units.
type Money int64

// NewMoney validates and wraps a raw point amount.
func NewMoney(v int64) (Money, error) {
	if v < 0 {
		return 0, domainErrors.ErrInvalidAmount
	}
	return Money(v), nil
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return m + other
}

// Subtract returns m minus other, refusing to go negative. The balance
// cache is the only place allowed to hold negative values and it works
// on raw integers, not Money.
func (m Money) Subtract(other Money) (Money, error) {
	if other > m {
		return 0, domainErrors.ErrInvalidAmount
	}
	return m - other, nil
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m > 0
}

// Int64 exposes the raw amount for persistence and transport layers.
func (m Money) Int64() int64 {
	return int64(m)
}
