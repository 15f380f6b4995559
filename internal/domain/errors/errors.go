package errors

import "errors"

var (
	ErrAlreadyExists            = errors.New("already exists")
	ErrNotFound                 = errors.New("not found")
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrInvalidOrderNumber       = errors.New("invalid order number")
	ErrInsufficientPoints       = errors.New("insufficient points")
	ErrCannotCancelUsage        = errors.New("usage cannot be cancelled")
	ErrCannotCancelAccumulation = errors.New("accumulation cannot be cancelled")
	ErrCannotCancelDetail       = errors.New("usage detail cannot be cancelled")
	ErrPointExpired             = errors.New("points expired")
)
