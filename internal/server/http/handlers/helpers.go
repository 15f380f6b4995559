package handlers

import (
	"errors"
	"net/http"

	domainErrors "github.com/ashtari/pointledger/internal/domain/errors"
	"github.com/ashtari/pointledger/internal/domain/model"
	"github.com/ashtari/pointledger/internal/server/http/dto"
)

// statusFromError translates domain errors into HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrInvalidAmount), errors.Is(err, domainErrors.ErrInvalidOrderNumber):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrInsufficientPoints):
		return http.StatusPaymentRequired
	case errors.Is(err, domainErrors.ErrCannotCancelUsage),
		errors.Is(err, domainErrors.ErrCannotCancelAccumulation),
		errors.Is(err, domainErrors.ErrCannotCancelDetail),
		errors.Is(err, domainErrors.ErrPointExpired),
		errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func accumulationResponse(acc *model.Accumulation) dto.AccumulationResponse {
	return dto.AccumulationResponse{
		Key:             acc.Key,
		MemberID:        acc.MemberID,
		Amount:          acc.Amount.Int64(),
		AvailableAmount: acc.AvailableAmount.Int64(),
		ExpiresAt:       acc.ExpiresAt,
		Manual:          acc.ManualGrant,
		Status:          string(acc.Status),
		CreatedAt:       acc.CreatedAt,
	}
}

func usageResponse(usage *model.Usage) dto.UsageResponse {
	return dto.UsageResponse{
		Key:             usage.Key,
		MemberID:        usage.MemberID,
		OrderNumber:     usage.OrderNumber,
		TotalAmount:     usage.TotalAmount.Int64(),
		CancelledAmount: usage.CancelledAmount.Int64(),
		Status:          string(usage.Status),
		CreatedAt:       usage.CreatedAt,
	}
}
