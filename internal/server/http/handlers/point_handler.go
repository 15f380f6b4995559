package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ashtari/pointledger/internal/server/http/dto"
)

// PointHandler manages grant and consumption endpoints.
type PointHandler struct {
	facade PointFacade
}

// NewPointHandler constructs PointHandler.
func NewPointHandler(facade PointFacade) *PointHandler {
	return &PointHandler{facade: facade}
}

// Accumulate handles POST /api/points/accumulate.
func (h *PointHandler) Accumulate(c *gin.Context) {
	var req dto.AccumulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if req.MemberID <= 0 {
		c.Status(http.StatusUnprocessableEntity)
		return
	}

	var expiresAt time.Time
	if req.ExpiresAt != nil {
		expiresAt = *req.ExpiresAt
	}

	acc, err := h.facade.Accumulate(c.Request.Context(), req.MemberID, req.Amount, expiresAt, req.Manual)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusCreated, accumulationResponse(acc))
}

// Use handles POST /api/points/use.
func (h *PointHandler) Use(c *gin.Context) {
	var req dto.UseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if req.MemberID <= 0 {
		c.Status(http.StatusUnprocessableEntity)
		return
	}

	usage, err := h.facade.Use(c.Request.Context(), req.MemberID, req.OrderNumber, req.Amount)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusCreated, usageResponse(usage))
}

// CancelUsage handles POST /api/usages/:key/cancel. An empty body cancels
// the full remaining amount.
func (h *PointHandler) CancelUsage(c *gin.Context) {
	var req dto.CancelUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.Status(http.StatusBadRequest)
		return
	}

	usage, err := h.facade.CancelUsage(c.Request.Context(), c.Param("key"), req.Amount, req.Reason)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, usageResponse(usage))
}

// CancelAccumulation handles POST /api/accumulations/:key/cancel.
func (h *PointHandler) CancelAccumulation(c *gin.Context) {
	acc, err := h.facade.CancelAccumulation(c.Request.Context(), c.Param("key"))
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, accumulationResponse(acc))
}

// ExpireAccumulation handles POST /api/accumulations/:key/expire.
func (h *PointHandler) ExpireAccumulation(c *gin.Context) {
	acc, err := h.facade.ExpireAccumulation(c.Request.Context(), c.Param("key"))
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, accumulationResponse(acc))
}
