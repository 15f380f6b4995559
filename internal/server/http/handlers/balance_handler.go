package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ashtari/pointledger/internal/server/http/dto"
)

// BalanceHandler manages balance and history endpoints.
type BalanceHandler struct {
	facade BalanceFacade
}

// NewBalanceHandler constructs BalanceHandler.
func NewBalanceHandler(facade BalanceFacade) *BalanceHandler {
	return &BalanceHandler{facade: facade}
}

// Balance handles GET /api/members/:id/balance.
func (h *BalanceHandler) Balance(c *gin.Context) {
	memberID, ok := memberIDParam(c)
	if !ok {
		return
	}

	balance, err := h.facade.Balance(c.Request.Context(), memberID)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{
		MemberID:         balance.MemberID,
		Available:        balance.AvailableBalance,
		TotalAccumulated: balance.TotalAccumulated,
		TotalUsed:        balance.TotalUsed,
		TotalExpired:     balance.TotalExpired,
		Version:          balance.Version,
	})
}

// Usages handles GET /api/members/:id/usages.
func (h *BalanceHandler) Usages(c *gin.Context) {
	memberID, ok := memberIDParam(c)
	if !ok {
		return
	}

	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	usages, err := h.facade.UsageHistory(c.Request.Context(), memberID, c.Query("order_number"), limit, offset)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	if len(usages) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.UsageResponse, 0, len(usages))
	for i := range usages {
		resp = append(resp, usageResponse(&usages[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func memberIDParam(c *gin.Context) (int64, bool) {
	memberID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || memberID <= 0 {
		c.Status(http.StatusBadRequest)
		return 0, false
	}
	return memberID, true
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
