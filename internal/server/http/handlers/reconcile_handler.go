package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ashtari/pointledger/internal/server/http/dto"
)

// ReconcileHandler manages cache reconciliation endpoints.
type ReconcileHandler struct {
	facade ReconcileFacade
}

// NewReconcileHandler constructs ReconcileHandler.
func NewReconcileHandler(facade ReconcileFacade) *ReconcileHandler {
	return &ReconcileHandler{facade: facade}
}

// Member handles POST /api/members/:id/reconcile.
func (h *ReconcileHandler) Member(c *gin.Context) {
	memberID, ok := memberIDParam(c)
	if !ok {
		return
	}

	result, err := h.facade.ReconcileMember(c.Request.Context(), memberID)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, dto.ReconcileResponse{
		MemberID: result.MemberID,
		Status:   string(result.Status),
		Actual:   result.Actual,
		Cached:   result.Cached,
		Diff:     result.Diff,
	})
}

// All handles POST /api/reconcile.
func (h *ReconcileHandler) All(c *gin.Context) {
	summary, err := h.facade.ReconcileAll(c.Request.Context())
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, dto.ReconcileSummaryResponse{
		Matched:   summary.Matched,
		Corrected: summary.Corrected,
		Created:   summary.Created,
		Skipped:   summary.Skipped,
	})
}
