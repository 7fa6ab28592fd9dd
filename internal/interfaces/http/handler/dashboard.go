package handler

import (
	"github.com/gin-gonic/gin"

	ledgerapp "github.com/hoseline/backend/internal/application/ledger"
)

// DashboardHandler handles dashboard API endpoints
type DashboardHandler struct {
	BaseHandler
	summaryService *ledgerapp.SummaryService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(summaryService *ledgerapp.SummaryService) *DashboardHandler {
	return &DashboardHandler{summaryService: summaryService}
}

// Summary handles GET /dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.summaryService.Summarize(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}
