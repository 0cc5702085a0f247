package handlers

import (
	"net/http"

	"health-heroes/internal/core/dashboard"

	"github.com/gin-gonic/gin"
)

// DashboardHandler 儀表板處理器
type DashboardHandler struct {
	dashboard *dashboard.Service
}

func NewDashboardHandler(svc *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{dashboard: svc}
}

// Stats 家庭統計
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
