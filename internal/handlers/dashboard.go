package handlers

import (
	"github.com/gin-gonic/gin"

	"smartmedical-server/internal/services"
	"smartmedical-server/internal/utils"
)

// DashboardHandler serves dashboard statistics.
type DashboardHandler struct {
	Service *services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Service: service}
}

// GetDashboard handles computing the dashboard statistics.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	stats, err := h.Service.Compute(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Dashboard fetched successfully", stats)
}
