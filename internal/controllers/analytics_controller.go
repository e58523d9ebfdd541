package controllers

import (
	"net/http"

	"github.com/saiyam0211/smart-urban-backend/internal/services"
	"github.com/saiyam0211/smart-urban-backend/internal/utils"
)

type AnalyticsController struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsController(as services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: as}
}

// ----------------------------------------------------------------
// GET /api/v1/analytics/dashboard
// ----------------------------------------------------------------
func (c *AnalyticsController) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dashboard, err := c.analyticsService.Dashboard(ctx)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to build analytics dashboard", nil, err,
		)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dashboard)
}
