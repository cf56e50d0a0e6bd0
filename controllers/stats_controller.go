package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jihuadaka/checkin-server/services"
	"github.com/jihuadaka/checkin-server/utils"
)

// StatsController returns the caller's daily summary.
type StatsController struct {
	stats *services.StatsService
}

// NewStatsController creates a StatsController.
func NewStatsController(stats *services.StatsService) *StatsController {
	return &StatsController{stats: stats}
}

// GetStats returns today's aggregate figures for the caller. Computed fresh
// on every call so it always agrees with the underlying stores.
func (s *StatsController) GetStats(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	stats, err := s.stats.Today(ctx, userID)
	if err != nil {
		handleServiceError(ctx, err, 50060, "failed to compute stats")
		return
	}

	utils.Success(ctx, stats)
}
