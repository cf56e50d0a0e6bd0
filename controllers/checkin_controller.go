package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jihuadaka/checkin-server/services"
	"github.com/jihuadaka/checkin-server/utils"
)

// CheckinController handles daily checkin endpoints.
type CheckinController struct {
	checkins *services.CheckinService
}

// NewCheckinController creates a CheckinController.
func NewCheckinController(checkins *services.CheckinService) *CheckinController {
	return &CheckinController{checkins: checkins}
}

// Checkin records today's completion of a task and credits its points.
func (c *CheckinController) Checkin(ctx *gin.Context) {
	var req struct {
		TaskID uint   `json:"task_id" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	checkin, err := c.checkins.Checkin(ctx, req.TaskID, userID, utils.Sanitize(req.Notes))
	if err != nil {
		handleServiceError(ctx, err, 50030, "failed to record checkin")
		return
	}

	utils.Success(ctx, gin.H{
		"message": "checked in",
		"checkin": checkin,
	})
}

// ListCheckins returns the caller's checkin history joined with task info.
func (c *CheckinController) ListCheckins(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	checkins, err := c.checkins.History(ctx, userID)
	if err != nil {
		handleServiceError(ctx, err, 50031, "failed to list checkins")
		return
	}

	utils.Success(ctx, gin.H{"checkins": checkins})
}
