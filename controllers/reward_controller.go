package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jihuadaka/checkin-server/services"
	"github.com/jihuadaka/checkin-server/utils"
)

// RewardController manages the reward catalog and redemption endpoints.
type RewardController struct {
	rewards     *services.RewardService
	redemptions *services.RedemptionService
}

// NewRewardController creates a RewardController.
func NewRewardController(rewards *services.RewardService, redemptions *services.RedemptionService) *RewardController {
	return &RewardController{rewards: rewards, redemptions: redemptions}
}

type rewardRequest struct {
	Title          string `json:"title" binding:"required,min=1"`
	Description    string `json:"description"`
	PointsRequired int    `json:"points_required" binding:"required"`
}

func rewardListCacheKey(userID uint) string {
	return fmt.Sprintf("cache:user:%d:rewards", userID)
}

// CreateReward adds a reward owned by the caller.
func (r *RewardController) CreateReward(ctx *gin.Context) {
	var req rewardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	reward, err := r.rewards.Create(ctx, userID, services.RewardInput{
		Title:          req.Title,
		Description:    req.Description,
		PointsRequired: req.PointsRequired,
	})
	if err != nil {
		handleServiceError(ctx, err, 50050, "failed to create reward")
		return
	}

	utils.InvalidateByPrefix(rewardListCacheKey(userID))

	utils.Success(ctx, gin.H{"reward": reward, "reward_id": reward.ID})
}

// ListRewards returns the caller's active rewards. The list only changes on
// the caller's own mutations, so it is safe to cache with invalidation.
func (r *RewardController) ListRewards(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	cacheKey := rewardListCacheKey(userID)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	rewards, err := r.rewards.List(ctx, userID)
	if err != nil {
		handleServiceError(ctx, err, 50051, "failed to list rewards")
		return
	}

	payload := gin.H{"rewards": rewards}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, time.Hour)
	utils.Success(ctx, payload)
}

// UpdateReward replaces the mutable fields of a reward, owner only.
func (r *RewardController) UpdateReward(ctx *gin.Context) {
	rewardID, ok := parseID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid reward id")
		return
	}

	var req rewardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	reward, err := r.rewards.Update(ctx, rewardID, userID, services.RewardInput{
		Title:          req.Title,
		Description:    req.Description,
		PointsRequired: req.PointsRequired,
	})
	if err != nil {
		handleServiceError(ctx, err, 50052, "failed to update reward")
		return
	}

	utils.InvalidateByPrefix(rewardListCacheKey(userID))

	utils.Success(ctx, gin.H{"reward": reward})
}

// DeleteReward soft-deletes a reward, owner only.
func (r *RewardController) DeleteReward(ctx *gin.Context) {
	rewardID, ok := parseID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid reward id")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	if err := r.rewards.SoftDelete(ctx, rewardID, userID); err != nil {
		handleServiceError(ctx, err, 50053, "failed to delete reward")
		return
	}

	utils.InvalidateByPrefix(rewardListCacheKey(userID))

	utils.Success(ctx, gin.H{"message": "reward deleted"})
}

// Redeem exchanges the caller's balance for a reward.
func (r *RewardController) Redeem(ctx *gin.Context) {
	rewardID, ok := parseID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid reward id")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	redemption, err := r.redemptions.Redeem(ctx, rewardID, userID)
	if err != nil {
		handleServiceError(ctx, err, 50054, "failed to redeem reward")
		return
	}

	utils.Success(ctx, gin.H{
		"message":    "redeemed",
		"redemption": redemption,
	})
}

// ListRedemptions returns the caller's redemption history.
func (r *RewardController) ListRedemptions(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	redemptions, err := r.redemptions.History(ctx, userID)
	if err != nil {
		handleServiceError(ctx, err, 50055, "failed to list redemptions")
		return
	}

	utils.Success(ctx, gin.H{"redemptions": redemptions})
}
