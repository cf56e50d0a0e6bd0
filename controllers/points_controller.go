package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jihuadaka/checkin-server/services"
	"github.com/jihuadaka/checkin-server/utils"
)

// PointsController exposes the ledger history and derived balance.
type PointsController struct {
	balance *services.BalanceService
}

// NewPointsController creates a PointsController.
func NewPointsController(balance *services.BalanceService) *PointsController {
	return &PointsController{balance: balance}
}

// ListHistory returns the caller's ledger entries, newest first.
func (p *PointsController) ListHistory(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	entries, err := p.balance.History(ctx, userID)
	if err != nil {
		handleServiceError(ctx, err, 50040, "failed to list points history")
		return
	}

	utils.Success(ctx, gin.H{"points": entries})
}

// GetBalance returns the caller's current balance. Always recomputed from
// the ledger, never cached.
func (p *PointsController) GetBalance(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	balance, err := p.balance.Balance(ctx, userID)
	if err != nil {
		handleServiceError(ctx, err, 50041, "failed to compute balance")
		return
	}

	utils.Success(ctx, gin.H{"balance": balance})
}
