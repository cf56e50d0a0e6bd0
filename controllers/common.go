package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jihuadaka/checkin-server/middleware"
	"github.com/jihuadaka/checkin-server/services"
	"github.com/jihuadaka/checkin-server/utils"
)

// getUserID extracts the authenticated user id placed by the auth middleware.
func getUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// parseID parses a numeric path parameter.
func parseID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// handleServiceError translates business outcomes into the response
// envelope. Anything unrecognized is an internal failure: it is logged with
// context and surfaced as a generic message so storage details never leak.
func handleServiceError(ctx *gin.Context, err error, internalCode int, internalMsg string) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.Error(ctx, http.StatusBadRequest, 40002, ve.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, "task not found")
	case errors.Is(err, services.ErrRewardNotFound):
		utils.Error(ctx, http.StatusNotFound, 40402, "reward not found")
	case errors.Is(err, services.ErrUserNotFound):
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
	case errors.Is(err, services.ErrForbidden):
		utils.Error(ctx, http.StatusForbidden, 40301, "you can only modify your own records")
	case errors.Is(err, services.ErrAlreadyCheckedIn):
		utils.Error(ctx, http.StatusConflict, 40902, "already checked in today")
	case errors.Is(err, services.ErrInsufficientBalance):
		utils.Error(ctx, http.StatusBadRequest, 40010, "insufficient points balance")
	default:
		utils.Sugar.Errorw(internalMsg, "error", err, "path", ctx.FullPath())
		utils.Error(ctx, http.StatusInternalServerError, internalCode, internalMsg)
	}
}
