package controller

import (
	"eduai_backend/internal/service"
	"eduai_backend/internal/util"
	"eduai_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HistoryController struct {
	queryService *service.QueryService
}

func NewHistoryController(queryService *service.QueryService) *HistoryController {
	return &HistoryController{queryService: queryService}
}

// GetHistory godoc
// @Summary Caller's query history
// @Description Returns all of the caller's stored query records, most recent first
// @Tags history
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} model.QueryRecord
// @Failure 500 {object} object "store unavailable"
// @Router /api/history [get]
func (c *HistoryController) GetHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	records, err := c.queryService.History(claims.UserID)
	if err != nil {
		logger.Log.Error("History fetch error", zap.Uint("userID", claims.UserID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, records)
}

// ClearHistory godoc
// @Summary Clear the caller's history
// @Description Deletes all of the caller's stored query records and reports how many were removed
// @Tags history
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} object "deleted count"
// @Failure 500 {object} object "store unavailable"
// @Router /api/history [delete]
func (c *HistoryController) ClearHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	deleted, err := c.queryService.ClearHistory(claims.UserID)
	if err != nil {
		logger.Log.Error("History clear error", zap.Uint("userID", claims.UserID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear history"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
