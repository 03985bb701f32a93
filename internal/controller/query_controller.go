package controller

import (
	"eduai_backend/internal/service"
	"eduai_backend/internal/util"
	"eduai_backend/pkg/logger"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type QueryController struct {
	queryService *service.QueryService
}

func NewQueryController(queryService *service.QueryService) *QueryController {
	return &QueryController{queryService: queryService}
}

// AskRequest is the submission body.
// swagger:model AskRequest
type AskRequest struct {
	Query string `json:"query"`
	Board string `json:"board"`
}

// ProcessQuery godoc
// @Summary Submit a question
// @Description Generates a tutoring explanation for the caller's question and board, persists the record and returns the answer
// @Tags query
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body AskRequest true "Question and curriculum board"
// @Success 200 {object} service.AskResponse
// @Failure 400 {object} object "missing or invalid query/board"
// @Failure 500 {object} object "adapter or persistence failure"
// @Router /api/query [post]
func (c *QueryController) ProcessQuery(ctx *gin.Context) {
	var req AskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Query and board are required"})
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	resp, err := c.queryService.Ask(ctx.Request.Context(), claims.UserID, req.Query, req.Board)
	if err != nil {
		if errors.Is(err, util.ErrEmptyQuestion) || errors.Is(err, util.ErrUnknownBoard) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Log.Error("Query processing error",
			zap.Uint("userID", claims.UserID),
			zap.String("board", req.Board),
			zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": safeSummary(err)})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// safeSummary keeps the adapter's descriptive message but hides raw store
// errors, which can echo SQL.
func safeSummary(err error) string {
	msg := err.Error()
	if strings.HasPrefix(msg, "ai adapter:") {
		return msg
	}
	return "Failed to process query"
}
