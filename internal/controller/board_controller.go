package controller

import (
	"eduai_backend/internal/model"
	"eduai_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BoardController struct{}

func NewBoardController() *BoardController {
	return &BoardController{}
}

// ListBoards godoc
// @Summary Supported curriculum boards
// @Tags boards
// @Produce json
// @Success 200 {object} util.Response{data=object}
// @Router /api/boards [get]
func (c *BoardController) ListBoards(ctx *gin.Context) {
	util.Success(ctx, gin.H{"boards": model.Boards()})
}
