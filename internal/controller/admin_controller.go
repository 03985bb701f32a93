package controller

import (
	"eduai_backend/internal/repository"
	"eduai_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	userRepo  *repository.UserRepository
	queryRepo *repository.QueryRepository
}

func NewAdminController(userRepo *repository.UserRepository, queryRepo *repository.QueryRepository) *AdminController {
	return &AdminController{userRepo: userRepo, queryRepo: queryRepo}
}

// GetStats godoc
// @Summary Platform totals
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Failure 403 {object} util.Response
// @Router /api/admin/stats [get]
func (c *AdminController) GetStats(ctx *gin.Context) {
	users, err := c.userRepo.Count()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	queries, err := c.queryRepo.Count()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"users":   users,
		"queries": queries,
	})
}
