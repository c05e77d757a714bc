package controller

import (
	"picword_backend/internal/repository"
	"picword_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	levels *repository.LevelRepository
}

func NewHealthController(levels *repository.LevelRepository) *HealthController {
	return &HealthController{levels: levels}
}

// HealthCheck 健康檢查
// @Summary 健康檢查
// @Description 檢查服務狀態與已載入的關卡數
// @Tags 系統
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"levels": c.levels.Count(),
		},
	})
}
