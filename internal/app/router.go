package app

import (
	"picword_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 頁面路由
	router.GET("/", c.page.Home)
	router.GET("/easy", c.page.EasyMode)
	router.GET("/hard", c.page.HardMode)

	// API 路由
	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)
		api.POST("/ai_feedback", c.feedback.GetAIFeedback)
		api.POST("/generate_image", c.image.GenerateImage)
	}
}
