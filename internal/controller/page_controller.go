package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageController 靜態頁面，不含業務邏輯
type PageController struct{}

func NewPageController() *PageController {
	return &PageController{}
}

func (c *PageController) Home(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "index.html", nil)
}

func (c *PageController) EasyMode(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "easy_mode.html", nil)
}

func (c *PageController) HardMode(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "hard_mode.html", nil)
}
