package controller

import (
	"net/http"
	"time"

	"picword_backend/internal/model"
	"picword_backend/internal/repository"
	"picword_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type ImageController struct {
	images  *service.ImageService
	records *repository.RecordRepository
}

func NewImageController(images *service.ImageService, records *repository.RecordRepository) *ImageController {
	return &ImageController{images: images, records: records}
}

// GenerateImage 處理插圖生成請求
// @Summary 依造句生成插圖
// @Description 以學生造句生成插圖並回傳 base64 內容；成功才記錄互動
// @Tags 生圖
// @Accept json
// @Produce json
// @Param request body model.ImageRequest true "學生造句"
// @Success 200 {object} model.ImageResponse
// @Router /api/generate_image [post]
func (c *ImageController) GenerateImage(ctx *gin.Context) {
	var req model.ImageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if req.Level == 0 {
		req.Level = 1
	}

	imageData, err := c.images.Generate(req.UserSentence)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "圖片生成失敗"})
		return
	}

	c.records.Append(model.InteractionRecord{
		Timestamp:     time.Now().Format("2006-01-02 15:04:05"),
		Level:         req.Level,
		FeedbackRound: "生成圖片階段",
		SelectedWords: req.SelectedWords,
		UserSentence:  req.UserSentence,
		AIFeedback:    "N/A",
		WordStars:     req.WordStars,
		SentenceStars: req.SentenceStars,
	})

	ctx.JSON(http.StatusOK, model.ImageResponse{ImageData: imageData})
}
