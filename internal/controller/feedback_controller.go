package controller

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"picword_backend/internal/model"
	"picword_backend/internal/repository"
	"picword_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type FeedbackController struct {
	feedback *service.FeedbackService
	levels   *repository.LevelRepository
	records  *repository.RecordRepository
}

func NewFeedbackController(feedback *service.FeedbackService, levels *repository.LevelRepository, records *repository.RecordRepository) *FeedbackController {
	return &FeedbackController{feedback: feedback, levels: levels, records: records}
}

// GetAIFeedback 處理造句回饋請求
// @Summary AI 造句回饋
// @Description 將學生的選字與造句交給 AI 老師產生回饋，並追加一行互動記錄
// @Tags 回饋
// @Accept json
// @Produce json
// @Param request body model.FeedbackRequest true "學生選字與造句"
// @Success 200 {object} model.FeedbackResponse
// @Router /api/ai_feedback [post]
func (c *FeedbackController) GetAIFeedback(ctx *gin.Context) {
	var req model.FeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusInternalServerError, model.FeedbackResponse{Feedback: "伺服器處理錯誤。"})
		return
	}
	if req.Level == 0 {
		req.Level = 1
	}

	userSentence := strings.TrimSpace(req.UserSentence)
	sentencePrompt := strings.TrimSpace(req.SentencePrompt)
	answers := c.levels.Answers(req.Level)

	feedback := c.feedback.Analyze(userSentence, req.SelectedWords, answers, sentencePrompt)

	c.records.Append(model.InteractionRecord{
		Timestamp:     time.Now().Format("2006-01-02 15:04:05"),
		Level:         req.Level,
		FeedbackRound: fmt.Sprintf("第%d次回饋", req.FeedbackCount+1),
		SelectedWords: req.SelectedWords,
		UserSentence:  userSentence,
		AIFeedback:    feedback,
		WordStars:     req.WordStars,
		SentenceStars: req.SentenceStars,
	})

	ctx.JSON(http.StatusOK, model.FeedbackResponse{Feedback: feedback})
}
