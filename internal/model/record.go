package model

import (
	"strconv"
	"strings"
)

// RecordColumns 流水記錄欄位，順序固定
var RecordColumns = []string{
	"timestamp", "level", "feedback_round", "selected_words",
	"user_sentence", "ai_feedback", "word_stars", "sentence_stars", "total_stars",
}

// InteractionRecord 一次互動對應一行，只追加，不更新不刪除
type InteractionRecord struct {
	Timestamp     string
	Level         int
	FeedbackRound string
	SelectedWords []string
	UserSentence  string
	AIFeedback    string
	WordStars     int
	SentenceStars int
}

// TotalStars 前端算好的星星直接相加，不做裁剪
func (r InteractionRecord) TotalStars() int {
	return r.WordStars + r.SentenceStars
}

// Row 依 RecordColumns 順序展開；AI 回饋中的換行攤平成空格
func (r InteractionRecord) Row() []string {
	return []string{
		r.Timestamp,
		strconv.Itoa(r.Level),
		r.FeedbackRound,
		strings.Join(r.SelectedWords, ","),
		r.UserSentence,
		strings.ReplaceAll(r.AIFeedback, "\n", " "),
		strconv.Itoa(r.WordStars),
		strconv.Itoa(r.SentenceStars),
		strconv.Itoa(r.TotalStars()),
	}
}
