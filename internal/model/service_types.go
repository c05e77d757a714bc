package model

// FeedbackRequest POST /api/ai_feedback 的請求體。
// correct_words 沿用前端既有欄位名，實際是學生選取的單字卡。
type FeedbackRequest struct {
	Level          int      `json:"level"`
	UserSentence   string   `json:"user_sentence"`
	SentencePrompt string   `json:"sentence_prompt"`
	SelectedWords  []string `json:"correct_words"`
	FeedbackCount  int      `json:"feedback_count"`
	WordStars      int      `json:"word_stars"`
	SentenceStars  int      `json:"sentence_stars"`
}

type FeedbackResponse struct {
	Feedback string `json:"feedback"`
}

// ImageRequest POST /api/generate_image 的請求體
type ImageRequest struct {
	UserSentence  string   `json:"user_sentence"`
	Level         int      `json:"level"`
	SelectedWords []string `json:"correct_words"`
	WordStars     int      `json:"word_stars"`
	SentenceStars int      `json:"sentence_stars"`
}

type ImageResponse struct {
	ImageData string `json:"image_data"`
}

// WordClassification 學生選字與標準答案的三分結果（大小寫不敏感）
type WordClassification struct {
	CorrectSelected []string
	WrongSelected   []string
	MissingWords    []string
}
