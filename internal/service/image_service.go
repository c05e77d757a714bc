package service

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"picword_backend/internal/config"
	"picword_backend/internal/util"
	"picword_backend/pkg/monitoring"
)

// 固定風格前綴，拼在學生句子前面
const imageStylePrefix = "children's book illustration style, simple, cute, "

// ImageService 生圖客戶端。單次請求不重試，
// 任何失敗一律回傳缺值，由上層決定如何回應。
type ImageService struct {
	cfg    config.ImageConfig
	client *http.Client

	// seed 取當下時間，相同句子重複呼叫也會有變化；測試時可替換
	now func() time.Time
}

func NewImageService(cfg config.ImageConfig) *ImageService {
	return &ImageService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		now:    time.Now,
	}
}

// Generate 依句子生成插圖，回傳 base64 編碼的圖片內容
func (s *ImageService) Generate(sentence string) (string, error) {
	if sentence == "" {
		return "", util.ErrEmptySentence
	}

	stylePrompt := imageStylePrefix + sentence
	imgURL := fmt.Sprintf("%s/prompt/%s?width=%d&height=%d&nologo=true&seed=%d&model=%s",
		s.cfg.BaseURL,
		url.PathEscape(stylePrompt),
		s.cfg.Width,
		s.cfg.Height,
		s.now().Unix(),
		s.cfg.Model,
	)

	start := time.Now()
	resp, err := s.client.Get(imgURL)
	if err != nil {
		monitoring.ObserveUpstream("image", "error", start)
		return "", util.ErrImageUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		monitoring.ObserveUpstream("image", "error", start)
		return "", util.ErrImageUnavailable
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		monitoring.ObserveUpstream("image", "error", start)
		return "", util.ErrImageUnavailable
	}

	monitoring.ObserveUpstream("image", "success", start)
	return base64.StdEncoding.EncodeToString(body), nil
}
