package service

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"picword_backend/internal/config"
	"picword_backend/pkg/monitoring"
)

// FailureKind 區分回饋失敗的種類，讓呼叫方能分辨
// 「AI 回了這句話」和「呼叫失敗的固定文案」。
type FailureKind int

const (
	FailureNone FailureKind = iota
	// FailureNotConfigured API Key 未配置，直接降級，不發網路請求
	FailureNotConfigured
	// FailureConnection 最後一次嘗試仍然連線異常
	FailureConnection
	// FailureEmptyContent 上游回應成功但內容為空，不重試
	FailureEmptyContent
	// FailureExhausted 重試次數用盡（連續限流）
	FailureExhausted
)

// Result 文字回饋呼叫結果
type Result struct {
	Text    string
	Failure FailureKind
}

func (r Result) OK() bool {
	return r.Failure == FailureNone
}

// Feedback 成功時回傳生成文字，失敗時回傳對應的固定文案
func (r Result) Feedback() string {
	switch r.Failure {
	case FailureNone:
		return r.Text
	case FailureNotConfigured:
		return "回饋失敗：AI 服務未配置 (API Key 缺失)。"
	case FailureConnection:
		return "回饋失敗：AI 老師連線異常，請稍後再試。"
	case FailureEmptyContent:
		return "回饋失敗：內容生成空值。"
	default:
		return "回饋失敗。"
	}
}

// GeminiService 文字回饋客戶端。帶重試機制解決 429 限流：
// 最多 3 次嘗試，限流按 (attempt+1)*2 秒線性退避，
// 其他異常固定等 1 秒，最後一次異常轉為固定文案，不向上拋。
type GeminiService struct {
	cfg    config.AIConfig
	client *http.Client

	// 測試時可替換，避免真實等待
	sleep func(time.Duration)
}

func NewGeminiService(cfg config.AIConfig) *GeminiService {
	return &GeminiService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		sleep:  time.Sleep,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiRequest struct {
	Contents          []geminiContent        `json:"contents"`
	SystemInstruction geminiContent          `json:"systemInstruction"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate 以 system instruction + prompt 呼叫 generateContent
func (s *GeminiService) Generate(prompt, systemInstruction string) Result {
	if s.cfg.APIKey == "" {
		return Result{Failure: FailureNotConfigured}
	}

	url := s.cfg.BaseURL + s.cfg.Model + ":generateContent?key=" + s.cfg.APIKey
	payload, err := json.Marshal(geminiRequest{
		Contents:          []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		SystemInstruction: geminiContent{Parts: []geminiPart{{Text: systemInstruction}}},
		GenerationConfig:  geminiGenerationConfig{Temperature: s.cfg.Temperature},
	})
	if err != nil {
		return Result{Failure: FailureConnection}
	}

	maxRetries := s.cfg.MaxRetries
	for attempt := 0; attempt < maxRetries; attempt++ {
		start := time.Now()

		resp, err := s.client.Post(url, "application/json", bytes.NewReader(payload))
		if err != nil {
			monitoring.ObserveUpstream("gemini", "error", start)
			if attempt == maxRetries-1 {
				return Result{Failure: FailureConnection}
			}
			s.sleep(time.Second)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			monitoring.ObserveUpstream("gemini", "rate_limited", start)
			if attempt < maxRetries-1 {
				s.sleep(time.Duration(attempt+1) * 2 * time.Second)
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK || readErr != nil {
			monitoring.ObserveUpstream("gemini", "error", start)
			if attempt == maxRetries-1 {
				return Result{Failure: FailureConnection}
			}
			s.sleep(time.Second)
			continue
		}

		var parsed geminiResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			monitoring.ObserveUpstream("gemini", "error", start)
			if attempt == maxRetries-1 {
				return Result{Failure: FailureConnection}
			}
			s.sleep(time.Second)
			continue
		}

		text := firstPartText(parsed)
		if strings.TrimSpace(text) == "" {
			monitoring.ObserveUpstream("gemini", "empty", start)
			return Result{Failure: FailureEmptyContent}
		}

		monitoring.ObserveUpstream("gemini", "success", start)
		return Result{Text: strings.TrimSpace(text)}
	}

	return Result{Failure: FailureExhausted}
}

func firstPartText(resp geminiResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	return parts[0].Text
}
