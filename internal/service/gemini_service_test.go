package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"picword_backend/internal/config"
)

func testAIConfig(baseURL, key string) config.AIConfig {
	return config.AIConfig{
		BaseURL:     baseURL,
		APIKey:      key,
		Model:       "test-model",
		Temperature: 0.5,
		Timeout:     15 * time.Second,
		MaxRetries:  3,
	}
}

func geminiBody(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	})
	return string(b)
}

func newTestGemini(cfg config.AIConfig) (*GeminiService, *[]time.Duration) {
	s := NewGeminiService(cfg)
	var slept []time.Duration
	s.sleep = func(d time.Duration) { slept = append(slept, d) }
	return s, &slept
}

func TestGenerateMissingKeyNoNetworkCall(t *testing.T) {
	var calls int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer ts.Close()

	s, _ := newTestGemini(testAIConfig(ts.URL+"/v1beta/models/", ""))
	res := s.Generate("prompt", "instruction")

	if res.Failure != FailureNotConfigured {
		t.Fatalf("expected FailureNotConfigured, got %v", res.Failure)
	}
	if got := atomic.LoadInt64(&calls); got != 0 {
		t.Fatalf("expected zero network calls, got %d", got)
	}
	if res.Feedback() != "回饋失敗：AI 服務未配置 (API Key 缺失)。" {
		t.Fatalf("unexpected feedback: %q", res.Feedback())
	}
}

func TestGenerateSuccessTrimsText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiBody("  好句子！\n")))
	}))
	defer ts.Close()

	s, slept := newTestGemini(testAIConfig(ts.URL+"/v1beta/models/", "k"))
	res := s.Generate("prompt", "instruction")

	if !res.OK() {
		t.Fatalf("expected success, got failure %v", res.Failure)
	}
	if res.Text != "好句子！" {
		t.Fatalf("expected trimmed text, got %q", res.Text)
	}
	if len(*slept) != 0 {
		t.Fatalf("expected no waits on success, got %v", *slept)
	}
}

func TestGenerateRequestPayload(t *testing.T) {
	var captured geminiRequest
	var path, query string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		query = r.URL.RawQuery
		json.NewDecoder(r.Body).Decode(&captured)
		w.Write([]byte(geminiBody("ok")))
	}))
	defer ts.Close()

	s, _ := newTestGemini(testAIConfig(ts.URL+"/v1beta/models/", "secret"))
	s.Generate("造句內容", "老師人設")

	if path != "/v1beta/models/test-model:generateContent" {
		t.Fatalf("unexpected path: %s", path)
	}
	if query != "key=secret" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(captured.Contents) != 1 || len(captured.Contents[0].Parts) != 1 || captured.Contents[0].Parts[0].Text != "造句內容" {
		t.Fatalf("unexpected contents: %+v", captured.Contents)
	}
	if len(captured.SystemInstruction.Parts) != 1 || captured.SystemInstruction.Parts[0].Text != "老師人設" {
		t.Fatalf("unexpected systemInstruction: %+v", captured.SystemInstruction)
	}
	if captured.GenerationConfig.Temperature != 0.5 {
		t.Fatalf("unexpected temperature: %v", captured.GenerationConfig.Temperature)
	}
}

func TestGenerateRateLimitedBackoffThenExhausted(t *testing.T) {
	var calls int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	s, slept := newTestGemini(testAIConfig(ts.URL+"/v1beta/models/", "k"))
	res := s.Generate("prompt", "instruction")

	if res.Failure != FailureExhausted {
		t.Fatalf("expected FailureExhausted, got %v", res.Failure)
	}
	if got := atomic.LoadInt64(&calls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(*slept) != len(want) {
		t.Fatalf("expected waits %v, got %v", want, *slept)
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Fatalf("expected waits %v, got %v", want, *slept)
		}
	}
	if res.Feedback() != "回饋失敗。" {
		t.Fatalf("unexpected feedback: %q", res.Feedback())
	}
}

func TestGenerateNetworkErrorEveryAttempt(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // 立刻關閉，讓每次連線都失敗

	s, slept := newTestGemini(testAIConfig(ts.URL+"/v1beta/models/", "k"))
	res := s.Generate("prompt", "instruction")

	if res.Failure != FailureConnection {
		t.Fatalf("expected FailureConnection, got %v", res.Failure)
	}
	want := []time.Duration{time.Second, time.Second}
	if len(*slept) != len(want) {
		t.Fatalf("expected waits %v, got %v", want, *slept)
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Fatalf("expected waits %v, got %v", want, *slept)
		}
	}
	if res.Feedback() != "回饋失敗：AI 老師連線異常，請稍後再試。" {
		t.Fatalf("unexpected feedback: %q", res.Feedback())
	}
}

func TestGenerateServerErrorRetriedThenConnectionFailure(t *testing.T) {
	var calls int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	s, slept := newTestGemini(testAIConfig(ts.URL+"/v1beta/models/", "k"))
	res := s.Generate("prompt", "instruction")

	if res.Failure != FailureConnection {
		t.Fatalf("expected FailureConnection, got %v", res.Failure)
	}
	if got := atomic.LoadInt64(&calls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
	if len(*slept) != 2 {
		t.Fatalf("expected 2 waits, got %v", *slept)
	}
}

func TestGenerateEmptyContentNotRetried(t *testing.T) {
	var calls int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.Write([]byte(geminiBody("   ")))
	}))
	defer ts.Close()

	s, slept := newTestGemini(testAIConfig(ts.URL+"/v1beta/models/", "k"))
	res := s.Generate("prompt", "instruction")

	if res.Failure != FailureEmptyContent {
		t.Fatalf("expected FailureEmptyContent, got %v", res.Failure)
	}
	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("expected single attempt, got %d", got)
	}
	if len(*slept) != 0 {
		t.Fatalf("expected no waits, got %v", *slept)
	}
	if res.Feedback() != "回饋失敗：內容生成空值。" {
		t.Fatalf("unexpected feedback: %q", res.Feedback())
	}
}

func TestGenerateRateLimitedThenSuccess(t *testing.T) {
	var calls int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(geminiBody("第二次成功")))
	}))
	defer ts.Close()

	s, slept := newTestGemini(testAIConfig(ts.URL+"/v1beta/models/", "k"))
	res := s.Generate("prompt", "instruction")

	if !res.OK() || res.Text != "第二次成功" {
		t.Fatalf("expected success on second attempt, got %+v", res)
	}
	if len(*slept) != 1 || (*slept)[0] != 2*time.Second {
		t.Fatalf("expected single 2s wait, got %v", *slept)
	}
}
