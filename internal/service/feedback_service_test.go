package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
)

func newFeedbackService(ts *httptest.Server) *FeedbackService {
	ai, _ := newTestGemini(testAIConfig(ts.URL+"/v1beta/models/", "k"))
	return NewFeedbackService(ai)
}

func TestClassifyPartitions(t *testing.T) {
	s := NewFeedbackService(nil)

	cases := []struct {
		name     string
		selected []string
		answers  []string
		correct  []string
		wrong    []string
		missing  []string
	}{
		{
			name:     "mixed case selection",
			selected: []string{"Apple", "Dog"},
			answers:  []string{"apple", "tree"},
			correct:  []string{"Apple"},
			wrong:    []string{"Dog"},
			missing:  []string{"tree"},
		},
		{
			name:     "all found",
			selected: []string{"CAT", "ball"},
			answers:  []string{"cat", "ball"},
			correct:  []string{"CAT", "ball"},
			wrong:    nil,
			missing:  nil,
		},
		{
			name:     "nothing selected",
			selected: nil,
			answers:  []string{"sun", "tree"},
			correct:  nil,
			wrong:    nil,
			missing:  []string{"sun", "tree"},
		},
		{
			name:     "empty answer set",
			selected: []string{"dog"},
			answers:  nil,
			correct:  nil,
			wrong:    []string{"dog"},
			missing:  nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cls := s.Classify(tc.selected, tc.answers)
			if !equalStrings(cls.CorrectSelected, tc.correct) {
				t.Errorf("correct = %v, want %v", cls.CorrectSelected, tc.correct)
			}
			if !equalStrings(cls.WrongSelected, tc.wrong) {
				t.Errorf("wrong = %v, want %v", cls.WrongSelected, tc.wrong)
			}
			if !equalStrings(cls.MissingWords, tc.missing) {
				t.Errorf("missing = %v, want %v", cls.MissingWords, tc.missing)
			}
		})
	}
}

// 三分結果折疊大小寫後應恰好重組出選字集與答案集
func TestClassifyReconstructsSets(t *testing.T) {
	s := NewFeedbackService(nil)

	selected := []string{"Apple", "Dog", "TREE", "fish"}
	answers := []string{"apple", "tree", "sun"}

	cls := s.Classify(selected, answers)

	gotSelected := foldSorted(append(append([]string{}, cls.CorrectSelected...), cls.WrongSelected...))
	wantSelected := foldSorted(selected)
	if !equalStrings(gotSelected, wantSelected) {
		t.Errorf("correct ∪ wrong = %v, want selected set %v", gotSelected, wantSelected)
	}

	gotAnswers := foldSorted(append(append([]string{}, cls.CorrectSelected...), cls.MissingWords...))
	wantAnswers := foldSorted(answers)
	if !equalStrings(gotAnswers, wantAnswers) {
		t.Errorf("correct ∪ missing = %v, want answer set %v", gotAnswers, wantAnswers)
	}
}

func TestAnalyzePromptComposition(t *testing.T) {
	var gotPrompt, gotInstruction string
	ts := newCapturingGeminiServer(t, &gotPrompt, &gotInstruction, "1. 提示")
	defer ts.Close()

	s := newFeedbackService(ts)
	s.Analyze("I see an apple.", []string{"Apple", "Dog"}, []string{"apple", "tree"}, "I see a ...")

	for _, want := range []string{
		"圖片中真實存在的正確單字: apple, tree",
		"學生選中的正確單字: Apple",
		"學生選錯的單字: Dog",
		"學生遺漏的單字: tree",
		"學生目前造句: 『I see an apple.』",
		"要求句型: 『I see a ...』",
		"1. 單字提示",
		"2. 文法修正",
		"3. 畫面引導建議",
	} {
		if !strings.Contains(gotPrompt, want) {
			t.Errorf("prompt missing %q\nprompt: %s", want, gotPrompt)
		}
	}

	for _, want := range []string{
		"國中一年級英文老師",
		"禁止使用任何 Markdown 符號",
		"不准說出英文單字本身",
	} {
		if !strings.Contains(gotInstruction, want) {
			t.Errorf("instruction missing %q", want)
		}
	}
}

func TestAnalyzeInsertsNewlineBeforeMarker(t *testing.T) {
	ts := newFixedGeminiServer("1. 單字提示內容 2. 文法修正內容")
	defer ts.Close()

	s := newFeedbackService(ts)
	got := s.Analyze("a sentence", nil, []string{"apple"}, "pattern")

	if !strings.HasPrefix(got, "\n1. ") {
		t.Fatalf("expected feedback to start with newline before marker, got %q", got)
	}
}

// 上游失敗時 Analyze 回傳固定文案，不把錯誤往外拋
func TestAnalyzeConvertsFailureToFixedMessage(t *testing.T) {
	ts := newFixedGeminiServer("")
	ts.Close()

	s := newFeedbackService(ts)
	got := s.Analyze("a sentence", nil, []string{"apple"}, "pattern")

	if got != "回饋失敗：AI 老師連線異常，請稍後再試。" {
		t.Fatalf("unexpected feedback: %q", got)
	}
}

func newFixedGeminiServer(text string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiBody(text)))
	}))
}

func newCapturingGeminiServer(t *testing.T, prompt, instruction *string, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			*prompt = req.Contents[0].Parts[0].Text
		}
		if len(req.SystemInstruction.Parts) > 0 {
			*instruction = req.SystemInstruction.Parts[0].Text
		}
		w.Write([]byte(geminiBody(reply)))
	}))
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func foldSorted(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	sort.Strings(out)
	return out
}
