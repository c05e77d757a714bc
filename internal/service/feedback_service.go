package service

import (
	"fmt"
	"strings"

	"picword_backend/internal/model"
)

// systemInstruction 回饋老師的人設與三條規則
const systemInstruction = "你是一位國中一年級英文老師。請根據『原始圖片包含的正確單字』進行回饋。" +
	"1. 禁止使用任何 Markdown 符號（如 ** 或 __）。" +
	"2. 單字提示：請針對『學生遺漏的所有正確單字』逐一提供外觀、特徵或位置線索，不准說出英文單字本身。" +
	"3. 畫面引導：必須嚴格參考『原始圖片正確單字』。每次建議增加一個簡單細節。"

// FeedbackService 把學生的選字、造句與關卡答案組合成分析請求，
// 呼叫文字回饋客戶端並整理回傳文字。
type FeedbackService struct {
	ai *GeminiService
}

func NewFeedbackService(ai *GeminiService) *FeedbackService {
	return &FeedbackService{ai: ai}
}

// Classify 將學生選字對照標準答案做三分（大小寫不敏感，保留選字順序）：
// 選對的、選錯的、遺漏的。
func (s *FeedbackService) Classify(selected, answers []string) model.WordClassification {
	answerSet := make(map[string]bool, len(answers))
	for _, a := range answers {
		answerSet[strings.ToLower(a)] = true
	}
	selectedSet := make(map[string]bool, len(selected))
	for _, w := range selected {
		selectedSet[strings.ToLower(w)] = true
	}

	var cls model.WordClassification
	for _, w := range selected {
		if answerSet[strings.ToLower(w)] {
			cls.CorrectSelected = append(cls.CorrectSelected, w)
		} else {
			cls.WrongSelected = append(cls.WrongSelected, w)
		}
	}
	for _, a := range answers {
		if !selectedSet[strings.ToLower(a)] {
			cls.MissingWords = append(cls.MissingWords, a)
		}
	}
	return cls
}

// Analyze 產生對學生造句的自然語言回饋。
// 上游失敗時回傳對應的固定文案，錯誤不向呼叫方傳播。
func (s *FeedbackService) Analyze(userSentence string, selected, answers []string, sentencePrompt string) string {
	cls := s.Classify(selected, answers)

	prompt := fmt.Sprintf(
		"【事實參考】\n"+
			"圖片中真實存在的正確單字: %s\n"+
			"學生選中的正確單字: %s\n"+
			"學生選錯的單字: %s"+
			"學生遺漏的單字: %s"+
			"學生目前造句: 『%s』\n"+
			"要求句型: 『%s』\n\n"+
			"請務必依照以下編號順序回報，以下三個段落每段之間換一行即可："+
			"1. 單字提示：針對遺漏單字提供線索"+
			"2. 文法修正：檢查句子文法與單字拼法"+
			"3. 畫面引導建議：如何讓句子更接近圖片內容",
		strings.Join(answers, ", "),
		strings.Join(cls.CorrectSelected, ", "),
		strings.Join(cls.WrongSelected, ", "),
		strings.Join(cls.MissingWords, ", "),
		userSentence,
		sentencePrompt,
	)

	critique := s.ai.Generate(prompt, systemInstruction).Feedback()

	// 確保 "1. " 之前有換行，讓三段提示分開呈現。
	// 上游輸出格式沒有保證，這裡只做盡力而為的整理。
	return strings.ReplaceAll(critique, "1. ", "\n1. ")
}
