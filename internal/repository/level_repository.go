package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"picword_backend/internal/model"
)

// LevelRepository 關卡定義倉庫。啟動時從靜態 JSON 一次性載入，
// 答案單字統一轉小寫，運行期間只讀。
type LevelRepository struct {
	levels map[int]model.Level
}

func NewLevelRepository(path string) (*LevelRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read levels file: %w", err)
	}

	var defs []model.Level
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parse levels file: %w", err)
	}

	levels := make(map[int]model.Level, len(defs))
	for _, def := range defs {
		answers := make([]string, len(def.Answer))
		for i, a := range def.Answer {
			answers[i] = strings.ToLower(a)
		}
		def.Answer = answers
		levels[def.Level] = def
	}

	return &LevelRepository{levels: levels}, nil
}

// Answers 回傳指定關卡的標準答案（小寫）。
// 關卡不存在時回傳空集合，沿用前端容錯行為，不視為錯誤。
func (r *LevelRepository) Answers(level int) []string {
	def, ok := r.levels[level]
	if !ok {
		return nil
	}
	return def.Answer
}

func (r *LevelRepository) Count() int {
	return len(r.levels)
}
