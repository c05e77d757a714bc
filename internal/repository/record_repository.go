package repository

import (
	"encoding/csv"
	"os"
	"sync"

	"picword_backend/internal/model"
	"picword_backend/pkg/logger"

	"go.uber.org/zap"
)

// utf8BOM 讓 Excel 能正確識別 UTF-8 編碼
const utf8BOM = "\xEF\xBB\xBF"

// RecordRepository 互動流水記錄，追加單寫。
// 寫入失敗只記日誌，絕不讓記錄失敗影響請求本身。
type RecordRepository struct {
	mu   sync.Mutex
	path string
}

func NewRecordRepository(path string) *RecordRepository {
	return &RecordRepository{path: path}
}

// Append 追加一行記錄，首次寫入時先寫 BOM 與表頭
func (r *RecordRepository) Append(rec model.InteractionRecord) {
	if err := r.append(rec); err != nil {
		logger.Log.Error("CSV 寫入失敗", zap.String("path", r.path), zap.Error(err))
	}
}

func (r *RecordRepository) append(rec model.InteractionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, statErr := os.Stat(r.path)
	fileExists := statErr == nil

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if !fileExists {
		if _, err := f.WriteString(utf8BOM); err != nil {
			return err
		}
	}

	w := csv.NewWriter(f)
	if !fileExists {
		if err := w.Write(model.RecordColumns); err != nil {
			return err
		}
	}
	if err := w.Write(rec.Row()); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
