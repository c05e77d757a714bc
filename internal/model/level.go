package model

// Level 關卡定義，從靜態 JSON 載入，運行期間只讀
type Level struct {
	Level  int      `json:"level"`
	Answer []string `json:"answer"`
}
