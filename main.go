package main

import (
	"flag"
	"log"

	"picword_backend/internal/app"
	"picword_backend/internal/config"
	"picword_backend/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "configs", "配置文件目錄")
	flag.Parse()

	// 開發環境下從 .env 讀取 GEMINI_API_KEY 等環境變數
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	application.Run()
}
