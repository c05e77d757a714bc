package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	AI        AIConfig        `mapstructure:"ai"`
	Image     ImageConfig     `mapstructure:"image"`
	Record    RecordConfig    `mapstructure:"record"`
	Levels    LevelsConfig    `mapstructure:"levels"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port string
	Mode string
}

// AIConfig 文字回饋服務（Gemini REST 接口）
type AIConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout_seconds"`
	MaxRetries  int           `mapstructure:"max_retries"`
}

// ImageConfig 生圖服務（URL 模板拼接，單次請求）
type ImageConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Width   int           `mapstructure:"width"`
	Height  int           `mapstructure:"height"`
	Timeout time.Duration `mapstructure:"timeout_seconds"`
}

type RecordConfig struct {
	Path string `mapstructure:"path"`
}

type LevelsConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	File string `mapstructure:"file"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("PICWORD")
	v.AutomaticEnv()

	// Server
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.mode", "SERVER_MODE")

	// AI（API Key 缺失不是錯誤，由服務層降級處理）
	v.BindEnv("ai.base_url", "AI_BASE_URL")
	v.BindEnv("ai.api_key", "GEMINI_API_KEY")
	v.BindEnv("ai.model", "AI_MODEL")

	// Image
	v.BindEnv("image.base_url", "IMAGE_BASE_URL")
	v.BindEnv("image.model", "IMAGE_MODEL")

	// Record / Levels
	v.BindEnv("record.path", "RECORD_PATH")
	v.BindEnv("levels.path", "LEVELS_PATH")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.AI.Timeout = cfg.AI.Timeout * time.Second
	cfg.Image.Timeout = cfg.Image.Timeout * time.Second

	applyDefaults(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "5000"
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = "https://generativelanguage.googleapis.com/v1beta/models/"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.5-flash-preview-09-2025"
	}
	if cfg.AI.Temperature == 0 {
		cfg.AI.Temperature = 0.5
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 15 * time.Second
	}
	if cfg.AI.MaxRetries == 0 {
		cfg.AI.MaxRetries = 3
	}
	if cfg.Image.BaseURL == "" {
		cfg.Image.BaseURL = "https://image.pollinations.ai"
	}
	if cfg.Image.Model == "" {
		cfg.Image.Model = "stable-diffusion-xl"
	}
	if cfg.Image.Width == 0 {
		cfg.Image.Width = 512
	}
	if cfg.Image.Height == 0 {
		cfg.Image.Height = 512
	}
	if cfg.Image.Timeout == 0 {
		cfg.Image.Timeout = 30 * time.Second
	}
	if cfg.Record.Path == "" {
		cfg.Record.Path = "record.csv"
	}
	if cfg.Levels.Path == "" {
		cfg.Levels.Path = "static/data/easy_mode.json"
	}
	if cfg.Log.File == "" {
		cfg.Log.File = "logs/app.log"
	}
}
