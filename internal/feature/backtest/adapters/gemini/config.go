package gemini

import (
	"os"
	"time"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
	// DefaultTimeout はHTTPクライアント全体のタイムアウトです。
	DefaultTimeout = 60 * time.Second
)

// Config はGeminiクライアントの設定です。
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// LoadConfig は環境変数から設定を読み込みます。
// GEMINI_API_KEY が空の場合はADC（GOOGLE_GENAI_USE_VERTEXAI など）を使用します。
func LoadConfig() Config {
	cfg := Config{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		Model:   os.Getenv("GEMINI_MODEL"),
		Timeout: DefaultTimeout,
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if v := os.Getenv("GEMINI_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	return cfg
}
