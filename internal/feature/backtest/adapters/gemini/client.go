// Package gemini はGoogle Gemini APIを使用したバックテスト解説クライアントを提供します。
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"xauusd_backend/internal/feature/backtest/domain/entity"
	"xauusd_backend/internal/feature/backtest/usecase"
)

// GeminiNarrator はGoogle Gemini APIを使用してバックテスト結果の解説を生成します。
type GeminiNarrator struct {
	client *genai.Client
	model  string
}

// GeminiNarratorがNarratorを実装していることをコンパイル時に検証します。
var _ usecase.Narrator = (*GeminiNarrator)(nil)

// NewGeminiNarrator はGeminiNarratorの新しいインスタンスを生成します。
// APIキーが設定されていればGemini APIを、なければADCの設定を使用します。
func NewGeminiNarrator(ctx context.Context, cfg Config, httpClient *http.Client) (*GeminiNarrator, error) {
	var cc *genai.ClientConfig
	if cfg.APIKey != "" {
		cc = &genai.ClientConfig{
			APIKey:     cfg.APIKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: httpClient,
		}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &GeminiNarrator{client: client, model: model}, nil
}

// Summarize はバックテスト結果とパラメータから解説文を生成します。
func (g *GeminiNarrator) Summarize(ctx context.Context, results entity.BacktestResults, params entity.StrategyParams) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(BuildPrompt(results, params)), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}
