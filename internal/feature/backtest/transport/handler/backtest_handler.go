// Package handler はbacktestフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"xauusd_backend/internal/api"
	"xauusd_backend/internal/feature/backtest/domain"
	"xauusd_backend/internal/feature/backtest/domain/entity"
	"xauusd_backend/internal/feature/backtest/transport/http/dto"
	"xauusd_backend/internal/feature/backtest/usecase"
	seriesdomain "xauusd_backend/internal/feature/series/domain"
)

// BacktestUsecase はバックテストのユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type BacktestUsecase interface {
	RunBacktest(ctx context.Context, req usecase.RunRequest) (entity.BacktestResults, error)
	RequestSummary(ctx context.Context, req usecase.RunRequest) (string, error)
	GetSummary(ctx context.Context, id string) (entity.SummaryJob, error)
}

// BacktestHandler はバックテストのHTTPリクエストを処理します。
type BacktestHandler struct {
	uc BacktestUsecase
}

// NewBacktestHandler は指定されたusecaseでBacktestHandlerの新しいインスタンスを生成します。
func NewBacktestHandler(uc BacktestUsecase) *BacktestHandler {
	return &BacktestHandler{uc: uc}
}

// RunBacktestHandler はリクエストボディの条件でバックテストを実行し、結果をJSONで返します。
//
// エンドポイント例:
// POST /v1/backtest {"timeframe":"15m","count":1500,"seed":42,"visible":800,"params":{"rsiPeriod":14}}
func (h *BacktestHandler) RunBacktestHandler(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}

	res, err := h.uc.RunBacktest(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FromResults(res))
}

// RequestSummaryHandler はAIサマリー生成ジョブを受け付け、202とジョブIDを返します。
//
// エンドポイント例:
// POST /v1/backtest/summary
func (h *BacktestHandler) RequestSummaryHandler(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}

	id, err := h.uc.RequestSummary(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, dto.SummaryAcceptedResponse{ID: id})
}

// GetSummaryHandler はサマリージョブの状態を返します。
//
// エンドポイント例:
// GET /v1/backtest/summary/:id
func (h *BacktestHandler) GetSummaryHandler(c *gin.Context) {
	job, err := h.uc.GetSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FromSummary(job))
}

// bindRequest はボディを読み取り、失敗時は400を書き込みます。空のボディはすべてデフォルト値として扱います。
func bindRequest(c *gin.Context) (usecase.RunRequest, bool) {
	var body dto.BacktestRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return usecase.RunRequest{}, false
	}
	return usecase.RunRequest{
		Timeframe: body.Timeframe,
		Count:     body.Count,
		Seed:      body.Seed,
		Visible:   body.Visible,
		Params:    body.StrategyParams(),
	}, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidParams),
		errors.Is(err, domain.ErrInvalidVisible),
		errors.Is(err, seriesdomain.ErrUnknownTimeframe),
		errors.Is(err, seriesdomain.ErrInvalidCount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSummaryNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
