// Package handler はseriesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"xauusd_backend/internal/api"
	"xauusd_backend/internal/feature/series/domain"
	"xauusd_backend/internal/feature/series/domain/entity"
	"xauusd_backend/internal/feature/series/transport/http/dto"
)

// SeriesUsecase は系列取得のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type SeriesUsecase interface {
	GetSeries(ctx context.Context, timeframe string, count int, seed uint64) ([]entity.Candle, error)
}

// SeriesHandler は系列データのHTTPリクエストを処理します。
type SeriesHandler struct {
	uc SeriesUsecase
}

// NewSeriesHandler は指定されたusecaseでSeriesHandlerの新しいインスタンスを生成します。
func NewSeriesHandler(uc SeriesUsecase) *SeriesHandler {
	return &SeriesHandler{uc: uc}
}

// GetSeriesHandler は時間足・本数・シードを受け取り、合成ローソク足をJSONで返します。
//
// エンドポイント例:
// GET /v1/series?timeframe=15m&count=1500&seed=42
func (h *SeriesHandler) GetSeriesHandler(c *gin.Context) {
	timeframe := c.Query("timeframe")

	count, err := queryInt(c, "count")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid count"})
		return
	}
	seed, err := querySeed(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid seed"})
		return
	}

	candles, err := h.uc.GetSeries(c.Request.Context(), timeframe, count, seed)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FromCandles(candles))
}

// ListTimeframesHandler は対応している時間足の一覧を返します。
//
// エンドポイント例:
// GET /v1/timeframes
func (h *SeriesHandler) ListTimeframesHandler(c *gin.Context) {
	tfs := entity.Timeframes()
	out := make([]dto.TimeframeResponse, 0, len(tfs))
	for _, tf := range tfs {
		out = append(out, dto.TimeframeResponse{Timeframe: tf.String(), Seconds: tf.Seconds()})
	}
	c.JSON(http.StatusOK, out)
}

// queryInt は未指定なら0を返します。
func queryInt(c *gin.Context, key string) (int, error) {
	s := c.Query(key)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// querySeed は未指定なら0（デフォルトシード）を返します。
func querySeed(c *gin.Context) (uint64, error) {
	s := c.Query("seed")
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 10, 64)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownTimeframe), errors.Is(err, domain.ErrInvalidCount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
