// Package handler はstructureフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"xauusd_backend/internal/api"
	seriesdomain "xauusd_backend/internal/feature/series/domain"
	"xauusd_backend/internal/feature/structure/domain"
	"xauusd_backend/internal/feature/structure/domain/entity"
	"xauusd_backend/internal/feature/structure/transport/http/dto"
)

// StructureUsecase は相場構造検出のユースケースインターフェースを定義します。
type StructureUsecase interface {
	GetStructure(ctx context.Context, timeframe string, count int, seed uint64, visible int) (entity.Structure, error)
}

// StructureHandler はピボットと需給ゾーンのHTTPリクエストを処理します。
type StructureHandler struct {
	uc StructureUsecase
}

// NewStructureHandler はStructureHandlerの新しいインスタンスを生成します。
func NewStructureHandler(uc StructureUsecase) *StructureHandler {
	return &StructureHandler{uc: uc}
}

// GetStructureHandler はリプレイ範囲のピボットと需給ゾーンを返します。
//
// エンドポイント例:
// GET /v1/structure?timeframe=15m&count=1500&seed=42&visible=300
func (h *StructureHandler) GetStructureHandler(c *gin.Context) {
	timeframe := c.Query("timeframe")

	count, err := queryInt(c, "count")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid count"})
		return
	}
	visible, err := queryInt(c, "visible")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid visible"})
		return
	}
	var seed uint64
	if s := c.Query("seed"); s != "" {
		if seed, err = strconv.ParseUint(s, 10, 64); err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid seed"})
			return
		}
	}

	st, err := h.uc.GetStructure(c.Request.Context(), timeframe, count, seed, visible)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FromStructure(st))
}

func queryInt(c *gin.Context, key string) (int, error) {
	s := c.Query(key)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidVisible),
		errors.Is(err, seriesdomain.ErrUnknownTimeframe),
		errors.Is(err, seriesdomain.ErrInvalidCount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
