// Package router registers every HTTP route of the service.
package router

import (
	"github.com/gin-gonic/gin"

	backtesthandler "xauusd_backend/internal/feature/backtest/transport/handler"
	serieshandler "xauusd_backend/internal/feature/series/transport/handler"
	structurehandler "xauusd_backend/internal/feature/structure/transport/handler"
	healthhandler "xauusd_backend/internal/platform/http/handler"
	jwtmw "xauusd_backend/internal/platform/jwt"
)

// Handlers はルーターに登録するハンドラー一式です。
type Handlers struct {
	Health    *healthhandler.HealthHandler
	Series    *serieshandler.SeriesHandler
	Backtest  *backtesthandler.BacktestHandler
	Structure *structurehandler.StructureHandler
}

// NewRouter はルーターを生成します。jwtSecret が空の場合 /v1 は認証なしで公開されます。
func NewRouter(h Handlers, jwtSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// 導通確認用（認証不要）
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)

	v1 := r.Group("/v1")
	if jwtSecret != "" {
		v1.Use(jwtmw.AuthRequired(jwtSecret))
	}
	{
		v1.GET("/timeframes", h.Series.ListTimeframesHandler)
		v1.GET("/series", h.Series.GetSeriesHandler)
		v1.GET("/structure", h.Structure.GetStructureHandler)
		v1.POST("/backtest", h.Backtest.RunBacktestHandler)
		v1.POST("/backtest/summary", h.Backtest.RequestSummaryHandler)
		v1.GET("/backtest/summary/:id", h.Backtest.GetSummaryHandler)
	}

	return r
}
