package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xauusd_backend/internal/app/router"
	"xauusd_backend/internal/feature/backtest/adapters/memory"
	backtesthandler "xauusd_backend/internal/feature/backtest/transport/handler"
	backtestusecase "xauusd_backend/internal/feature/backtest/usecase"
	serieshandler "xauusd_backend/internal/feature/series/transport/handler"
	seriesusecase "xauusd_backend/internal/feature/series/usecase"
	structurehandler "xauusd_backend/internal/feature/structure/transport/handler"
	structureusecase "xauusd_backend/internal/feature/structure/usecase"
	healthhandler "xauusd_backend/internal/platform/http/handler"
	jwtmw "xauusd_backend/internal/platform/jwt"
)

// newTestRouter は保存先なし・ナレーターなしの構成でルーターを組み立てます。
func newTestRouter(t *testing.T, secret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	seriesUC := seriesusecase.NewSeriesUsecase(nil)
	backtestUC := backtestusecase.NewBacktestUsecase(seriesUC, nil, memory.NewSummaryStore(16), nil, time.Second)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = backtestUC.Close(ctx)
	})

	return router.NewRouter(router.Handlers{
		Health:    healthhandler.NewHealthHandler(),
		Series:    serieshandler.NewSeriesHandler(seriesUC),
		Backtest:  backtesthandler.NewBacktestHandler(backtestUC),
		Structure: structurehandler.NewStructureHandler(structureusecase.NewStructureUsecase(seriesUC)),
	}, secret)
}

func do(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestRouter_Auth(t *testing.T) {
	const secret = "router-secret"
	token, err := jwtmw.NewGenerator(secret, time.Minute).GenerateToken("operator")
	require.NoError(t, err)

	tests := []struct {
		name           string
		secret         string
		path           string
		token          string
		expectedStatus int
	}{
		{name: "healthz is public", secret: secret, path: "/healthz", expectedStatus: http.StatusOK},
		{name: "v1 open without secret", secret: "", path: "/v1/timeframes", expectedStatus: http.StatusOK},
		{name: "v1 requires token with secret", secret: secret, path: "/v1/timeframes", expectedStatus: http.StatusUnauthorized},
		{name: "v1 accepts minted token", secret: secret, path: "/v1/timeframes", token: token, expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(newTestRouter(t, tt.secret), http.MethodGet, tt.path, "", tt.token)
			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestRouter_SeriesBacktestStructure(t *testing.T) {
	r := newTestRouter(t, "")

	rr := do(r, http.MethodGet, "/v1/series?timeframe=1h&count=200&seed=3", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var candles []map[string]float64
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &candles))
	assert.Len(t, candles, 200)

	rr = do(r, http.MethodPost, "/v1/backtest", `{"timeframe":"1h","count":200,"seed":3,"visible":150}`, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var bt struct {
		TotalTrades int     `json:"totalTrades"`
		Equity      []any   `json:"equityCurve"`
		Final       float64 `json:"finalBalance"`
		Trades      []any   `json:"trades"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &bt))
	assert.Equal(t, len(bt.Trades), bt.TotalTrades)
	assert.Len(t, bt.Equity, bt.TotalTrades+1)
	assert.Greater(t, bt.Final, 0.0)

	rr = do(r, http.MethodGet, "/v1/structure?timeframe=1h&count=200&seed=3&visible=150", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var st struct {
		Pivots *map[string]float64 `json:"pivots"`
		Zones  []any               `json:"zones"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.NotNil(t, st.Pivots)
	assert.LessOrEqual(t, len(st.Zones), 3)

	rr = do(r, http.MethodGet, "/v1/series?timeframe=2h", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// TestRouter_SummaryWithoutNarrator はナレーター未設定時にジョブが失敗文言で完了することを検証します。
func TestRouter_SummaryWithoutNarrator(t *testing.T) {
	r := newTestRouter(t, "")

	rr := do(r, http.MethodPost, "/v1/backtest/summary", `{"count":120,"seed":1}`, "")
	require.Equal(t, http.StatusAccepted, rr.Code)
	var accepted struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &accepted))
	require.NotEmpty(t, accepted.ID)

	var job struct {
		Status string `json:"status"`
		Text   string `json:"text"`
	}
	require.Eventually(t, func() bool {
		rr := do(r, http.MethodGet, "/v1/backtest/summary/"+accepted.ID, "", "")
		if rr.Code != http.StatusOK || json.Unmarshal(rr.Body.Bytes(), &job) != nil {
			return false
		}
		return job.Status != "pending"
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "failed", job.Status)
	assert.Equal(t, backtestusecase.FallbackFailed, job.Text)

	rr = do(r, http.MethodGet, "/v1/backtest/summary/unknown", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
