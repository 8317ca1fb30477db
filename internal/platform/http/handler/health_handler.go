// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const probeTimeout = 2 * time.Second

// Probe は依存先（DB、Redisなど）の疎通確認です。
type Probe struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler は /healthz を処理します。
type HealthHandler struct {
	probes []Probe
}

// NewHealthHandler は指定したプローブで HealthHandler を生成します。
// Ping が nil のプローブは "disabled" として報告されます。
func NewHealthHandler(probes ...Probe) *HealthHandler {
	return &HealthHandler{probes: probes}
}

// Health はサービスと依存先の状態を返します。
// 依存先のいずれかが失敗した場合は 503 を返します。キャッシュは常に無効です。
func (h *HealthHandler) Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusNoContent)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.probes))
	for _, p := range h.probes {
		switch {
		case p.Ping == nil:
			checks[p.Name] = "disabled"
		case p.Ping(ctx) != nil:
			checks[p.Name] = "down"
			status = http.StatusServiceUnavailable
		default:
			checks[p.Name] = "ok"
		}
	}

	if c.Request.Method == http.MethodHead {
		c.Status(status)
		return
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	c.JSON(status, gin.H{"status": overall, "checks": checks})
}
