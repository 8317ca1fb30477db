// Package http provides the outbound HTTP client used by external API adapters.
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient は外部API（Gemini）呼び出し用のHTTPクライアントを作成します。
//
// http.DefaultClient にはタイムアウトがないため使用しません。
// 接続先は少数のホストに限られるので、ホストごとのアイドル接続数を多めに確保します。
//   - timeout: リクエスト全体のタイムアウト（0以下なら30秒）
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
