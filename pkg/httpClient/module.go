package httpClient

import (
	"time"

	"go.uber.org/fx"
)

// Params 構建客戶端所需的參數，由配置層提供
type Params struct {
	BaseURL     string
	Timeout     time.Duration
	TokenSource TokenSource
}

// ProvideHTTPClient 提供HTTP客戶端實例
func ProvideHTTPClient(p Params) (HTTPClient, error) {
	var opts []ClientOption

	// 設置超時
	if p.Timeout > 0 {
		opts = append(opts, WithTimeout(p.Timeout))
	}

	// 設置令牌來源
	if p.TokenSource != nil {
		opts = append(opts, WithTokenSource(p.TokenSource))
	}

	client := NewClient(p.BaseURL, opts...)
	return client, nil
}

// Module HTTP客戶端模組
var Module = fx.Options(
	fx.Provide(
		ProvideHTTPClient,
	),
)
