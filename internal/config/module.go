package config

import (
	"naijalotto_client/pkg/httpClient"
	"naijalotto_client/pkg/tokenstore"

	"go.uber.org/fx"
)

// ProvideTokenStore 提供令牌存儲
func ProvideTokenStore(cfg *Config) tokenstore.Store {
	return tokenstore.NewFileStore(cfg.TokenFilePath)
}

// ProvideHTTPClientParams 由配置組裝 HTTP 客戶端參數
func ProvideHTTPClientParams(cfg *Config, store tokenstore.Store) httpClient.Params {
	return httpClient.Params{
		BaseURL:     cfg.BackendBaseURL,
		Timeout:     cfg.RequestTimeout,
		TokenSource: store,
	}
}

// Module 配置模組
var Module = fx.Module("config",
	fx.Provide(
		LoadConfig,
		ProvideTokenStore,
		ProvideHTTPClientParams,
	),
)
