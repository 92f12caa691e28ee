package api

import (
	"go.uber.org/fx"
)

// Module API 客戶端模組
var Module = fx.Module("api",
	fx.Provide(
		NewAuthAPI,
		NewDrawsAPI,
		NewTicketsAPI,
		NewWalletAPI,
	),
)
