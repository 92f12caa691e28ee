// Package callback 實現本地支付回調服務器。
// 外部支付頁完成後把用戶帶回 /payment/callback，這裡對 reference 做校驗
// 並觸發錢包刷新，把餘額拉回權威狀態。
package callback

import (
	"context"
	"errors"
	"net/http"

	"naijalotto_client/internal/config"
	"naijalotto_client/internal/wallet"
	"naijalotto_client/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type SuccessResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler 支付回調處理器
type Handler struct {
	wallet wallet.Workflow
	logger logger.Logger
}

// NewHandler 創建支付回調處理器
func NewHandler(walletWorkflow wallet.Workflow, log logger.Logger) *Handler {
	return &Handler{
		wallet: walletWorkflow,
		logger: log,
	}
}

// HandleCallback 處理支付網關的返回跳轉
func (h *Handler) HandleCallback(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing reference"})
		return
	}

	if _, err := h.wallet.VerifyPayment(c.Request.Context(), reference); err != nil {
		h.logger.Warn("payment verification failed", zap.String("reference", reference), zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "payment verification failed"})
		return
	}

	// 校驗通過後把餘額拉回權威狀態，本地從不直接入帳
	if err := h.wallet.Refetch(c.Request.Context()); err != nil {
		h.logger.Warn("wallet refresh after payment failed", zap.String("reference", reference), zap.Error(err))
	}

	h.logger.Info("payment verified", zap.String("reference", reference))
	c.JSON(http.StatusOK, SuccessResponse{Message: "Payment verified. You can close this page."})
}

// NewRouter 組裝回調服務器路由
func NewRouter(handler *Handler) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, SuccessResponse{Message: "Service is healthy"})
	})

	r.GET("/payment/callback", handler.HandleCallback)

	return r
}

// RunServer 掛接生命週期：啟動時監聽配置的回調地址，停止時優雅關閉
func RunServer(lc fx.Lifecycle, cfg *config.Config, router *gin.Engine, log logger.Logger) {
	server := &http.Server{
		Addr:    cfg.CallbackListenAddr,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("payment callback server listening", zap.String("addr", cfg.CallbackListenAddr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("callback server terminated", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}

// Module 支付回調模組
var Module = fx.Module("callback",
	fx.Provide(
		NewHandler,
		NewRouter,
	),
	fx.Invoke(RunServer),
)
