// Package wallet 實現錢包工作流：餘額與流水展示、充值（外部支付跳轉）、
// 提款（銀行資料提交），兩個子流程共享同一個處理中旗標。
package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"naijalotto_client/internal/api"
	"naijalotto_client/internal/config"
	"naijalotto_client/internal/domain"
	"naijalotto_client/internal/interfaces"
	"naijalotto_client/pkg/httpClient"
	"naijalotto_client/pkg/logger"
	"naijalotto_client/pkg/utils/scheduler"

	"github.com/go-playground/validator/v10"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	// ErrInvalidAmount 金額低於最低限額
	ErrInvalidAmount = errors.New("amount is below the minimum")

	// ErrIncompleteBankDetails 銀行資料缺失
	ErrIncompleteBankDetails = errors.New("bank details are incomplete")

	// ErrProcessing 已有充值或提款在途，兩個子流程互斥
	ErrProcessing = errors.New("another wallet operation is in flight")
)

// Workflow 錢包工作流接口
type Workflow interface {
	// Refetch 重新拉取錢包詳情。這是緩存餘額唯一的寫入方：
	// 任何成功的充值/提款都只通過它反映到本地，不做樂觀更新。
	Refetch(ctx context.Context) error

	// Details 返回最近一次拉取的錢包詳情，尚未拉取時為 nil
	Details() *domain.WalletDetails

	// TopUp 發起充值：驗證金額後向後端換取支付授權地址並整頁跳轉。
	// 不在本地入帳——餘額要等後端確認支付後由 Refetch 更新，
	// 跳轉後的一段時間內本地餘額視為可能過期。
	TopUp(ctx context.Context, amount float64) (*domain.TopUpAuthorization, error)

	// Withdraw 提交提款請求，成功後刷新錢包詳情；失敗保留表單供修正
	Withdraw(ctx context.Context, req api.WithdrawRequest) error

	// VerifyPayment 校驗支付引用（由回調服務器觸發）
	VerifyPayment(ctx context.Context, reference string) (json.RawMessage, error)

	// IsProcessing 是否有充值或提款在途
	IsProcessing() bool

	// IsLoading 初次拉取錢包詳情是否仍在進行
	IsLoading() bool
}

type workflow struct {
	walletAPI api.WalletAPI
	navigator interfaces.Navigator
	notifier  interfaces.Notifier
	scheduler *scheduler.Scheduler
	logger    logger.Logger
	validate  *validator.Validate

	// refreshDelay 充值跳轉後延遲刷新的等待時間，
	// 留給外部支付頁一點完成時間
	refreshDelay time.Duration

	mutex        sync.Mutex
	details      *domain.WalletDetails
	isProcessing bool
	isLoading    bool
}

// NewWorkflow 創建錢包工作流
func NewWorkflow(
	walletAPI api.WalletAPI,
	navigator interfaces.Navigator,
	notifier interfaces.Notifier,
	sched *scheduler.Scheduler,
	log logger.Logger,
	refreshDelay time.Duration,
) Workflow {
	return &workflow{
		walletAPI:    walletAPI,
		navigator:    navigator,
		notifier:     notifier,
		scheduler:    sched,
		logger:       log,
		validate:     validator.New(),
		refreshDelay: refreshDelay,
		isLoading:    true,
	}
}

func (w *workflow) Refetch(ctx context.Context) error {
	defer w.setLoading(false)

	details, err := w.walletAPI.Details(ctx)
	if err != nil {
		w.logger.Warn("failed to fetch wallet details", zap.Error(err))
		w.notifier.Error("Error", "Failed to fetch wallet details")
		return err
	}

	w.mutex.Lock()
	w.details = details
	w.mutex.Unlock()
	return nil
}

func (w *workflow) Details() *domain.WalletDetails {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.details == nil {
		return nil
	}
	d := *w.details
	return &d
}

func (w *workflow) TopUp(ctx context.Context, amount float64) (*domain.TopUpAuthorization, error) {
	// 本地驗證在占用旗標與任何網絡請求之前，與 Withdraw 的順序一致：
	// 金額不合法時即使已有操作在途也返回 ErrInvalidAmount 而非 ErrProcessing
	if amount < domain.MinTopUpAmount {
		w.notifier.Error("Invalid Amount", fmt.Sprintf("Minimum top-up amount is %d", domain.MinTopUpAmount))
		return nil, ErrInvalidAmount
	}

	if !w.acquire() {
		return nil, ErrProcessing
	}
	defer w.release()

	auth, err := w.walletAPI.TopUp(ctx, amount)
	if err != nil {
		w.notifier.Error("Error", failureMessage(err, "Failed to initialize payment"))
		w.logger.Warn("top-up initialization failed", zap.Float64("amount", amount), zap.Error(err))
		return nil, err
	}

	w.notifier.Success("Payment Initiated", "You will be redirected to complete the payment")
	w.logger.Info("top-up authorized, redirecting",
		zap.String("reference", auth.Reference),
		zap.Float64("amount", amount))

	// 整頁跳轉到外部支付頁，支付在頁外完成
	w.navigator.ToExternal(auth.AuthorizationURL)

	// 延遲刷新：給外部支付一點時間落地，之後由 Refetch 拉回權威餘額
	jobID := "wallet_refresh:" + auth.Reference
	if err := w.scheduler.ScheduleOnce(w.refreshDelay, jobID, func() {
		if err := w.Refetch(context.Background()); err != nil {
			w.logger.Warn("delayed wallet refresh failed", zap.String("reference", auth.Reference), zap.Error(err))
		}
	}); err != nil {
		w.logger.Warn("failed to schedule wallet refresh", zap.Error(err))
	}

	return auth, nil
}

func (w *workflow) Withdraw(ctx context.Context, req api.WithdrawRequest) error {
	// 驗證標籤同時覆蓋最低金額與銀行欄位非空，失敗不發出任何網絡請求
	if err := w.validate.Struct(req); err != nil {
		if req.Amount < domain.MinWithdrawAmount {
			w.notifier.Error("Invalid Amount", fmt.Sprintf("Minimum withdrawal amount is %d", domain.MinWithdrawAmount))
			return ErrInvalidAmount
		}
		w.notifier.Error("Incomplete Details", "Please provide all bank details")
		return ErrIncompleteBankDetails
	}

	if !w.acquire() {
		return ErrProcessing
	}
	defer w.release()

	if _, err := w.walletAPI.Withdraw(ctx, req); err != nil {
		// 失敗時表單狀態由調用方保留，用戶修正後可直接重試
		w.notifier.Error("Withdrawal Failed", failureMessage(err, "Failed to submit withdrawal request"))
		w.logger.Warn("withdrawal failed", zap.Float64("amount", req.Amount), zap.Error(err))
		return err
	}

	w.notifier.Success("Withdrawal Requested", "Your withdrawal request has been submitted")
	w.logger.Info("withdrawal submitted", zap.Float64("amount", req.Amount))

	if err := w.Refetch(ctx); err != nil {
		w.logger.Warn("failed to refresh wallet after withdrawal", zap.Error(err))
	}
	return nil
}

func (w *workflow) VerifyPayment(ctx context.Context, reference string) (json.RawMessage, error) {
	return w.walletAPI.VerifyPayment(ctx, reference)
}

func (w *workflow) IsProcessing() bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.isProcessing
}

func (w *workflow) IsLoading() bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.isLoading
}

func (w *workflow) acquire() bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.isProcessing {
		return false
	}
	w.isProcessing = true
	return true
}

func (w *workflow) release() {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.isProcessing = false
}

func (w *workflow) setLoading(loading bool) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.isLoading = loading
}

// failureMessage 後端帶有 detail 時原文展示，否則退回指定的通用提示
func failureMessage(err error, fallback string) string {
	var apiErr *httpClient.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// ProvideWorkflow 提供錢包工作流，刷新延遲取自配置
func ProvideWorkflow(
	walletAPI api.WalletAPI,
	navigator interfaces.Navigator,
	notifier interfaces.Notifier,
	sched *scheduler.Scheduler,
	log logger.Logger,
	cfg *config.Config,
) Workflow {
	return NewWorkflow(walletAPI, navigator, notifier, sched, log, cfg.WalletRefreshDelay)
}

// Module 錢包工作流模組
var Module = fx.Module("wallet",
	fx.Provide(
		ProvideWorkflow,
	),
)
