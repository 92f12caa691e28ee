package main

import (
	"context"
	"fmt"

	"naijalotto_client/internal/api"
	"naijalotto_client/internal/callback"
	"naijalotto_client/internal/config"
	"naijalotto_client/internal/draws"
	"naijalotto_client/internal/interfaces"
	"naijalotto_client/internal/session"
	"naijalotto_client/internal/tickets"
	"naijalotto_client/internal/wallet"
	"naijalotto_client/pkg/httpClient"
	"naijalotto_client/pkg/logger"
	"naijalotto_client/pkg/utils/scheduler"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// 構建信息，通過 ldflags 在編譯時注入
var (
	BuildTime string
	GitHash   string
)

// consoleNotifier 把用戶提示輸出到終端，同時寫入日誌
type consoleNotifier struct {
	logger logger.Logger
}

func (n *consoleNotifier) Success(title, message string) {
	fmt.Printf("✔ %s: %s\n", title, message)
	n.logger.Info("notice", zap.String("title", title), zap.String("message", message))
}

func (n *consoleNotifier) Error(title, message string) {
	fmt.Printf("✘ %s: %s\n", title, message)
	n.logger.Warn("notice", zap.String("title", title), zap.String("message", message))
}

// consoleNavigator 把跳轉意圖輸出到終端。
// 外部支付頁無法在終端內打開，只能把授權地址交給用戶。
type consoleNavigator struct {
	logger logger.Logger
}

func (n *consoleNavigator) ToLogin() {
	fmt.Println("→ Please log in first")
}

func (n *consoleNavigator) ToWallet() {
	fmt.Println("→ Opening wallet top-up")
}

func (n *consoleNavigator) ToExternal(url string) {
	fmt.Printf("→ Open this URL in your browser to complete payment:\n  %s\n", url)
	n.logger.Info("external redirect", zap.String("url", url))
}

// provideScheduler 提供排程器並掛接生命週期
func provideScheduler(lc fx.Lifecycle) *scheduler.Scheduler {
	sched := scheduler.New()

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sched.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			sched.Stop()
			return nil
		},
	})

	return sched
}

// warmUp 啟動後先載入開獎列表與錢包詳情，供頁面立即展示
func warmUp(lc fx.Lifecycle, drawsQuery draws.Query, walletWorkflow wallet.Workflow, sess session.Provider, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				drawsQuery.Load(context.Background())
				if sess.User() != nil {
					if err := walletWorkflow.Refetch(context.Background()); err != nil {
						log.Warn("initial wallet fetch failed", zap.Error(err))
					}
				}
				log.Info("client ready",
					zap.Int("active_draws", len(drawsQuery.ActiveDraws())),
					zap.Int("completed_draws", len(drawsQuery.CompletedDraws())))
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return nil
		},
	})
}

func main() {
	app := fx.New(
		logger.Module,
		config.Module,
		httpClient.Module,
		api.Module,
		session.Module,
		draws.Module,
		tickets.Module,
		wallet.Module,
		callback.Module,

		fx.Provide(
			provideScheduler,
			func(log logger.Logger) interfaces.Notifier { return &consoleNotifier{logger: log} },
			func(log logger.Logger) interfaces.Navigator { return &consoleNavigator{logger: log} },
		),

		fx.Invoke(warmUp),
		fx.Invoke(func(log logger.Logger) {
			log.Info("lottery client starting",
				zap.String("build_time", BuildTime),
				zap.String("git_hash", GitHash))
		}),
	)

	app.Run()
}
