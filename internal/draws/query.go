// Package draws 實現開獎列表查詢層：並發拉取進行中與已完成兩個集合，
// 任一失敗都只產生非致命提示，不阻塞另一個列表的展示。
package draws

import (
	"context"
	"sync"

	"naijalotto_client/internal/api"
	"naijalotto_client/internal/domain"
	"naijalotto_client/internal/interfaces"
	"naijalotto_client/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Query 開獎查詢層接口
type Query interface {
	// Load 並發拉取兩個列表；兩邊都解析完成後 IsLoading 才放行
	Load(ctx context.Context)

	// Refetch 重新拉取兩個列表（購票後刷新等場景）
	Refetch(ctx context.Context)

	// Draw 拉取單期開獎詳情
	Draw(ctx context.Context, drawID string) (*domain.Draw, error)

	ActiveDraws() []domain.Draw
	CompletedDraws() []domain.Draw
	IsLoading() bool
}

type query struct {
	drawsAPI api.DrawsAPI
	notifier interfaces.Notifier
	logger   logger.Logger

	mutex     sync.RWMutex
	active    []domain.Draw
	completed []domain.Draw
	isLoading bool
}

// NewQuery 創建開獎查詢層
func NewQuery(drawsAPI api.DrawsAPI, notifier interfaces.Notifier, log logger.Logger) Query {
	return &query{
		drawsAPI:  drawsAPI,
		notifier:  notifier,
		logger:    log,
		isLoading: true,
	}
}

func (q *query) Load(ctx context.Context) {
	q.setLoading(true)
	defer q.setLoading(false)

	// 兩個列表獨立拉取，響應到達順序不影響各自狀態的正確性
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		q.fetchActive(ctx)
	}()
	go func() {
		defer wg.Done()
		q.fetchCompleted(ctx)
	}()

	wg.Wait()
}

func (q *query) Refetch(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		q.fetchActive(ctx)
	}()
	go func() {
		defer wg.Done()
		q.fetchCompleted(ctx)
	}()

	wg.Wait()
}

func (q *query) Draw(ctx context.Context, drawID string) (*domain.Draw, error) {
	return q.drawsAPI.Draw(ctx, drawID)
}

// fetchActive 拉取進行中的開獎，失敗只提示、保留舊狀態
func (q *query) fetchActive(ctx context.Context) {
	draws, err := q.drawsAPI.ActiveDraws(ctx)
	if err != nil {
		q.logger.Warn("failed to fetch active draws", zap.Error(err))
		q.notifier.Error("Error", "Failed to fetch active draws")
		return
	}

	q.mutex.Lock()
	q.active = draws
	q.mutex.Unlock()
}

// fetchCompleted 拉取已完成的開獎，失敗只提示、保留舊狀態
func (q *query) fetchCompleted(ctx context.Context) {
	draws, err := q.drawsAPI.CompletedDraws(ctx)
	if err != nil {
		q.logger.Warn("failed to fetch completed draws", zap.Error(err))
		q.notifier.Error("Error", "Failed to fetch completed draws")
		return
	}

	q.mutex.Lock()
	q.completed = draws
	q.mutex.Unlock()
}

func (q *query) ActiveDraws() []domain.Draw {
	q.mutex.RLock()
	defer q.mutex.RUnlock()
	return append([]domain.Draw(nil), q.active...)
}

func (q *query) CompletedDraws() []domain.Draw {
	q.mutex.RLock()
	defer q.mutex.RUnlock()
	return append([]domain.Draw(nil), q.completed...)
}

func (q *query) IsLoading() bool {
	q.mutex.RLock()
	defer q.mutex.RUnlock()
	return q.isLoading
}

func (q *query) setLoading(loading bool) {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	q.isLoading = loading
}

// Module 開獎查詢模組
var Module = fx.Module("draws",
	fx.Provide(
		NewQuery,
	),
)
