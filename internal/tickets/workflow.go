// Package tickets 實現購票工作流：
// 選號 → 前置校驗 → 購票調用 → 開獎與餘額刷新的完整編排。
package tickets

import (
	"context"
	"errors"
	"sync"

	"naijalotto_client/internal/api"
	"naijalotto_client/internal/domain"
	"naijalotto_client/internal/interfaces"
	"naijalotto_client/internal/selection"
	"naijalotto_client/internal/session"
	"naijalotto_client/pkg/httpClient"
	"naijalotto_client/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// State 購票工作流狀態
type State string

const (
	StateIdle       State = "IDLE"
	StateValidating State = "VALIDATING"
	StatePurchasing State = "PURCHASING"
	StateSettled    State = "SETTLED"
)

// 前置校驗失敗的原因，每一種都在發出任何網絡請求之前返回
var (
	// ErrNotAuthenticated 未登入，同時表達跳轉登入頁的意圖
	ErrNotAuthenticated = errors.New("user is not authenticated")

	// ErrInvalidSelection 選號不是恰好 5 個
	ErrInvalidSelection = errors.New("selection must contain exactly 5 numbers")

	// ErrInsufficientBalance 餘額不足，同時表達跳轉錢包充值頁的意圖
	ErrInsufficientBalance = errors.New("wallet balance is below the ticket price")

	// ErrPurchaseInFlight 已有一筆購票在途，本工作流實例同時只允許一筆
	ErrPurchaseInFlight = errors.New("a purchase is already in flight")
)

// Workflow 購票工作流接口
type Workflow interface {
	// Purchase 嘗試為指定開獎購買一張彩票。
	// 成功時清空選號、把返回的彩票追加到本地列表、依次刷新開獎與用戶餘額快照；
	// 失敗時保留選號供用戶直接重試。
	Purchase(ctx context.Context, drawID string) (*domain.Ticket, error)

	// Selector 返回本工作流持有的選號器
	Selector() *selection.Selector

	// CurrentDraw 返回最近一次刷新得到的開獎快照
	CurrentDraw() *domain.Draw

	// LoadDraw 拉取開獎詳情並記錄為當前開獎
	LoadDraw(ctx context.Context, drawID string) (*domain.Draw, error)

	// Tickets 返回本工作流期間購得的彩票（展示用本地追加）
	Tickets() []domain.Ticket

	// MyTickets 拉取當前用戶的全部彩票
	MyTickets(ctx context.Context) ([]domain.Ticket, error)

	// TicketsByDraw 拉取指定開獎下的彩票
	TicketsByDraw(ctx context.Context, drawID string) ([]domain.Ticket, error)

	// IsPurchasing 是否有購票在途
	IsPurchasing() bool

	// State 返回當前工作流狀態
	State() State
}

type workflow struct {
	ticketsAPI api.TicketsAPI
	drawsAPI   api.DrawsAPI
	session    session.Provider
	selector   *selection.Selector
	navigator  interfaces.Navigator
	notifier   interfaces.Notifier
	logger     logger.Logger

	mutex        sync.Mutex
	state        State
	isPurchasing bool
	currentDraw  *domain.Draw
	purchased    []domain.Ticket
}

// NewWorkflow 創建購票工作流
func NewWorkflow(
	ticketsAPI api.TicketsAPI,
	drawsAPI api.DrawsAPI,
	sess session.Provider,
	selector *selection.Selector,
	navigator interfaces.Navigator,
	notifier interfaces.Notifier,
	log logger.Logger,
) Workflow {
	return &workflow{
		ticketsAPI: ticketsAPI,
		drawsAPI:   drawsAPI,
		session:    sess,
		selector:   selector,
		navigator:  navigator,
		notifier:   notifier,
		logger:     log,
		state:      StateIdle,
	}
}

func (w *workflow) Purchase(ctx context.Context, drawID string) (*domain.Ticket, error) {
	// 在途旗標在任何校驗之前占用：旗標被占用期間的重複調用
	// 一律拒絕，不發出第二個網絡請求
	if !w.acquire() {
		return nil, ErrPurchaseInFlight
	}
	defer w.release()

	w.setState(StateValidating)

	// 前置校驗按順序進行，任何一條失敗都中止回到 Idle
	user := w.session.User()
	if user == nil {
		w.setState(StateIdle)
		w.navigator.ToLogin()
		return nil, ErrNotAuthenticated
	}

	numbers := w.selector.Numbers()
	if len(numbers) != w.selector.MaxNumbers() {
		w.setState(StateIdle)
		w.notifier.Error("Invalid Selection", "Please select exactly 5 numbers")
		return nil, ErrInvalidSelection
	}

	if !user.CanAfford(domain.TicketPrice) {
		w.setState(StateIdle)
		w.notifier.Error("Insufficient Balance", "Please top up your wallet to buy tickets")
		w.navigator.ToWallet()
		return nil, ErrInsufficientBalance
	}

	w.setState(StatePurchasing)

	ticket, err := w.ticketsAPI.BuyTicket(ctx, api.BuyTicketRequest{
		DrawID:          drawID,
		TicketPrice:     domain.TicketPrice,
		SelectedNumbers: numbers,
	})
	if err != nil {
		// 失敗保留選號，用戶無須重新選號即可重試
		w.setState(StateIdle)
		w.notifier.Error("Purchase Failed", purchaseFailureMessage(err))
		w.logger.Warn("ticket purchase failed", zap.String("draw_id", drawID), zap.Error(err))
		return nil, err
	}

	w.selector.Clear()
	w.appendTicket(*ticket)
	w.notifier.Success("Ticket Purchased", "Your ticket has been purchased successfully. Good luck!")
	w.logger.Info("ticket purchased",
		zap.String("ticket_id", ticket.ID),
		zap.String("draw_id", drawID),
		zap.Ints("numbers", ticket.SelectedNumbers))

	// 刷新嚴格排在購票解析之後：total_pot / total_tickets
	// 只有在購票副作用落地後才有意義
	if _, err := w.LoadDraw(ctx, drawID); err != nil {
		w.logger.Warn("failed to refresh draw after purchase", zap.String("draw_id", drawID), zap.Error(err))
	}

	// 餘額快照一律走重新拉取，絕不做本地樂觀扣減
	if err := w.session.Refresh(ctx); err != nil {
		w.logger.Warn("failed to refresh user after purchase", zap.Error(err))
	}

	w.setState(StateSettled)
	return ticket, nil
}

func (w *workflow) Selector() *selection.Selector {
	return w.selector
}

func (w *workflow) CurrentDraw() *domain.Draw {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.currentDraw == nil {
		return nil
	}
	d := *w.currentDraw
	return &d
}

func (w *workflow) LoadDraw(ctx context.Context, drawID string) (*domain.Draw, error) {
	draw, err := w.drawsAPI.Draw(ctx, drawID)
	if err != nil {
		return nil, err
	}

	w.mutex.Lock()
	w.currentDraw = draw
	w.mutex.Unlock()

	// 開獎不再進行時選號整體禁用
	w.selector.SetDisabled(!draw.IsActive())
	return draw, nil
}

func (w *workflow) Tickets() []domain.Ticket {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return append([]domain.Ticket(nil), w.purchased...)
}

func (w *workflow) MyTickets(ctx context.Context) ([]domain.Ticket, error) {
	return w.ticketsAPI.MyTickets(ctx)
}

func (w *workflow) TicketsByDraw(ctx context.Context, drawID string) ([]domain.Ticket, error) {
	return w.ticketsAPI.TicketsByDraw(ctx, drawID)
}

func (w *workflow) IsPurchasing() bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.isPurchasing
}

func (w *workflow) State() State {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.state
}

func (w *workflow) acquire() bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.isPurchasing {
		return false
	}
	w.isPurchasing = true
	return true
}

func (w *workflow) release() {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.isPurchasing = false
}

func (w *workflow) setState(state State) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.state = state
}

func (w *workflow) appendTicket(ticket domain.Ticket) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.purchased = append(w.purchased, ticket)
}

// purchaseFailureMessage 後端帶有 detail 時原文展示，否則退回通用提示
func purchaseFailureMessage(err error) string {
	var apiErr *httpClient.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return "Failed to purchase ticket"
}

// Module 購票工作流模組
var Module = fx.Module("tickets",
	fx.Provide(
		func() *selection.Selector { return selection.NewSelector() },
		NewWorkflow,
	),
)
