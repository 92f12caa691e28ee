// Package session 實現會話提供者：持有已認證用戶記錄，
// 對外暴露登入/註冊/登出/刷新，令牌持久化交給 tokenstore。
package session

import (
	"context"
	"sync"
	"time"

	"naijalotto_client/internal/api"
	"naijalotto_client/internal/domain"
	"naijalotto_client/pkg/logger"
	"naijalotto_client/pkg/tokenstore"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Provider 會話提供者接口。每個運行中的客戶端只有一個實例，
// 以顯式構造注入而非包級全局變量，測試可各自構造隔離實例。
type Provider interface {
	// User 返回當前用戶，未登入時為 nil
	User() *domain.User

	// IsLoading 在啟動時的初始刷新解析完成前保持 true，依賴頁面據此做渲染門控
	IsLoading() bool

	// Login 登入並持久化令牌
	Login(ctx context.Context, email, password string) error

	// Register 註冊新帳號並持久化令牌
	Register(ctx context.Context, name, email, password string) error

	// Logout 同步丟棄令牌與用戶。不調用後端：令牌只在客戶端作廢，
	// 服務端不做會話失效（沿用現有產品行為，非此處可修復）。
	Logout()

	// Refresh 以持久化令牌重新獲取用戶；失敗時清除令牌並把用戶置空，
	// 這是過期會話唯一的恢復途徑
	Refresh(ctx context.Context) error

	// ForgotPassword 發起找回密碼
	ForgotPassword(ctx context.Context, email string) (string, error)

	// ResetPassword 以重置令牌設置新密碼
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)

	// Init 啟動流程：存在持久化令牌時做一次初始刷新
	Init(ctx context.Context)
}

type provider struct {
	authAPI api.AuthAPI
	tokens  tokenstore.Store
	logger  logger.Logger

	mutex     sync.RWMutex
	user      *domain.User
	isLoading bool
}

// NewProvider 創建會話提供者。isLoading 初始為 true，
// 由 Init 在初始刷新解析後放行（無令牌時立即放行）。
func NewProvider(authAPI api.AuthAPI, tokens tokenstore.Store, log logger.Logger) Provider {
	return &provider{
		authAPI:   authAPI,
		tokens:    tokens,
		logger:    log,
		isLoading: true,
	}
}

func (p *provider) User() *domain.User {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	if p.user == nil {
		return nil
	}
	u := *p.user
	return &u
}

func (p *provider) IsLoading() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.isLoading
}

func (p *provider) Init(ctx context.Context) {
	token, ok := p.tokens.Token()
	if !ok {
		p.setLoading(false)
		return
	}

	// 令牌已過期時跳過注定失敗的 whoami 調用，直接進入已清除狀態
	if tokenExpired(token) {
		p.logger.Debug("persisted token already expired, clearing session")
		p.clearSession()
		p.setLoading(false)
		return
	}

	if err := p.Refresh(ctx); err != nil {
		p.logger.Warn("initial session refresh failed", zap.Error(err))
	}
}

func (p *provider) Login(ctx context.Context, email, password string) error {
	resp, err := p.authAPI.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := p.tokens.Save(resp.AccessToken); err != nil {
		return err
	}

	p.setUser(&resp.User)
	p.logger.Info("user logged in", zap.String("user_id", resp.User.ID))
	return nil
}

func (p *provider) Register(ctx context.Context, name, email, password string) error {
	resp, err := p.authAPI.Register(ctx, name, email, password)
	if err != nil {
		return err
	}

	if err := p.tokens.Save(resp.AccessToken); err != nil {
		return err
	}

	p.setUser(&resp.User)
	p.logger.Info("user registered", zap.String("user_id", resp.User.ID))
	return nil
}

func (p *provider) Logout() {
	p.clearSession()
	p.logger.Debug("logged out locally, no server-side revocation attempted")
}

func (p *provider) Refresh(ctx context.Context) error {
	defer p.setLoading(false)

	user, err := p.authAPI.CurrentUser(ctx)
	if err != nil {
		p.clearSession()
		return err
	}

	p.setUser(user)
	return nil
}

func (p *provider) ForgotPassword(ctx context.Context, email string) (string, error) {
	return p.authAPI.ForgotPassword(ctx, email)
}

func (p *provider) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	return p.authAPI.ResetPassword(ctx, token, newPassword)
}

func (p *provider) setUser(user *domain.User) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.user = user
}

func (p *provider) setLoading(loading bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.isLoading = loading
}

func (p *provider) clearSession() {
	if err := p.tokens.Clear(); err != nil {
		p.logger.Warn("failed to clear persisted token", zap.Error(err))
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.user = nil
}

// tokenExpired 以不驗證簽名的方式解析 exp 聲明。
// 簽名驗證是後端的事，這裡只是避免一次注定 401 的網絡調用；
// 解析不出來時保守返回 false，交給 whoami 判定。
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// ProvideProvider 提供會話提供者並掛接生命週期：啟動時做初始刷新
func ProvideProvider(lc fx.Lifecycle, authAPI api.AuthAPI, tokens tokenstore.Store, log logger.Logger) Provider {
	p := NewProvider(authAPI, tokens, log)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Init(ctx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return nil
		},
	})

	return p
}

// Module 會話模組
var Module = fx.Module("session",
	fx.Provide(
		ProvideProvider,
	),
)
