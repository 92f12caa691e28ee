package session_test

import (
	"context"
	"testing"
	"time"

	"naijalotto_client/internal/api"
	"naijalotto_client/internal/domain"
	"naijalotto_client/internal/session"
	"naijalotto_client/pkg/httpClient"
	"naijalotto_client/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// 模擬 AuthAPI
type MockAuthAPI struct {
	mock.Mock
}

func (m *MockAuthAPI) Login(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResponse), args.Error(1)
}

func (m *MockAuthAPI) Register(ctx context.Context, name, email, password string) (*domain.AuthResponse, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResponse), args.Error(1)
}

func (m *MockAuthAPI) CurrentUser(ctx context.Context) (*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthAPI) ForgotPassword(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockAuthAPI) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	args := m.Called(ctx, token, newPassword)
	return args.String(0), args.Error(1)
}

var _ api.AuthAPI = (*MockAuthAPI)(nil)

// 記憶體令牌存儲，隔離文件系統
type memoryTokenStore struct {
	token string
}

func (s *memoryTokenStore) Token() (string, bool) { return s.token, s.token != "" }
func (s *memoryTokenStore) Save(t string) error   { s.token = t; return nil }
func (s *memoryTokenStore) Clear() error          { s.token = ""; return nil }

func testUser() domain.User {
	return domain.User{
		ID:            "u1",
		Name:          "Ada",
		Email:         "ada@example.com",
		Role:          domain.RoleUser,
		WalletBalance: 500,
	}
}

// signedToken 生成帶指定過期時間的測試令牌
func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// TestLoginPersistsTokenAndSetsUser 登入成功後持久化令牌並設置用戶
func TestLoginPersistsTokenAndSetsUser(t *testing.T) {
	authAPI := new(MockAuthAPI)
	tokens := &memoryTokenStore{}
	p := session.NewProvider(authAPI, tokens, logger.NewNopLogger())

	user := testUser()
	authAPI.On("Login", mock.Anything, "ada@example.com", "pw").
		Return(&domain.AuthResponse{AccessToken: "tok-1", TokenType: "bearer", User: user}, nil)

	require.NoError(t, p.Login(context.Background(), "ada@example.com", "pw"))

	saved, ok := tokens.Token()
	assert.True(t, ok)
	assert.Equal(t, "tok-1", saved)
	require.NotNil(t, p.User())
	assert.Equal(t, "u1", p.User().ID)
}

// TestLoginFailureLeavesLoggedOut 登入失敗不留下任何會話痕跡
func TestLoginFailureLeavesLoggedOut(t *testing.T) {
	authAPI := new(MockAuthAPI)
	tokens := &memoryTokenStore{}
	p := session.NewProvider(authAPI, tokens, logger.NewNopLogger())

	authAPI.On("Login", mock.Anything, "ada@example.com", "bad").
		Return(nil, &httpClient.APIError{StatusCode: 401, Detail: "Invalid credentials"})

	err := p.Login(context.Background(), "ada@example.com", "bad")
	require.Error(t, err)

	_, ok := tokens.Token()
	assert.False(t, ok)
	assert.Nil(t, p.User())
}

// TestRegisterPersistsTokenAndSetsUser 註冊成功後持久化令牌並設置用戶
func TestRegisterPersistsTokenAndSetsUser(t *testing.T) {
	authAPI := new(MockAuthAPI)
	tokens := &memoryTokenStore{}
	p := session.NewProvider(authAPI, tokens, logger.NewNopLogger())

	user := testUser()
	authAPI.On("Register", mock.Anything, "Ada", "ada@example.com", "pw").
		Return(&domain.AuthResponse{AccessToken: "tok-2", TokenType: "bearer", User: user}, nil)

	require.NoError(t, p.Register(context.Background(), "Ada", "ada@example.com", "pw"))

	saved, _ := tokens.Token()
	assert.Equal(t, "tok-2", saved)
	assert.NotNil(t, p.User())
}

// TestRefreshFailureClearsTokenAndUser 刷新失敗（如 401）清除令牌並把用戶置空
func TestRefreshFailureClearsTokenAndUser(t *testing.T) {
	authAPI := new(MockAuthAPI)
	tokens := &memoryTokenStore{token: "stale"}
	p := session.NewProvider(authAPI, tokens, logger.NewNopLogger())

	authAPI.On("CurrentUser", mock.Anything).
		Return(nil, &httpClient.APIError{StatusCode: 401})

	err := p.Refresh(context.Background())
	require.Error(t, err)

	_, ok := tokens.Token()
	assert.False(t, ok)
	assert.Nil(t, p.User())
	assert.False(t, p.IsLoading())
}

// TestInitWithoutTokenReleasesLoading 無持久化令牌時直接放行且不發出網絡調用
func TestInitWithoutTokenReleasesLoading(t *testing.T) {
	authAPI := new(MockAuthAPI)
	p := session.NewProvider(authAPI, &memoryTokenStore{}, logger.NewNopLogger())

	assert.True(t, p.IsLoading())
	p.Init(context.Background())

	assert.False(t, p.IsLoading())
	assert.Nil(t, p.User())
	authAPI.AssertNotCalled(t, "CurrentUser", mock.Anything)
}

// TestInitWithValidTokenRefreshes 有令牌時啟動刷新，解析前保持 loading
func TestInitWithValidTokenRefreshes(t *testing.T) {
	authAPI := new(MockAuthAPI)
	tokens := &memoryTokenStore{token: signedToken(t, time.Now().Add(time.Hour))}
	p := session.NewProvider(authAPI, tokens, logger.NewNopLogger())

	user := testUser()
	authAPI.On("CurrentUser", mock.Anything).Return(&user, nil)

	p.Init(context.Background())

	assert.False(t, p.IsLoading())
	require.NotNil(t, p.User())
	assert.Equal(t, "u1", p.User().ID)
}

// TestInitWithExpiredTokenSkipsNetworkCall 過期令牌跳過 whoami，直接清除會話
func TestInitWithExpiredTokenSkipsNetworkCall(t *testing.T) {
	authAPI := new(MockAuthAPI)
	tokens := &memoryTokenStore{token: signedToken(t, time.Now().Add(-time.Hour))}
	p := session.NewProvider(authAPI, tokens, logger.NewNopLogger())

	p.Init(context.Background())

	assert.False(t, p.IsLoading())
	assert.Nil(t, p.User())
	_, ok := tokens.Token()
	assert.False(t, ok)
	authAPI.AssertNotCalled(t, "CurrentUser", mock.Anything)
}

// TestLogoutIsLocalOnly 登出同步清除令牌與用戶，且不發出任何網絡調用
func TestLogoutIsLocalOnly(t *testing.T) {
	authAPI := new(MockAuthAPI)
	tokens := &memoryTokenStore{token: "tok"}
	p := session.NewProvider(authAPI, tokens, logger.NewNopLogger())

	p.Logout()

	_, ok := tokens.Token()
	assert.False(t, ok)
	assert.Nil(t, p.User())
	authAPI.AssertExpectations(t)
}
