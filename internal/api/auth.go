// Package api 提供對後端各 REST 端點的類型化封裝。
// 這一層只做請求與解碼，不持有任何狀態。
package api

import (
	"context"

	"naijalotto_client/internal/domain"
	"naijalotto_client/pkg/httpClient"
)

// AuthAPI 認證相關端點
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*domain.AuthResponse, error)
	Register(ctx context.Context, name, email, password string) (*domain.AuthResponse, error)
	CurrentUser(ctx context.Context) (*domain.User, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
}

type authAPI struct {
	client httpClient.HTTPClient
}

// NewAuthAPI 創建認證端點客戶端
func NewAuthAPI(client httpClient.HTTPClient) AuthAPI {
	return &authAPI{client: client}
}

func (a *authAPI) Login(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp domain.AuthResponse
	if err := a.client.Post(ctx, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *authAPI) Register(ctx context.Context, name, email, password string) (*domain.AuthResponse, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var resp domain.AuthResponse
	if err := a.client.Post(ctx, "/auth/register", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *authAPI) CurrentUser(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := a.client.Get(ctx, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authAPI) ForgotPassword(ctx context.Context, email string) (string, error) {
	body := map[string]string{"email": email}
	var message string
	if err := a.client.Post(ctx, "/auth/forgot-password", body, &message); err != nil {
		return "", err
	}
	return message, nil
}

func (a *authAPI) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	body := map[string]string{"token": token, "new_password": newPassword}
	var message string
	if err := a.client.Post(ctx, "/auth/reset-password", body, &message); err != nil {
		return "", err
	}
	return message, nil
}
