package api

import (
	"context"
	"fmt"

	"naijalotto_client/internal/domain"
	"naijalotto_client/pkg/httpClient"
)

// DrawsAPI 開獎相關端點
type DrawsAPI interface {
	ActiveDraws(ctx context.Context) ([]domain.Draw, error)
	CompletedDraws(ctx context.Context) ([]domain.Draw, error)
	Draw(ctx context.Context, drawID string) (*domain.Draw, error)
}

type drawsAPI struct {
	client httpClient.HTTPClient
}

// NewDrawsAPI 創建開獎端點客戶端
func NewDrawsAPI(client httpClient.HTTPClient) DrawsAPI {
	return &drawsAPI{client: client}
}

func (a *drawsAPI) ActiveDraws(ctx context.Context) ([]domain.Draw, error) {
	var draws []domain.Draw
	if err := a.client.Get(ctx, "/draws/active", nil, &draws); err != nil {
		return nil, err
	}
	return draws, nil
}

func (a *drawsAPI) CompletedDraws(ctx context.Context) ([]domain.Draw, error) {
	var draws []domain.Draw
	if err := a.client.Get(ctx, "/draws/completed", nil, &draws); err != nil {
		return nil, err
	}
	return draws, nil
}

func (a *drawsAPI) Draw(ctx context.Context, drawID string) (*domain.Draw, error) {
	var draw domain.Draw
	if err := a.client.Get(ctx, fmt.Sprintf("/draws/%s", drawID), nil, &draw); err != nil {
		return nil, err
	}
	return &draw, nil
}
