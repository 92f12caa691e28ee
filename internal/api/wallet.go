package api

import (
	"context"
	"encoding/json"

	"naijalotto_client/internal/domain"
	"naijalotto_client/pkg/httpClient"
)

// WithdrawRequest 提款請求體。
// 銀行識別欄位在整個客戶端統一為 bank_code（UI 收集的本來就是行號，如 "044"），
// 線上傳輸也使用 bank_code 鍵名。
type WithdrawRequest struct {
	Amount        float64 `json:"amount" validate:"gte=100"`
	AccountNumber string  `json:"account_number" validate:"required"`
	AccountName   string  `json:"account_name" validate:"required"`
	BankCode      string  `json:"bank_code" validate:"required"`
}

// WalletAPI 錢包相關端點
type WalletAPI interface {
	Details(ctx context.Context) (*domain.WalletDetails, error)
	TopUp(ctx context.Context, amount float64) (*domain.TopUpAuthorization, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (*domain.Transaction, error)
	VerifyPayment(ctx context.Context, reference string) (json.RawMessage, error)
}

type walletAPI struct {
	client httpClient.HTTPClient
}

// NewWalletAPI 創建錢包端點客戶端
func NewWalletAPI(client httpClient.HTTPClient) WalletAPI {
	return &walletAPI{client: client}
}

func (a *walletAPI) Details(ctx context.Context) (*domain.WalletDetails, error) {
	var details domain.WalletDetails
	if err := a.client.Get(ctx, "/wallet/details", nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (a *walletAPI) TopUp(ctx context.Context, amount float64) (*domain.TopUpAuthorization, error) {
	body := map[string]float64{"amount": amount}
	var auth domain.TopUpAuthorization
	if err := a.client.Post(ctx, "/wallet/topup", body, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

func (a *walletAPI) Withdraw(ctx context.Context, req WithdrawRequest) (*domain.Transaction, error) {
	var tx domain.Transaction
	if err := a.client.Post(ctx, "/wallet/withdraw", req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (a *walletAPI) VerifyPayment(ctx context.Context, reference string) (json.RawMessage, error) {
	query := map[string]string{"reference": reference}
	var result json.RawMessage
	if err := a.client.Get(ctx, "/wallet/verify-payment", query, &result); err != nil {
		return nil, err
	}
	return result, nil
}
