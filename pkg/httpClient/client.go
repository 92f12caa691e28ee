package httpClient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenSource 提供當前持久化的 Bearer 令牌。
// ok 為 false 表示未登入，請求不附帶 Authorization 頭部。
type TokenSource interface {
	Token() (token string, ok bool)
}

// HTTPClient 定義對後端 REST API 的客戶端接口
type HTTPClient interface {
	// Get 發送GET請求並將響應體解碼到 out（out 可為 nil）
	Get(ctx context.Context, path string, queryParams map[string]string, out interface{}) error

	// Post 發送JSON格式的POST請求並將響應體解碼到 out（body、out 均可為 nil）
	Post(ctx context.Context, path string, body interface{}, out interface{}) error
}

// Client 實現 HTTPClient 接口
type Client struct {
	client      *http.Client
	baseURL     string
	timeout     time.Duration
	tokenSource TokenSource
}

// ClientOption 定義客戶端配置選項
type ClientOption func(*Client)

// WithTimeout 設置每個請求的默認截止時間。
// 上下文本身已有截止時間時以上下文為準。
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithTokenSource 設置 Bearer 令牌來源
func WithTokenSource(source TokenSource) ClientOption {
	return func(c *Client) {
		c.tokenSource = source
	}
}

// WithHTTPClient 替換底層的 http.Client，供測試注入
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient 創建指向單一後端的新HTTP客戶端
func NewClient(baseURL string, opts ...ClientOption) *Client {
	client := &Client{
		client:  &http.Client{},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: 15 * time.Second,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Get 實現GET請求
func (c *Client) Get(ctx context.Context, path string, queryParams map[string]string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, queryParams, nil, out)
}

// Post 實現POST請求
func (c *Client) Post(ctx context.Context, path string, body interface{}, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// do 構建並發送請求。每個請求都在截止時間內執行，
// 保證上層的處理中旗標不會因為網絡掛起而永久卡住。
func (c *Client) do(ctx context.Context, method, path string, queryParams map[string]string, body interface{}, out interface{}) error {
	ctx, traceID := EnsureTraceID(ctx)

	if _, hasDeadline := ctx.Deadline(); !hasDeadline && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	// 構建URL
	reqURL, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}
	reqURL.Path = fmt.Sprintf("%s/%s", strings.TrimSuffix(reqURL.Path, "/"), strings.TrimPrefix(path, "/"))

	// 添加查詢參數
	if len(queryParams) > 0 {
		q := reqURL.Query()
		for k, v := range queryParams {
			q.Add(k, v)
		}
		reqURL.RawQuery = q.Encode()
	}

	// 處理請求體
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	// 創建HTTP請求
	httpReq, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reqBody)
	if err != nil {
		return err
	}

	// 設置默認頭部
	httpReq.Header.Set(HeaderContentType, ContentTypeJSON)
	httpReq.Header.Set(HeaderAccept, ContentTypeJSON)
	httpReq.Header.Set(HeaderTraceID, traceID)

	// 附帶 Bearer 令牌
	if c.tokenSource != nil {
		if token, ok := c.tokenSource.Token(); ok {
			httpReq.Header.Set(HeaderAuthorization, BearerPrefix+token)
		}
	}

	// 發送請求
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// 讀取響應體
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	// 非 2xx 一律轉為 APIError，保留後端的 detail 原文
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			TraceID:    traceID,
		}
		var eb errorBody
		if err := json.Unmarshal(respBody, &eb); err == nil {
			apiErr.Detail = eb.detailString()
		}
		return apiErr
	}

	// 解析響應
	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	}

	return nil
}
