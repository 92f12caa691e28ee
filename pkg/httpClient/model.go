package httpClient

import (
	"encoding/json"
	"fmt"
)

const (
	// HTTP頭部常量
	HeaderTraceID       = "X-Trace-ID"
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"
	HeaderAuthorization = "Authorization"

	// 內容類型
	ContentTypeJSON = "application/json"

	// Bearer 認證方案前綴
	BearerPrefix = "Bearer "
)

// APIError 代表後端返回的非 2xx 響應。
// Detail 保留後端響應體中的 detail 欄位原文，供上層直接展示給用戶。
type APIError struct {
	StatusCode int
	Detail     string
	TraceID    string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// IsUnauthorized 判斷是否為 401 響應
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401
}

// errorBody 是後端錯誤響應體的結構。detail 可能是字串，
// 也可能是驗證器產生的結構化內容，兩種情況都要容忍。
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// detailString 將 detail 欄位轉為可展示的字串
func (b *errorBody) detailString() string {
	if len(b.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(b.Detail, &s); err == nil {
		return s
	}
	return string(b.Detail)
}
