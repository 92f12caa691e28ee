package tokenstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store 管理唯一的客戶端持久狀態：Bearer 令牌。
// 令牌以單一文件保存，文件不存在即代表未登入。
type Store interface {
	// Token 返回當前令牌，不存在時 ok 為 false
	Token() (token string, ok bool)

	// Save 持久化令牌
	Save(token string) error

	// Clear 刪除持久化的令牌，令牌不存在時不視為錯誤
	Clear() error
}

type fileStore struct {
	path  string
	mutex sync.RWMutex

	// 記憶體快取，避免每個請求都讀文件
	cached string
	loaded bool
}

// NewFileStore 創建以文件為後端的令牌存儲
func NewFileStore(path string) Store {
	return &fileStore{path: path}
}

func (s *fileStore) Token() (string, bool) {
	s.mutex.RLock()
	if s.loaded {
		defer s.mutex.RUnlock()
		return s.cached, s.cached != ""
	}
	s.mutex.RUnlock()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.loaded {
		data, err := os.ReadFile(s.path)
		if err == nil {
			s.cached = strings.TrimSpace(string(data))
		}
		s.loaded = true
	}

	return s.cached, s.cached != ""
}

func (s *fileStore) Save(token string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	// 確保目錄存在
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	// 令牌是憑證，只允許擁有者讀寫
	if err := os.WriteFile(s.path, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	s.cached = token
	s.loaded = true
	return nil
}

func (s *fileStore) Clear() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.cached = ""
	s.loaded = true

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
