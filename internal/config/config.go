package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 客戶端配置。
// 載入順序：內建默認值 → YAML 配置文件（如存在）→ 環境變量。
type Config struct {
	// BackendBaseURL 後端 REST API 的基礎地址
	BackendBaseURL string `yaml:"backend_base_url" validate:"required,url"`

	// RequestTimeout 每個後端請求的截止時間
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gt=0"`

	// CallbackListenAddr 支付回調服務器的監聽地址
	CallbackListenAddr string `yaml:"callback_listen_addr" validate:"required"`

	// TokenFilePath 持久化 Bearer 令牌的文件路徑
	TokenFilePath string `yaml:"token_file_path" validate:"required"`

	// LogLevel 日誌等級（debug/info/warn/error）
	LogLevel string `yaml:"log_level"`

	// WalletRefreshDelay 充值跳轉後延遲刷新錢包的等待時間
	WalletRefreshDelay time.Duration `yaml:"wallet_refresh_delay" validate:"gte=0"`
}

// DefaultConfigFile 默認的配置文件名
const DefaultConfigFile = "client.yaml"

// ===== 環境變量工具函數 =====

// getEnv 從環境變量獲取字符串值，如果不存在則返回默認值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsDuration 從環境變量獲取時間值，如果不存在或無法解析則返回默認值
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// defaultConfig 返回內建默認配置
func defaultConfig() *Config {
	return &Config{
		BackendBaseURL:     "http://localhost:8000/api",
		RequestTimeout:     15 * time.Second,
		CallbackListenAddr: "127.0.0.1:8765",
		TokenFilePath:      defaultTokenPath(),
		LogLevel:           "info",
		WalletRefreshDelay: 5 * time.Second,
	}
}

// defaultTokenPath 令牌默認保存在用戶主目錄下
func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".naijalotto/token"
	}
	return home + "/.naijalotto/token"
}

// LoadConfig 載入並驗證客戶端配置
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(getEnv("CLIENT_CONFIG_FILE", DefaultConfigFile))
}

// LoadConfigFrom 從指定的 YAML 文件載入配置，文件不存在時僅使用默認值與環境變量
func LoadConfigFrom(configPath string) (*Config, error) {
	// .env 文件不存在不視為錯誤
	_ = godotenv.Load()

	cfg := defaultConfig()

	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %s: %w", configPath, err)
		}
	}

	// 環境變量優先於配置文件
	cfg.BackendBaseURL = getEnv("BACKEND_BASE_URL", cfg.BackendBaseURL)
	cfg.RequestTimeout = getEnvAsDuration("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.CallbackListenAddr = getEnv("CALLBACK_LISTEN_ADDR", cfg.CallbackListenAddr)
	cfg.TokenFilePath = getEnv("TOKEN_FILE_PATH", cfg.TokenFilePath)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.WalletRefreshDelay = getEnvAsDuration("WALLET_REFRESH_DELAY", cfg.WalletRefreshDelay)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
