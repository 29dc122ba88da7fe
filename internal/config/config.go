// Package config は環境変数からアプリケーション設定を読み込む。
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config はアプリケーション設定を保持する
type Config struct {
	// Valkey接続設定
	RedisHost string `envconfig:"REDIS_HOST" required:"true"`
	RedisPort string `envconfig:"REDIS_PORT" required:"true"`
	RedisPass string `envconfig:"REDIS_PASS" required:"true"`

	// サーバー接続設定
	SubmissionAPIURL   string `envconfig:"SUBMISSION_API_URL" required:"true"`
	VerificationAPIURL string `envconfig:"VERIFICATION_API_URL" required:"true"`

	// 端末設定
	DeviceID           string   `envconfig:"DEVICE_ID" default:"default"`
	SupportedCountries []string `envconfig:"SUPPORTED_COUNTRIES" default:"DE"`

	// Fake Request設定
	FakeRequestInterval     time.Duration `envconfig:"FAKE_REQUEST_INTERVAL" default:"2h"`
	FakeRequestInitialDelay time.Duration `envconfig:"FAKE_REQUEST_INITIAL_DELAY" default:"24h"`
	FakeRequestTestMode     bool          `envconfig:"FAKE_REQUEST_TEST_MODE" default:"false"`
	FakeRequestTestFetches  int           `envconfig:"FAKE_REQUEST_TEST_FETCHES" default:"2"`

	// 検査結果ポーリング設定
	TestResultPollInterval time.Duration `envconfig:"TEST_RESULT_POLL_INTERVAL" default:"2h"`

	// ログ設定
	LogMaskTestID bool `envconfig:"LOG_MASK_TEST_ID" default:"true"`
}

// Load は環境変数から設定を読み込む
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// ValkeyAddr はValkey接続アドレスを "host:port" 形式で返す
func (c *Config) ValkeyAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// validate は設定値のバリデーションを行う
func (c *Config) validate() error {
	if !isHTTPURL(c.SubmissionAPIURL) {
		return fmt.Errorf("SUBMISSION_API_URL must start with http:// or https://")
	}
	if !isHTTPURL(c.VerificationAPIURL) {
		return fmt.Errorf("VERIFICATION_API_URL must start with http:// or https://")
	}
	if strings.TrimSpace(c.DeviceID) == "" {
		return fmt.Errorf("DEVICE_ID must not be empty")
	}
	if len(c.SupportedCountries) == 0 {
		return fmt.Errorf("SUPPORTED_COUNTRIES must not be empty")
	}
	for _, country := range c.SupportedCountries {
		if len(country) != 2 {
			return fmt.Errorf("SUPPORTED_COUNTRIES contains invalid country code %q", country)
		}
	}
	if c.FakeRequestInterval <= 0 {
		return fmt.Errorf("FAKE_REQUEST_INTERVAL must be positive")
	}
	if c.FakeRequestInitialDelay < 0 {
		return fmt.Errorf("FAKE_REQUEST_INITIAL_DELAY must not be negative")
	}
	if c.FakeRequestTestMode && c.FakeRequestTestFetches <= 0 {
		return fmt.Errorf("FAKE_REQUEST_TEST_FETCHES must be positive in test mode")
	}
	if c.TestResultPollInterval <= 0 {
		return fmt.Errorf("TEST_RESULT_POLL_INTERVAL must be positive")
	}
	return nil
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
