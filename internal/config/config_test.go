package config

import (
	"os"
	"testing"
	"time"
)

// setRequiredEnv は必須環境変数をすべて設定する
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("REDIS_PASS", "secret")
	t.Setenv("SUBMISSION_API_URL", "https://submission.example.com")
	t.Setenv("VERIFICATION_API_URL", "https://verification.example.com")
}

// validConfig はvalidate()を通過する最小構成を返す
func validConfig() *Config {
	return &Config{
		SubmissionAPIURL:        "http://localhost:8080",
		VerificationAPIURL:      "http://localhost:8081",
		DeviceID:                "default",
		SupportedCountries:      []string{"DE"},
		FakeRequestInterval:     2 * time.Hour,
		FakeRequestInitialDelay: 24 * time.Hour,
		FakeRequestTestFetches:  2,
		TestResultPollInterval:  2 * time.Hour,
	}
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DEVICE_ID", "device-01")
	t.Setenv("SUPPORTED_COUNTRIES", "DE,NL,FR")
	t.Setenv("FAKE_REQUEST_INTERVAL", "30m")
	t.Setenv("FAKE_REQUEST_INITIAL_DELAY", "0s")
	t.Setenv("FAKE_REQUEST_TEST_MODE", "true")
	t.Setenv("FAKE_REQUEST_TEST_FETCHES", "4")
	t.Setenv("TEST_RESULT_POLL_INTERVAL", "15m")
	t.Setenv("LOG_MASK_TEST_ID", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.RedisHost != "localhost" {
		t.Errorf("RedisHost = %q, want %q", cfg.RedisHost, "localhost")
	}
	if cfg.SubmissionAPIURL != "https://submission.example.com" {
		t.Errorf("SubmissionAPIURL = %q", cfg.SubmissionAPIURL)
	}
	if cfg.VerificationAPIURL != "https://verification.example.com" {
		t.Errorf("VerificationAPIURL = %q", cfg.VerificationAPIURL)
	}
	if cfg.DeviceID != "device-01" {
		t.Errorf("DeviceID = %q, want %q", cfg.DeviceID, "device-01")
	}
	if len(cfg.SupportedCountries) != 3 || cfg.SupportedCountries[1] != "NL" {
		t.Errorf("SupportedCountries = %v, want [DE NL FR]", cfg.SupportedCountries)
	}
	if cfg.FakeRequestInterval != 30*time.Minute {
		t.Errorf("FakeRequestInterval = %v, want %v", cfg.FakeRequestInterval, 30*time.Minute)
	}
	if cfg.FakeRequestInitialDelay != 0 {
		t.Errorf("FakeRequestInitialDelay = %v, want 0", cfg.FakeRequestInitialDelay)
	}
	if !cfg.FakeRequestTestMode {
		t.Error("FakeRequestTestMode = false, want true")
	}
	if cfg.FakeRequestTestFetches != 4 {
		t.Errorf("FakeRequestTestFetches = %d, want 4", cfg.FakeRequestTestFetches)
	}
	if cfg.TestResultPollInterval != 15*time.Minute {
		t.Errorf("TestResultPollInterval = %v, want %v", cfg.TestResultPollInterval, 15*time.Minute)
	}
	if cfg.LogMaskTestID {
		t.Error("LogMaskTestID = true, want false")
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.DeviceID != "default" {
		t.Errorf("DeviceID default = %q, want %q", cfg.DeviceID, "default")
	}
	if len(cfg.SupportedCountries) != 1 || cfg.SupportedCountries[0] != "DE" {
		t.Errorf("SupportedCountries default = %v, want [DE]", cfg.SupportedCountries)
	}
	if cfg.FakeRequestInterval != 2*time.Hour {
		t.Errorf("FakeRequestInterval default = %v, want 2h", cfg.FakeRequestInterval)
	}
	if cfg.FakeRequestInitialDelay != 24*time.Hour {
		t.Errorf("FakeRequestInitialDelay default = %v, want 24h", cfg.FakeRequestInitialDelay)
	}
	if cfg.FakeRequestTestMode {
		t.Error("FakeRequestTestMode default = true, want false")
	}
	if cfg.TestResultPollInterval != 2*time.Hour {
		t.Errorf("TestResultPollInterval default = %v, want 2h", cfg.TestResultPollInterval)
	}
	if !cfg.LogMaskTestID {
		t.Error("LogMaskTestID default = false, want true")
	}
}

func TestLoadMissingRequired(t *testing.T) {
	required := map[string]string{
		"REDIS_HOST":           "localhost",
		"REDIS_PORT":           "6379",
		"REDIS_PASS":           "secret",
		"SUBMISSION_API_URL":   "https://submission.example.com",
		"VERIFICATION_API_URL": "https://verification.example.com",
	}

	for skip := range required {
		t.Run("missing "+skip, func(t *testing.T) {
			for key := range required {
				os.Unsetenv(key)
			}
			for key, val := range required {
				if key != skip {
					t.Setenv(key, val)
				}
			}
			if _, err := Load(); err == nil {
				t.Errorf("Load() should return error when %s is missing", skip)
			}
		})
	}
}

func TestValkeyAddr(t *testing.T) {
	cfg := &Config{RedisHost: "redis.example.com", RedisPort: "6380"}
	if got := cfg.ValkeyAddr(); got != "redis.example.com:6380" {
		t.Errorf("ValkeyAddr() = %q, want %q", got, "redis.example.com:6380")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "valid", modify: func(c *Config) {}, wantErr: false},
		{name: "https urls", modify: func(c *Config) {
			c.SubmissionAPIURL = "https://a.example.com"
			c.VerificationAPIURL = "https://b.example.com"
		}, wantErr: false},
		{name: "submission url without scheme", modify: func(c *Config) { c.SubmissionAPIURL = "localhost:8080" }, wantErr: true},
		{name: "verification url ftp", modify: func(c *Config) { c.VerificationAPIURL = "ftp://localhost" }, wantErr: true},
		{name: "empty device id", modify: func(c *Config) { c.DeviceID = "  " }, wantErr: true},
		{name: "no countries", modify: func(c *Config) { c.SupportedCountries = nil }, wantErr: true},
		{name: "invalid country", modify: func(c *Config) { c.SupportedCountries = []string{"DEU"} }, wantErr: true},
		{name: "zero interval", modify: func(c *Config) { c.FakeRequestInterval = 0 }, wantErr: true},
		{name: "negative initial delay", modify: func(c *Config) { c.FakeRequestInitialDelay = -time.Second }, wantErr: true},
		{name: "test mode without fetches", modify: func(c *Config) {
			c.FakeRequestTestMode = true
			c.FakeRequestTestFetches = 0
		}, wantErr: true},
		{name: "fetches ignored outside test mode", modify: func(c *Config) { c.FakeRequestTestFetches = 0 }, wantErr: false},
		{name: "zero poll interval", modify: func(c *Config) { c.TestResultPollInterval = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)
			err := cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConstants(t *testing.T) {
	if FakeRequestProbability != 60 {
		t.Errorf("FakeRequestProbability = %d, want 60", FakeRequestProbability)
	}
	if FakeRequestMinFetches != 2 || FakeRequestMaxFetches != 6 {
		t.Errorf("fetch range = [%d, %d], want [2, 6]", FakeRequestMinFetches, FakeRequestMaxFetches)
	}
	if FakeRequestMinUploadDelay != 5*time.Second || FakeRequestMaxUploadDelay != 15*time.Second {
		t.Errorf("upload delay range = [%v, %v], want [5s, 15s]", FakeRequestMinUploadDelay, FakeRequestMaxUploadDelay)
	}
	if MaxKeysPerSubmission != 14 {
		t.Errorf("MaxKeysPerSubmission = %d, want 14", MaxKeysPerSubmission)
	}
	if CBFailureThreshold != 5 {
		t.Errorf("CBFailureThreshold = %d, want 5", CBFailureThreshold)
	}
}
