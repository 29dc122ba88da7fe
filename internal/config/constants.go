package config

import "time"

// Valkey接続設定
const (
	ValkeyConnectTimeout = 3 * time.Second
	ValkeyCommandTimeout = 2 * time.Second
	ValkeyPoolSize       = 10
)

// サーバー接続設定
const (
	HTTPRequestTimeout = 10 * time.Second
)

// Circuit Breaker設定
const (
	CBName             = "cwa-server"
	CBDecoyName        = "cwa-server-decoy"
	CBMaxRequests      = 3
	CBInterval         = 10 * time.Second
	CBTimeout          = 30 * time.Second
	CBFailureThreshold = 5
)

// Fake Request設定
// 2時間間隔のtickで平均約5日に1回シーケンスが開始される確率
const (
	FakeRequestProbability    = 60
	FakeRequestMinFetches     = 2
	FakeRequestMaxFetches     = 6
	FakeRequestMinUploadDelay = 5 * time.Second
	FakeRequestMaxUploadDelay = 15 * time.Second
)

// 提出設定
const (
	MaxKeysPerSubmission = 14
)

// シャットダウン設定
const (
	ShutdownTimeout = 5 * time.Second
)
