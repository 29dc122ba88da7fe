// Package store は提出フローの端末状態をValkeyに永続化する。
package store

import (
	"context"
	"fmt"

	"github.com/oyaguma3/cwa-submission-client/internal/config"
	"github.com/oyaguma3/cwa-submission-client/pkg/valkey"
	"github.com/redis/go-redis/v9"
)

// ValkeyClient はValkeyクライアントをラップする。
type ValkeyClient struct {
	client *redis.Client
}

// Options は設定からValkey接続オプションを組み立てる。
func Options(cfg *config.Config) *valkey.Options {
	return valkey.DefaultOptions().
		WithAddr(cfg.ValkeyAddr()).
		WithPassword(cfg.RedisPass).
		WithTimeouts(config.ValkeyConnectTimeout, config.ValkeyCommandTimeout, config.ValkeyCommandTimeout).
		WithPool(config.ValkeyPoolSize, 2)
}

// NewValkeyClient は新しいValkeyClientを生成する。
func NewValkeyClient(ctx context.Context, opts *valkey.Options) (*ValkeyClient, error) {
	client, err := valkey.NewClient(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}
	return &ValkeyClient{client: client}, nil
}

// Close は接続を閉じる。
func (v *ValkeyClient) Close() error {
	return v.client.Close()
}

// Client は内部のredis.Clientを返す。
func (v *ValkeyClient) Client() *redis.Client {
	return v.client
}
