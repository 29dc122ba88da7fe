package valkey

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(context.Background(), DefaultOptions().WithAddr(mr.Addr()))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if pong != "PONG" {
		t.Errorf("Ping() = %q, want %q", pong, "PONG")
	}
}

func TestNewClientSharesServerWithMiniredis(t *testing.T) {
	mr := miniredis.RunT(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := NewClient(ctx, CLIOptions().WithAddr(mr.Addr()))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	if err := client.HSet(ctx, "cwa:test:fakerequest", "doing", true).Err(); err != nil {
		t.Errorf("HSet() error = %v", err)
	}
	if got := mr.HGet("cwa:test:fakerequest", "doing"); got != "1" {
		t.Errorf("HGet() = %q, want %q", got, "1")
	}
}

func TestNewClientConnectionError(t *testing.T) {
	// 存在しないアドレスへの接続
	opts := DefaultOptions().
		WithAddr("localhost:59999").
		WithTimeouts(100*time.Millisecond, 100*time.Millisecond, 100*time.Millisecond)

	if _, err := NewClient(context.Background(), opts); err == nil {
		t.Error("NewClient() expected error for invalid address")
	}
}

func TestNewClientCanceledContext(t *testing.T) {
	mr := miniredis.RunT(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(ctx, DefaultOptions().WithAddr(mr.Addr()))
	if err == nil {
		t.Fatal("NewClient() expected error for canceled context")
	}
	if !IsConnectionError(err) {
		t.Errorf("IsConnectionError(%v) = false, want true", err)
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"regular error", errors.New("some error"), false},
		{"redis nil", redis.Nil, false},
		{"context deadline exceeded", context.DeadlineExceeded, true},
		{"context canceled", context.Canceled, true},
		{"wrapped canceled", fmt.Errorf("hgetall: %w", context.Canceled), true},
		{"client closed", redis.ErrClosed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConnectionError(tt.err); got != tt.want {
				t.Errorf("IsConnectionError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
