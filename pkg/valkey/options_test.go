package valkey

import (
	"testing"
	"time"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Addr != "localhost:6379" {
		t.Errorf("Addr = %q, want %q", opts.Addr, "localhost:6379")
	}
	if opts.Password != "" {
		t.Errorf("Password = %q, want empty", opts.Password)
	}
	if opts.ConnectTimeout != 3*time.Second {
		t.Errorf("ConnectTimeout = %v, want %v", opts.ConnectTimeout, 3*time.Second)
	}
	if opts.ReadTimeout != 2*time.Second || opts.WriteTimeout != 2*time.Second {
		t.Errorf("Read/WriteTimeout = %v/%v, want 2s/2s", opts.ReadTimeout, opts.WriteTimeout)
	}
	if opts.PoolSize != 10 || opts.MinIdleConns != 2 {
		t.Errorf("PoolSize/MinIdleConns = %d/%d, want 10/2", opts.PoolSize, opts.MinIdleConns)
	}
}

func TestCLIOptions(t *testing.T) {
	opts := CLIOptions()

	if opts.ConnectTimeout != 5*time.Second {
		t.Errorf("ConnectTimeout = %v, want %v", opts.ConnectTimeout, 5*time.Second)
	}
	if opts.PoolSize != 2 {
		t.Errorf("PoolSize = %d, want %d", opts.PoolSize, 2)
	}
	if opts.MinIdleConns != 0 {
		t.Errorf("MinIdleConns = %d, want %d", opts.MinIdleConns, 0)
	}
}

func TestOptionsBuilder(t *testing.T) {
	opts := DefaultOptions().
		WithAddr("192.168.1.100:6380").
		WithPassword("secret").
		WithDB(1).
		WithTimeouts(5*time.Second, 3*time.Second, 3*time.Second).
		WithPool(20, 5)

	if opts.Addr != "192.168.1.100:6380" {
		t.Errorf("Addr = %q, want %q", opts.Addr, "192.168.1.100:6380")
	}
	if opts.Password != "secret" {
		t.Errorf("Password = %q, want %q", opts.Password, "secret")
	}
	if opts.DB != 1 {
		t.Errorf("DB = %d, want %d", opts.DB, 1)
	}
	if opts.ConnectTimeout != 5*time.Second {
		t.Errorf("ConnectTimeout = %v, want %v", opts.ConnectTimeout, 5*time.Second)
	}
	if opts.PoolSize != 20 || opts.MinIdleConns != 5 {
		t.Errorf("PoolSize/MinIdleConns = %d/%d, want 20/5", opts.PoolSize, opts.MinIdleConns)
	}
}

func TestAsynqOpt(t *testing.T) {
	opts := DefaultOptions().
		WithAddr("valkey:6379").
		WithPassword("secret").
		WithDB(2)

	got := opts.AsynqOpt()
	if got.Addr != "valkey:6379" {
		t.Errorf("Addr = %q, want %q", got.Addr, "valkey:6379")
	}
	if got.Password != "secret" {
		t.Errorf("Password = %q, want %q", got.Password, "secret")
	}
	if got.DB != 2 {
		t.Errorf("DB = %d, want %d", got.DB, 2)
	}
	if got.DialTimeout != opts.ConnectTimeout {
		t.Errorf("DialTimeout = %v, want %v", got.DialTimeout, opts.ConnectTimeout)
	}
	if got.PoolSize != opts.PoolSize {
		t.Errorf("PoolSize = %d, want %d", got.PoolSize, opts.PoolSize)
	}
}

func TestRedisOpt(t *testing.T) {
	opts := CLIOptions().WithAddr("valkey:6379").WithPassword("secret").WithDB(3)

	got := opts.RedisOpt()
	if got.Addr != "valkey:6379" || got.Password != "secret" || got.DB != 3 {
		t.Errorf("RedisOpt() = %+v", got)
	}
	if got.DialTimeout != opts.ConnectTimeout || got.ReadTimeout != opts.ReadTimeout {
		t.Errorf("RedisOpt() timeouts = %v/%v", got.DialTimeout, got.ReadTimeout)
	}
	if got.PoolSize != 2 || got.MinIdleConns != 0 {
		t.Errorf("RedisOpt() pool = %d/%d, want 2/0", got.PoolSize, got.MinIdleConns)
	}
}
