package valkey

import (
	"context"
	"errors"
	"net"

	"github.com/redis/go-redis/v9"
)

// NewClient はValkeyクライアントを生成し、PINGで疎通を確認する。
// 疎通確認はctxとConnectTimeoutのうち短い方で打ち切られる。
func NewClient(ctx context.Context, opts *Options) (*redis.Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	client := redis.NewClient(opts.RedisOpt())

	pingCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// IsConnectionError はValkeyに到達できなかったことを示すエラーかどうかを判定する。
// redis.Nilなどコマンド結果のエラーはfalse。
func IsConnectionError(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, redis.ErrClosed),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
