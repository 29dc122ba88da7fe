package store

import (
	"errors"
	"fmt"

	"github.com/oyaguma3/cwa-submission-client/pkg/valkey"
)

var (
	// ErrValkeyUnavailable はValkeyへの接続が利用不可能な場合のエラー
	ErrValkeyUnavailable = errors.New("valkey unavailable")
	// ErrValkeyCommand はValkeyコマンドが失敗した場合のエラー
	ErrValkeyCommand = errors.New("valkey command error")
	// ErrRecordInvalid は保存済みレコードのデシリアライズに失敗した場合のエラー
	ErrRecordInvalid = errors.New("stored record invalid")
)

// wrapValkeyError はgo-redisのエラーを接続エラーとコマンドエラーに分類する。
func wrapValkeyError(err error) error {
	if valkey.IsConnectionError(err) {
		return fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return fmt.Errorf("%w: %v", ErrValkeyCommand, err)
}
