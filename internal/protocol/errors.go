package protocol

import (
	"errors"
	"fmt"
)

// センチネルエラー
var (
	// ErrRequestCouldNotBeBuilt は送信前のエンコード・検証に失敗した場合のエラー
	ErrRequestCouldNotBeBuilt = errors.New("request could not be built")

	// ErrInvalidPayloadOrHeaders はサーバーが400を返した場合のエラー
	ErrInvalidPayloadOrHeaders = errors.New("invalid payload or headers")

	// ErrInvalidCredential はサーバーが403を返した場合のエラー
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrInvalidTAN はMobileTestIdによる提出で403が返された場合のエラー
	ErrInvalidTAN = fmt.Errorf("%w: invalid tan", ErrInvalidCredential)

	// ErrInvalidCoviCode はcovi-codeによる提出で403が返された場合のエラー
	ErrInvalidCoviCode = fmt.Errorf("%w: invalid covi-code", ErrInvalidCredential)

	// ErrCircuitOpen はCircuit BreakerがOpen状態の場合のエラー
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrInvalidResponse はサーバーからのレスポンスが不正な場合のエラー
	ErrInvalidResponse = errors.New("invalid response from server")

	// ErrMalformedPayload はprotobufペイロードのデコードに失敗した場合のエラー
	ErrMalformedPayload = errors.New("malformed submission payload")
)

// ServerError は分類外のHTTPステータスを表す
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: %d", e.StatusCode)
}

// ConnectionError はDNS・TLS・接続レベルの通信エラーを表す
type ConnectionError struct {
	Cause error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %v", e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}
