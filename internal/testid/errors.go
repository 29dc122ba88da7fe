package testid

import "errors"

// センチネルエラー
var (
	// ErrInvalidLength は桁数が不正な場合のエラー
	ErrInvalidLength = errors.New("invalid test id length")
	// ErrNonNumeric は数字以外の文字を含む場合のエラー
	ErrNonNumeric = errors.New("test id must be numeric")
	// ErrChecksumMismatch はチェックサムが一致しない場合のエラー
	ErrChecksumMismatch = errors.New("test id checksum mismatch")
	// ErrInvalidDate は日付文字列が不正な場合のエラー
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidToken はRegistration Tokenの形式が不正な場合のエラー
	ErrInvalidToken = errors.New("invalid registration token")
)
