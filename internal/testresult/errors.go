package testresult

import "errors"

var (
	// ErrNoRegistrationToken はRegistration Tokenが保存されていない場合のエラー
	ErrNoRegistrationToken = errors.New("no registration token")
	// ErrNoTerminalResult は確定した検査結果が保存されていない場合のエラー
	ErrNoTerminalResult = errors.New("no terminal test result")
)
