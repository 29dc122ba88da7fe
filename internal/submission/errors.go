package submission

import (
	"errors"

	"github.com/oyaguma3/cwa-submission-client/internal/testresult"
)

var (
	// ErrNoRegistrationToken はRegistration Tokenが保存されていない場合のエラー
	ErrNoRegistrationToken = testresult.ErrNoRegistrationToken
	// ErrRegistrationExists は登録済みのMobileTestIdが存在する場合のエラー
	ErrRegistrationExists = errors.New("mobile test id already registered")
	// ErrNoPositiveResult は陽性の検査結果が保存されていない場合のエラー
	ErrNoPositiveResult = errors.New("no positive test result")
	// ErrNoKeys は提出対象の診断キーが存在しない場合のエラー
	ErrNoKeys = errors.New("no diagnosis keys")
)
