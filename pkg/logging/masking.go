// Package logging はログ関連のユーティリティを提供する。
package logging

import "strings"

// MaskTestID はMobileTestIdの15桁コードをマスキングする。
// 先頭3桁 + マスク + 末尾2桁
// 例: 123456789012345 → 123**********45
// enabled=false の場合はマスキングせずにそのまま返す。
func MaskTestID(testID string, enabled bool) string {
	if !enabled {
		return testID
	}
	return MaskPartial(testID, 3, 2, '*')
}

// MaskRegistrationToken はRegistration Tokenのid部分をマスキングする。
// 日付部分は運用上の手掛かりとして残す。
// 例: 1234567890123|2020-07-10 → 123*********3|2020-07-10
func MaskRegistrationToken(token string, enabled bool) string {
	if !enabled {
		return token
	}
	id, date, found := strings.Cut(token, "|")
	if !found {
		return MaskPartial(token, 3, 1, '*')
	}
	return MaskPartial(id, 3, 1, '*') + "|" + date
}

// MaskPartial は文字列の一部をマスキングする。
// keepPrefix: 先頭から保持する文字数
// keepSuffix: 末尾から保持する文字数
// maskChar: マスキングに使用する文字
func MaskPartial(s string, keepPrefix, keepSuffix int, maskChar rune) string {
	runes := []rune(s)
	length := len(runes)

	// 文字列が短すぎる場合はそのまま返す
	if length <= keepPrefix+keepSuffix {
		return s
	}

	result := make([]rune, length)
	copy(result, runes[:keepPrefix])
	for i := keepPrefix; i < length-keepSuffix; i++ {
		result[i] = maskChar
	}
	copy(result[length-keepSuffix:], runes[length-keepSuffix:])

	return string(result)
}

// Masker はマスキング設定を保持する構造体。
type Masker struct {
	enabled bool
}

// NewMasker は新しいMaskerを生成する。
func NewMasker(enabled bool) *Masker {
	return &Masker{enabled: enabled}
}

// TestID はMobileTestIdをマスキングする。
func (m *Masker) TestID(testID string) string {
	return MaskTestID(testID, m.enabled)
}

// RegistrationToken はRegistration Tokenをマスキングする。
func (m *Masker) RegistrationToken(token string) string {
	return MaskRegistrationToken(token, m.enabled)
}
