// Package testid はチェックサム付きのMobileTestIdを生成・検証する。
//
// ID部は13桁の数字、チェックサムは (id*100 + checksum) mod 97 == 0 を満たす2桁の数字
// （ISO 7064 MOD 97-10系）。両者を連結した15桁がユーザーに提示されるコードとなる。
package testid

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	// IDLength はID部の桁数
	IDLength = 13
	// ChecksumLength はチェックサム部の桁数
	ChecksumLength = 2
	// FullLength は連結後のコード長
	FullLength = IDLength + ChecksumLength

	// DateLayout は日付文字列のフォーマット（時刻成分なし）
	DateLayout = "2006-01-02"

	// TokenSeparator はRegistration Tokenの区切り文字
	TokenSeparator = "|"

	modulus = 97

	// symptomOnsetOffsetDays は発症日から感染可能開始日までの日数
	symptomOnsetOffsetDays = 2
)

var idSpace = new(big.Int).Exp(big.NewInt(10), big.NewInt(IDLength), nil)

// MobileTestID はチェックサム付き識別子と感染可能開始日を表す
type MobileTestID struct {
	ID                    string
	Checksum              string
	DatePatientInfectious string
}

// FullString はID部とチェックサムを連結した15桁のコードを返す。
func (m *MobileTestID) FullString() string {
	return m.ID + m.Checksum
}

// RegistrationToken はサーバー側の検索キー "{id}|{datePatientInfectious}" を返す。
func (m *MobileTestID) RegistrationToken() string {
	return m.ID + TokenSeparator + m.DatePatientInfectious
}

// Generate は新しいMobileTestIDを生成する。
func Generate(datePatientInfectious string) (*MobileTestID, error) {
	if _, err := time.Parse(DateLayout, datePatientInfectious); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, datePatientInfectious)
	}

	n, err := rand.Int(rand.Reader, idSpace)
	if err != nil {
		return nil, fmt.Errorf("random id generation failed: %w", err)
	}
	id := fmt.Sprintf("%0*d", IDLength, n.Uint64())

	checksum, err := Checksum(id)
	if err != nil {
		// 自前で生成したIDなので到達しない
		return nil, err
	}

	return &MobileTestID{
		ID:                    id,
		Checksum:              checksum,
		DatePatientInfectious: datePatientInfectious,
	}, nil
}

// Checksum は13桁のIDに対する2桁のチェックサムを計算する。
func Checksum(id string) (string, error) {
	if len(id) != IDLength {
		return "", fmt.Errorf("%w: id must be %d digits, got %d", ErrInvalidLength, IDLength, len(id))
	}
	if !isDigits(id) {
		return "", ErrNonNumeric
	}
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNonNumeric, err)
	}
	// 10^15 < 2^64 のためuint64で桁あふれしない
	c := (modulus - (n*100)%modulus) % modulus
	return fmt.Sprintf("%02d", c), nil
}

// Validate は15桁のコードを検証し、MobileTestIDを復元する。
// 外部入力を受け付けるため、不正な値はエラーとして返す。
// 戻り値のDatePatientInfectiousは空になる。
func Validate(fullString string) (*MobileTestID, error) {
	if len(fullString) != FullLength {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrInvalidLength, FullLength, len(fullString))
	}
	if !isDigits(fullString) {
		return nil, ErrNonNumeric
	}

	id := fullString[:IDLength]
	checksum := fullString[IDLength:]
	want, err := Checksum(id)
	if err != nil {
		return nil, err
	}
	if checksum != want {
		return nil, ErrChecksumMismatch
	}

	return &MobileTestID{ID: id, Checksum: checksum}, nil
}

// ParseRegistrationToken はRegistration TokenからMobileTestIDを復元する。
func ParseRegistrationToken(token string) (*MobileTestID, error) {
	parts := strings.Split(token, TokenSeparator)
	if len(parts) != 2 {
		return nil, ErrInvalidToken
	}
	checksum, err := Checksum(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if _, err := time.Parse(DateLayout, parts[1]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, ErrInvalidDate)
	}
	return &MobileTestID{
		ID:                    parts[0],
		Checksum:              checksum,
		DatePatientInfectious: parts[1],
	}, nil
}

// InfectiousDateFromSymptomOnset は発症日から感染可能開始日を算出する。
func InfectiousDateFromSymptomOnset(onset time.Time) string {
	return onset.AddDate(0, 0, -symptomOnsetOffsetDays).Format(DateLayout)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
