// Package exposurekeys は端末の診断キー取得機能を提供する。
package exposurekeys

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/oyaguma3/cwa-submission-client/pkg/model"
)

var (
	// ErrKeysUnavailable は診断キーを取得できない場合のエラー
	ErrKeysUnavailable = errors.New("diagnosis keys unavailable")
	// ErrInvalidKeyFile はキーファイルの内容が不正な場合のエラー
	ErrInvalidKeyFile = errors.New("invalid diagnosis key file")
)

const keyDataLength = 16

//go:generate mockgen -source=exposurekeys.go -destination=../mocks/mock_exposurekeys.go -package=mocks

// Retriever は端末に保存された診断キーの取得を定義する
type Retriever interface {
	// AccessDiagnosisKeys は提出対象の診断キーを返す
	AccessDiagnosisKeys(ctx context.Context) ([]model.TemporaryExposureKey, error)
}

// FileSource はJSONファイルから診断キーを読み込むRetriever実装。
// keyDataはbase64文字列で記述する。
type FileSource struct {
	path string
}

// NewFileSource は新しいFileSourceを生成する。
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// AccessDiagnosisKeys はファイルから診断キーを読み込む。
func (s *FileSource) AccessDiagnosisKeys(ctx context.Context) ([]model.TemporaryExposureKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeysUnavailable, err)
	}

	var keys []model.TemporaryExposureKey
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyFile, err)
	}
	for i, k := range keys {
		if len(k.KeyData) != keyDataLength {
			return nil, fmt.Errorf("%w: key %d has %d bytes", ErrInvalidKeyFile, i, len(k.KeyData))
		}
	}

	return keys, nil
}

var _ Retriever = (*FileSource)(nil)
