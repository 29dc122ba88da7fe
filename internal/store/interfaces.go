package store

import (
	"context"

	"github.com/oyaguma3/cwa-submission-client/pkg/model"
)

// StateStore は端末状態の永続化を定義する。
// 未保存のレコードは(nil, nil)を返す。
type StateStore interface {
	GetRegistration(ctx context.Context) (*model.Registration, error)
	SaveRegistration(ctx context.Context, reg *model.Registration) error
	// ClearRegistration は登録情報と検査結果をまとめて削除する
	ClearRegistration(ctx context.Context) error

	GetTestResult(ctx context.Context) (*model.TestResult, error)
	SaveTestResult(ctx context.Context, result *model.TestResult) error

	GetFakeRequestState(ctx context.Context) (*model.FakeRequestState, error)
	SaveFakeRequestState(ctx context.Context, state *model.FakeRequestState) error

	GetSubmission(ctx context.Context) (*model.SubmissionRecord, error)
	SaveSubmission(ctx context.Context, rec *model.SubmissionRecord) error
}
