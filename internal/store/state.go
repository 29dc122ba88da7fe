package store

import (
	"context"
	"fmt"

	"github.com/oyaguma3/cwa-submission-client/pkg/model"
)

// stateStore はStateStoreのValkey実装。
// 各レコードは端末単位のHashとして保存する。
type stateStore struct {
	vc       *ValkeyClient
	deviceID string
}

// NewStateStore は新しいStateStoreを生成する。
func NewStateStore(vc *ValkeyClient, deviceID string) StateStore {
	return &stateStore{vc: vc, deviceID: deviceID}
}

func (s *stateStore) key(suffix string) string {
	return deviceKey(s.deviceID, suffix)
}

// load はHashを読み出してvへ展開する。キーが存在しなければfalseを返す。
func (s *stateStore) load(ctx context.Context, suffix string, v any) (bool, error) {
	cmd := s.vc.Client().HGetAll(ctx, s.key(suffix))
	result, err := cmd.Result()
	if err != nil {
		return false, wrapValkeyError(err)
	}
	// キーが存在しない場合、HGetAllは空mapを返す
	if len(result) == 0 {
		return false, nil
	}
	if err := cmd.Scan(v); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrRecordInvalid, s.key(suffix), err)
	}
	return true, nil
}

// save はHash全体を置き換える。古いフィールドが残らないよう削除とHSETをパイプラインで実行する。
func (s *stateStore) save(ctx context.Context, suffix string, v any) error {
	key := s.key(suffix)
	pipe := s.vc.Client().TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, hashFields(v))
	if _, err := pipe.Exec(ctx); err != nil {
		return wrapValkeyError(err)
	}
	return nil
}

func (s *stateStore) GetRegistration(ctx context.Context) (*model.Registration, error) {
	reg := &model.Registration{}
	found, err := s.load(ctx, KeySuffixRegistration, reg)
	if err != nil || !found {
		return nil, err
	}
	return reg, nil
}

func (s *stateStore) SaveRegistration(ctx context.Context, reg *model.Registration) error {
	return s.save(ctx, KeySuffixRegistration, reg)
}

func (s *stateStore) ClearRegistration(ctx context.Context) error {
	err := s.vc.Client().Del(ctx, s.key(KeySuffixRegistration), s.key(KeySuffixTestResult)).Err()
	if err != nil {
		return wrapValkeyError(err)
	}
	return nil
}

func (s *stateStore) GetTestResult(ctx context.Context) (*model.TestResult, error) {
	result := &model.TestResult{}
	found, err := s.load(ctx, KeySuffixTestResult, result)
	if err != nil || !found {
		return nil, err
	}
	if !result.Result.IsValid() {
		return nil, fmt.Errorf("%w: unknown result %q", ErrRecordInvalid, result.Result)
	}
	return result, nil
}

func (s *stateStore) SaveTestResult(ctx context.Context, result *model.TestResult) error {
	return s.save(ctx, KeySuffixTestResult, result)
}

func (s *stateStore) GetFakeRequestState(ctx context.Context) (*model.FakeRequestState, error) {
	state := &model.FakeRequestState{}
	found, err := s.load(ctx, KeySuffixFakeRequest, state)
	if err != nil || !found {
		return nil, err
	}
	return state, nil
}

func (s *stateStore) SaveFakeRequestState(ctx context.Context, state *model.FakeRequestState) error {
	return s.save(ctx, KeySuffixFakeRequest, state)
}

func (s *stateStore) GetSubmission(ctx context.Context) (*model.SubmissionRecord, error) {
	rec := &model.SubmissionRecord{}
	found, err := s.load(ctx, KeySuffixSubmission, rec)
	if err != nil || !found {
		return nil, err
	}
	return rec, nil
}

func (s *stateStore) SaveSubmission(ctx context.Context, rec *model.SubmissionRecord) error {
	return s.save(ctx, KeySuffixSubmission, rec)
}
