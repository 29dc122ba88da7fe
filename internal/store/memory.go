package store

import (
	"context"
	"sync"

	"github.com/oyaguma3/cwa-submission-client/pkg/model"
)

// MemoryStore はプロセス内メモリに状態を保持するStateStore実装。
// テストおよびValkeyを使わない単発実行向け。
type MemoryStore struct {
	mu           sync.Mutex
	registration *model.Registration
	testResult   *model.TestResult
	fakeRequest  *model.FakeRequestState
	submission   *model.SubmissionRecord
}

// NewMemoryStore は空のMemoryStoreを生成する。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// 呼び出し側による変更が保存値に及ばないよう、読み書きともにコピーを渡す。

func (m *MemoryStore) GetRegistration(_ context.Context) (*model.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.registration == nil {
		return nil, nil
	}
	reg := *m.registration
	return &reg, nil
}

func (m *MemoryStore) SaveRegistration(_ context.Context, reg *model.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *reg
	m.registration = &cp
	return nil
}

func (m *MemoryStore) ClearRegistration(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registration = nil
	m.testResult = nil
	return nil
}

func (m *MemoryStore) GetTestResult(_ context.Context) (*model.TestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.testResult == nil {
		return nil, nil
	}
	r := *m.testResult
	return &r, nil
}

func (m *MemoryStore) SaveTestResult(_ context.Context, result *model.TestResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *result
	m.testResult = &cp
	return nil
}

func (m *MemoryStore) GetFakeRequestState(_ context.Context) (*model.FakeRequestState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fakeRequest == nil {
		return nil, nil
	}
	s := *m.fakeRequest
	return &s, nil
}

func (m *MemoryStore) SaveFakeRequestState(_ context.Context, state *model.FakeRequestState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *state
	m.fakeRequest = &cp
	return nil
}

func (m *MemoryStore) GetSubmission(_ context.Context) (*model.SubmissionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submission == nil {
		return nil, nil
	}
	r := *m.submission
	return &r, nil
}

func (m *MemoryStore) SaveSubmission(_ context.Context, rec *model.SubmissionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.submission = &cp
	return nil
}

var _ StateStore = (*MemoryStore)(nil)
