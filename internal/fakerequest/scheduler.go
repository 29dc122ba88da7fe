// Package fakerequest はトラフィック解析への対策として、
// 実際の検査結果取得・提出と同じ形のダミー通信を確率的に発生させる。
package fakerequest

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oyaguma3/cwa-submission-client/internal/config"
	"github.com/oyaguma3/cwa-submission-client/internal/protocol"
	"github.com/oyaguma3/cwa-submission-client/internal/store"
	"github.com/oyaguma3/cwa-submission-client/internal/testid"
	"github.com/oyaguma3/cwa-submission-client/pkg/logging"
	"github.com/oyaguma3/cwa-submission-client/pkg/model"
)

// Scheduler はダミー通信シーケンスの状態機械。
// 永続化された状態の読み書きはmuで直列化する。
type Scheduler struct {
	mu         sync.Mutex
	client     protocol.Client
	store      store.StateStore
	rnd        RandomSource
	dispatcher UploadDispatcher
	opts       Options
	now        func() time.Time
}

// NewScheduler は新しいSchedulerを生成する。
// dispatcherがnilの場合はプロセス内タイマーで遅延提出を行う。
func NewScheduler(client protocol.Client, st store.StateStore, rnd RandomSource, dispatcher UploadDispatcher, opts Options) *Scheduler {
	if rnd == nil {
		rnd = NewMathSource()
	}
	s := &Scheduler{
		client: client,
		store:  st,
		rnd:    rnd,
		opts:   opts,
		now:    time.Now,
	}
	if dispatcher == nil {
		dispatcher = NewLocalDispatcher(s.RunUpload)
	}
	s.dispatcher = dispatcher
	return s
}

// Tick は定期実行ごとに1回呼び出され、状態に応じて1ステップだけ処理を進める。
func (s *Scheduler) Tick(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadState(ctx)
	if err != nil {
		return err
	}

	if !state.Allowed {
		// 初期待機の経過後は次回tickから実行を許可する
		if state.OnboardedAt > 0 && !s.now().Before(time.Unix(state.OnboardedAt, 0).Add(s.opts.InitialDelay)) {
			state.Allowed = true
			return s.store.SaveFakeRequestState(ctx, state)
		}
		return nil
	}

	active, err := s.realFlowActive(ctx)
	if err != nil {
		return err
	}
	if active {
		if state.Doing {
			state.Reset()
			return s.store.SaveFakeRequestState(ctx, state)
		}
		return nil
	}

	if state.Doing {
		return s.advance(ctx, state)
	}

	if s.rnd.NextInRange(0, s.opts.Probability) != s.opts.Probability-1 {
		return nil
	}

	state.Doing = true
	state.AmountOfFetches = s.fetchCount()
	state.FetchIndex = 0
	slog.Debug("decoy sequence started",
		append([]any{logging.WithEventID("FAKE_SEQUENCE_START")},
			logging.WithFetchProgress(state.FetchIndex, state.AmountOfFetches)...)...,
	)
	return s.store.SaveFakeRequestState(ctx, state)
}

// advance は実行中のシーケンスを1ステップ進める。
// 最後の取得を終えた時点で遅延付きのダミー提出を予約する。
func (s *Scheduler) advance(ctx context.Context, state *model.FakeRequestState) error {
	if state.FetchesRemaining() {
		token, err := s.decoyToken()
		if err != nil {
			return err
		}
		if _, err := s.client.FetchTestResult(ctx, token, true); err != nil {
			slog.Debug("decoy fetch failed", logging.WithError(err))
		}
		state.FetchIndex++
		if err := s.store.SaveFakeRequestState(ctx, state); err != nil {
			return err
		}
		slog.Debug("decoy fetch done",
			logging.WithFetchProgress(state.FetchIndex, state.AmountOfFetches)...,
		)
	}

	if state.FetchesRemaining() {
		return nil
	}

	// 予約が失われていても次回tickで再予約される
	delay := s.uploadDelay()
	if err := s.dispatcher.DispatchUpload(ctx, delay); err != nil {
		slog.Debug("decoy upload dispatch failed", logging.WithError(err))
	}
	return nil
}

// RunUpload は予約されたダミー提出を実行し、シーケンスを終了する。
// シーケンスが既に終了している、または実フローが開始されている場合は通信しない。
// 状態は送信の直前に読み込み、別プロセス（CLIからの登録など）による変更を反映する。
func (s *Scheduler) RunUpload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, err := s.decoySubmission()
	if err != nil {
		return err
	}

	state, err := s.loadState(ctx)
	if err != nil {
		return err
	}
	if !state.Doing || state.FetchesRemaining() {
		return nil
	}
	active, err := s.realFlowActive(ctx)
	if err != nil {
		return err
	}
	if !active {
		if err := s.client.SubmitKeys(ctx, req); err != nil {
			slog.Debug("decoy upload failed", logging.WithError(err))
		}
	}

	state.Reset()
	slog.Debug("decoy sequence finished", logging.WithEventID("FAKE_SEQUENCE_END"))
	return s.store.SaveFakeRequestState(ctx, state)
}

// MarkOnboarded はオンボーディング完了時刻を記録する。既に記録済みの場合は変更しない。
func (s *Scheduler) MarkOnboarded(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadState(ctx)
	if err != nil {
		return err
	}
	if state.OnboardedAt != 0 {
		return nil
	}
	state.OnboardedAt = s.now().Unix()
	return s.store.SaveFakeRequestState(ctx, state)
}

// AllowBackgroundFakeRequests は初期待機を待たずに実行を許可する。
func (s *Scheduler) AllowBackgroundFakeRequests(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadState(ctx)
	if err != nil {
		return err
	}
	state.Allowed = true
	return s.store.SaveFakeRequestState(ctx, state)
}

// State は現在の状態を返す。
func (s *Scheduler) State(ctx context.Context) (*model.FakeRequestState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadState(ctx)
}

func (s *Scheduler) loadState(ctx context.Context) (*model.FakeRequestState, error) {
	state, err := s.store.GetFakeRequestState(ctx)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = &model.FakeRequestState{}
	}
	return state, nil
}

// realFlowActive は登録済みトークンまたは確定済み検査結果が存在するかを返す。
func (s *Scheduler) realFlowActive(ctx context.Context) (bool, error) {
	reg, err := s.store.GetRegistration(ctx)
	if err != nil {
		return false, err
	}
	if reg.HasToken() {
		return true, nil
	}
	result, err := s.store.GetTestResult(ctx)
	if err != nil {
		return false, err
	}
	return result != nil && result.Result.IsTerminal(), nil
}

func (s *Scheduler) fetchCount() int {
	if s.opts.FixedFetchCount > 0 {
		return s.opts.FixedFetchCount
	}
	return s.rnd.NextInRange(s.opts.MinFetches, s.opts.MaxFetches+1)
}

func (s *Scheduler) uploadDelay() time.Duration {
	ms := s.rnd.NextInRange(int(s.opts.MinUploadDelay.Milliseconds()), int(s.opts.MaxUploadDelay.Milliseconds())+1)
	return time.Duration(ms) * time.Millisecond
}

// decoyToken は実際の登録と同じ形式のランダムなRegistration Tokenを生成する。
func (s *Scheduler) decoyToken() (string, error) {
	id, err := testid.Generate(testid.InfectiousDateFromSymptomOnset(s.now()))
	if err != nil {
		return "", fmt.Errorf("generate decoy token: %w", err)
	}
	return id.RegistrationToken(), nil
}

// decoySubmission はランダムなキーと認証情報によるダミー提出を組み立てる。
func (s *Scheduler) decoySubmission() (*protocol.SubmissionRequest, error) {
	now := s.now()
	id, err := testid.Generate(testid.InfectiousDateFromSymptomOnset(now))
	if err != nil {
		return nil, fmt.Errorf("generate decoy secret: %w", err)
	}

	// 10分単位のローリング開始番号（1日 = 144）
	today := int32(now.Unix()/600) / 144 * 144
	keys := make([]model.TemporaryExposureKey, config.MaxKeysPerSubmission)
	for i := range keys {
		data := make([]byte, 16)
		if _, err := rand.Read(data); err != nil {
			return nil, fmt.Errorf("generate decoy key: %w", err)
		}
		keys[i] = model.TemporaryExposureKey{
			KeyData:                    data,
			TransmissionRiskLevel:      int32(i%8 + 1),
			RollingStartIntervalNumber: today - int32(i)*144,
			RollingPeriod:              144,
		}
	}

	return &protocol.SubmissionRequest{
		Keys:                  keys,
		VisitedCountries:      s.opts.VisitedCountries,
		SecretKey:             id.FullString(),
		DatePatientInfectious: id.DatePatientInfectious,
		DateTestCommunicated:  now.Format(testid.DateLayout),
		Fake:                  true,
	}, nil
}
