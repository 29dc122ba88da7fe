// Package submission は陽性確定後の診断キー提出フローを統括する。
package submission

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oyaguma3/cwa-submission-client/internal/exposurekeys"
	"github.com/oyaguma3/cwa-submission-client/internal/protocol"
	"github.com/oyaguma3/cwa-submission-client/internal/store"
	"github.com/oyaguma3/cwa-submission-client/internal/testid"
	"github.com/oyaguma3/cwa-submission-client/pkg/logging"
	"github.com/oyaguma3/cwa-submission-client/pkg/model"
)

// Service はMobileTestIdの登録から診断キー提出までを扱う。
type Service struct {
	client protocol.Client
	store  store.StateStore
	keys   exposurekeys.Retriever
	origin string
	fields *logging.CommonFields
	now    func() time.Time
}

// NewService は新しいServiceを生成する。
// originは提出ペイロードの発行国コード。
func NewService(client protocol.Client, st store.StateStore, keys exposurekeys.Retriever, origin string, fields *logging.CommonFields) *Service {
	if fields == nil {
		fields = logging.NewCommonFields(nil)
	}
	return &Service{
		client: client,
		store:  st,
		keys:   keys,
		origin: origin,
		fields: fields,
		now:    time.Now,
	}
}

// RegisterMobileTestID はMobileTestIdを生成して登録し、検査結果をpendingにする。
// 実フロー開始時点で実行中のダミーシーケンスは終了させる。
func (s *Service) RegisterMobileTestID(ctx context.Context, datePatientInfectious string) (*testid.MobileTestID, error) {
	reg, err := s.store.GetRegistration(ctx)
	if err != nil {
		return nil, err
	}
	if reg.HasToken() {
		return nil, ErrRegistrationExists
	}

	id, err := testid.Generate(datePatientInfectious)
	if err != nil {
		return nil, err
	}

	reg = &model.Registration{
		RegistrationToken:     id.RegistrationToken(),
		TestID:                id.FullString(),
		DatePatientInfectious: id.DatePatientInfectious,
		RegisteredAt:          s.now().Unix(),
	}
	if err := s.store.SaveRegistration(ctx, reg); err != nil {
		return nil, err
	}
	if err := s.store.SaveTestResult(ctx, model.NewPendingTestResult()); err != nil {
		return nil, err
	}

	state, err := s.store.GetFakeRequestState(ctx)
	if err != nil {
		return nil, err
	}
	if state != nil && state.Doing {
		state.Reset()
		if err := s.store.SaveFakeRequestState(ctx, state); err != nil {
			return nil, err
		}
	}

	slog.Info("mobile test id registered",
		logging.WithEventID("TESTID_REGISTERED"),
		s.fields.WithTestID(reg.TestID),
		s.fields.WithRegistrationToken(reg.RegistrationToken),
	)
	return id, nil
}

// Submit は陽性確定済みの登録に対して診断キーを提出する。
// 失敗時は登録情報と検査結果を保持し、同じMobileTestIdで再試行できる。
func (s *Service) Submit(ctx context.Context, visitedCountries []string) error {
	reg, err := s.store.GetRegistration(ctx)
	if err != nil {
		return err
	}
	if !reg.HasToken() {
		return ErrNoRegistrationToken
	}

	result, err := s.store.GetTestResult(ctx)
	if err != nil {
		return err
	}
	if result == nil || result.Result != model.ResultPositive {
		return ErrNoPositiveResult
	}

	keys, err := s.keys.AccessDiagnosisKeys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		if err := s.cleanup(ctx, &model.SubmissionRecord{NoKeys: true}); err != nil {
			return err
		}
		return ErrNoKeys
	}

	processed := ProcessKeys(keys)
	err = s.client.SubmitKeys(ctx, &protocol.SubmissionRequest{
		Keys:                  processed,
		VisitedCountries:      visitedCountries,
		Origin:                s.origin,
		SecretKey:             reg.TestID,
		DatePatientInfectious: reg.DatePatientInfectious,
		DateTestCommunicated:  result.DateTestCommunicated,
		Fake:                  false,
	})
	if err != nil {
		s.logSubmitError(err, reg.RegistrationToken)
		return err
	}

	if err := s.cleanup(ctx, &model.SubmissionRecord{KeyCount: len(processed)}); err != nil {
		return err
	}
	slog.Info("diagnosis keys submitted",
		logging.WithEventID("SUBMISSION_OK"),
		s.fields.WithRegistrationToken(reg.RegistrationToken),
		"key_count", len(processed),
	)
	return nil
}

// SubmitWithCoviCode はcovi-codeで診断キーを提出する。
// MobileTestIdの登録状態には影響しない。
func (s *Service) SubmitWithCoviCode(ctx context.Context, coviCode, datePatientInfectious string, visitedCountries []string) error {
	keys, err := s.keys.AccessDiagnosisKeys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		if err := s.saveRecord(ctx, &model.SubmissionRecord{NoKeys: true, CoviCode: true}); err != nil {
			return err
		}
		return ErrNoKeys
	}

	processed := ProcessKeys(keys)
	err = s.client.SubmitWithCoviCode(ctx, &protocol.CoviCodeSubmissionRequest{
		Keys:                  processed,
		VisitedCountries:      visitedCountries,
		Origin:                s.origin,
		CoviCode:              coviCode,
		DatePatientInfectious: datePatientInfectious,
		DateTestCommunicated:  s.now().Format(testid.DateLayout),
		Fake:                  false,
	})
	if err != nil {
		s.logSubmitError(err, "")
		return err
	}

	return s.saveRecord(ctx, &model.SubmissionRecord{KeyCount: len(processed), CoviCode: true})
}

// DeleteTest は登録情報と検査結果を削除してフローを取り消す。
func (s *Service) DeleteTest(ctx context.Context) error {
	if err := s.store.ClearRegistration(ctx); err != nil {
		return err
	}
	slog.Info("mobile test id deleted", logging.WithEventID("TESTID_DELETED"))
	return nil
}

// cleanup は提出完了後に登録情報と検査結果を削除し、提出記録を保存する。
func (s *Service) cleanup(ctx context.Context, rec *model.SubmissionRecord) error {
	if err := s.store.ClearRegistration(ctx); err != nil {
		return err
	}
	return s.saveRecord(ctx, rec)
}

func (s *Service) saveRecord(ctx context.Context, rec *model.SubmissionRecord) error {
	rec.SubmittedAt = s.now().Unix()
	return s.store.SaveSubmission(ctx, rec)
}

func (s *Service) logSubmitError(err error, token string) {
	attrs := []any{
		logging.WithEventID("SUBMISSION_ERR"),
		logging.WithError(err),
	}
	if token != "" {
		attrs = append(attrs, s.fields.WithRegistrationToken(token))
	}
	var serverErr *protocol.ServerError
	if errors.As(err, &serverErr) {
		attrs = append(attrs, logging.WithHTTPStatus(serverErr.StatusCode))
	}
	slog.Error("diagnosis key submission failed", attrs...)
}
