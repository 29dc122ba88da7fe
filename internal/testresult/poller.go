// Package testresult は登録済みMobileTestIdの検査結果取得と受領確認を行う。
package testresult

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oyaguma3/cwa-submission-client/internal/protocol"
	"github.com/oyaguma3/cwa-submission-client/internal/store"
	"github.com/oyaguma3/cwa-submission-client/internal/testid"
	"github.com/oyaguma3/cwa-submission-client/pkg/logging"
	"github.com/oyaguma3/cwa-submission-client/pkg/model"
)

// Poller は検査結果の取得と確定状態の永続化を行う。
type Poller struct {
	client protocol.Client
	store  store.StateStore
	fields *logging.CommonFields
	now    func() time.Time
}

// NewPoller は新しいPollerを生成する。
// fieldsがnilの場合はマスキング有効のCommonFieldsを使用する。
func NewPoller(client protocol.Client, st store.StateStore, fields *logging.CommonFields) *Poller {
	if fields == nil {
		fields = logging.NewCommonFields(nil)
	}
	return &Poller{
		client: client,
		store:  st,
		fields: fields,
		now:    time.Now,
	}
}

// FetchResult は検査結果を取得する。
// 確定結果は受信時刻とともに一度だけ保存し、以降の呼び出しでは保存済みの結果を返す。
func (p *Poller) FetchResult(ctx context.Context) (*model.TestResult, error) {
	reg, err := p.store.GetRegistration(ctx)
	if err != nil {
		return nil, err
	}
	if !reg.HasToken() {
		return nil, ErrNoRegistrationToken
	}

	stored, err := p.store.GetTestResult(ctx)
	if err != nil {
		return nil, err
	}
	if stored != nil && stored.Result.IsTerminal() {
		return stored, nil
	}

	resp, err := p.client.FetchTestResult(ctx, reg.RegistrationToken, false)
	if err != nil {
		slog.Warn("test result fetch failed",
			append(p.fields.RegistrationLogFields("TESTRESULT_FETCH_ERR", reg.RegistrationToken),
				logging.WithError(err))...,
		)
		return nil, err
	}

	if !resp.Result.IsTerminal() {
		result := model.NewPendingTestResult()
		if err := p.store.SaveTestResult(ctx, result); err != nil {
			return nil, err
		}
		return result, nil
	}

	now := p.now()
	result := &model.TestResult{
		Result:               resp.Result,
		DateTestCommunicated: resp.DateTestCommunicated,
		ReceivedAt:           now.Unix(),
	}
	if result.DateTestCommunicated == "" {
		result.DateTestCommunicated = now.Format(testid.DateLayout)
	}
	if err := p.store.SaveTestResult(ctx, result); err != nil {
		return nil, err
	}

	slog.Info("test result received",
		append(p.fields.RegistrationLogFields("TESTRESULT_RECEIVED", reg.RegistrationToken),
			"result", string(result.Result))...,
	)
	return result, nil
}

// AckTestDownload は確定結果の受領確認を送信する。
// 送信済みの場合は何もしない。
func (p *Poller) AckTestDownload(ctx context.Context) error {
	reg, err := p.store.GetRegistration(ctx)
	if err != nil {
		return err
	}
	if !reg.HasToken() {
		return ErrNoRegistrationToken
	}

	result, err := p.store.GetTestResult(ctx)
	if err != nil {
		return err
	}
	if result == nil || !result.Result.IsTerminal() {
		return fmt.Errorf("cannot acknowledge: %w", ErrNoTerminalResult)
	}
	if result.Acknowledged {
		return nil
	}

	if err := p.client.AckTestDownload(ctx, reg.RegistrationToken, false); err != nil {
		return err
	}

	result.Acknowledged = true
	return p.store.SaveTestResult(ctx, result)
}

// PollPending は登録済みかつ結果未確定の場合のみ検査結果を取得する。
// バックグラウンドの定期実行から呼び出される。
func (p *Poller) PollPending(ctx context.Context) error {
	reg, err := p.store.GetRegistration(ctx)
	if err != nil {
		return err
	}
	if !reg.HasToken() {
		return nil
	}

	stored, err := p.store.GetTestResult(ctx)
	if err != nil {
		return err
	}
	if stored != nil && stored.Result.IsTerminal() {
		return nil
	}

	_, err = p.FetchResult(ctx)
	return err
}
