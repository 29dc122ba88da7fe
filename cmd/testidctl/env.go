package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/oyaguma3/cwa-submission-client/internal/config"
	"github.com/oyaguma3/cwa-submission-client/internal/exposurekeys"
	"github.com/oyaguma3/cwa-submission-client/internal/fakerequest"
	"github.com/oyaguma3/cwa-submission-client/internal/protocol"
	"github.com/oyaguma3/cwa-submission-client/internal/queue"
	"github.com/oyaguma3/cwa-submission-client/internal/store"
	"github.com/oyaguma3/cwa-submission-client/internal/submission"
	"github.com/oyaguma3/cwa-submission-client/internal/testresult"
	"github.com/oyaguma3/cwa-submission-client/pkg/logging"
	"github.com/oyaguma3/cwa-submission-client/pkg/valkey"
)

// env はサブコマンドが共有する依存関係。
type env struct {
	cfg      *config.Config
	store    store.StateStore
	client   protocol.Client
	enqueuer queue.Enqueuer
	fields   *logging.CommonFields
	closers  []func() error
}

// envFactory はサブコマンド実行時に依存関係を組み立てる。
type envFactory func(ctx context.Context) (*env, error)

// loadEnv は環境変数から設定を読み込み、Valkeyとasynqに接続する。
func loadEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	opts := valkey.CLIOptions().
		WithAddr(cfg.ValkeyAddr()).
		WithPassword(cfg.RedisPass)
	vc, err := store.NewValkeyClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	asynqClient := asynq.NewClient(opts.AsynqOpt())

	return &env{
		cfg:      cfg,
		store:    store.NewStateStore(vc, cfg.DeviceID),
		client:   protocol.NewHTTPClient(cfg),
		enqueuer: asynqClient,
		fields:   logging.NewCommonFields(logging.NewMasker(cfg.LogMaskTestID)),
		closers:  []func() error{asynqClient.Close, vc.Close},
	}, nil
}

// Close は接続を閉じる。
func (e *env) Close() {
	for _, c := range e.closers {
		_ = c()
	}
}

func (e *env) poller() *testresult.Poller {
	return testresult.NewPoller(e.client, e.store, e.fields)
}

func (e *env) service(keyFile string) *submission.Service {
	return submission.NewService(e.client, e.store, exposurekeys.NewFileSource(keyFile), e.origin(), e.fields)
}

// scheduler はasynq経由で遅延提出を予約するSchedulerを返す。
func (e *env) scheduler() *fakerequest.Scheduler {
	var dispatcher fakerequest.UploadDispatcher
	if e.enqueuer != nil {
		dispatcher = queue.NewDispatcher(e.enqueuer, e.cfg.DeviceID)
	}
	return fakerequest.NewScheduler(e.client, e.store, fakerequest.NewMathSource(), dispatcher, fakerequest.OptionsFromConfig(e.cfg))
}

func (e *env) origin() string {
	if len(e.cfg.SupportedCountries) == 0 {
		return ""
	}
	return e.cfg.SupportedCountries[0]
}

// countries はフラグ指定がなければ設定の対応国を返す。
func (e *env) countries(flag string) []string {
	if flag == "" {
		return e.cfg.SupportedCountries
	}
	var out []string
	for _, c := range strings.Split(flag, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, strings.ToUpper(c))
		}
	}
	return out
}

func (e *env) requireEnqueuer() error {
	if e.enqueuer == nil {
		return fmt.Errorf("task queue is not configured")
	}
	return nil
}
