// Package main は検査結果ポーリングとダミー通信を定期実行するバックグラウンドエージェントのエントリーポイント。
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/oyaguma3/cwa-submission-client/internal/config"
	"github.com/oyaguma3/cwa-submission-client/internal/fakerequest"
	"github.com/oyaguma3/cwa-submission-client/internal/protocol"
	"github.com/oyaguma3/cwa-submission-client/internal/queue"
	"github.com/oyaguma3/cwa-submission-client/internal/store"
	"github.com/oyaguma3/cwa-submission-client/internal/testresult"
	"github.com/oyaguma3/cwa-submission-client/pkg/logging"
)

func main() {
	// 1. 環境変数読み込み
	cfg, err := config.Load()
	if err != nil {
		slog.Error("設定読み込み失敗", "error", err)
		os.Exit(1)
	}

	// 2. ロガー初期化（JSON形式、INFO以上）
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})).With("app", "submission-agent")
	slog.SetDefault(logger)

	slog.Info("submission-agent起動開始",
		"submission_api_url", cfg.SubmissionAPIURL,
		"verification_api_url", cfg.VerificationAPIURL,
		"device_id", cfg.DeviceID,
		"fake_request_test_mode", cfg.FakeRequestTestMode,
	)

	// 3. Valkeyクライアント初期化
	valkeyOpts := store.Options(cfg)
	valkeyClient, err := store.NewValkeyClient(context.Background(), valkeyOpts)
	if err != nil {
		slog.Error("Valkey接続失敗",
			logging.WithEventID("VALKEY_CONN_ERR"),
			logging.WithError(err),
		)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	slog.Info("Valkey接続完了", "addr", cfg.ValkeyAddr())

	// 4. 状態ストア・サーバークライアント
	stateStore := store.NewStateStore(valkeyClient, cfg.DeviceID)
	cwaClient := protocol.NewHTTPClient(cfg)
	fields := logging.NewCommonFields(logging.NewMasker(cfg.LogMaskTestID))

	// 5. asynqクライアント（遅延提出の予約）
	asynqClient := asynq.NewClient(valkeyOpts.AsynqOpt())
	defer asynqClient.Close()

	// 6. ダミー通信スケジューラ・検査結果ポーラー
	scheduler := fakerequest.NewScheduler(
		cwaClient,
		stateStore,
		fakerequest.NewMathSource(),
		queue.NewDispatcher(asynqClient, cfg.DeviceID),
		fakerequest.OptionsFromConfig(cfg),
	)
	poller := testresult.NewPoller(cwaClient, stateStore, fields)

	// 初回起動時刻をオンボーディング完了時刻として記録する
	if err := scheduler.MarkOnboarded(context.Background()); err != nil {
		slog.Error("オンボーディング記録失敗",
			logging.WithEventID("ONBOARD_ERR"),
			logging.WithError(err),
		)
		os.Exit(1)
	}

	// 7. ワーカー起動（tickとアップロードを直列化するため並列度1）
	srv := asynq.NewServer(valkeyOpts.AsynqOpt(), asynq.Config{
		Concurrency:     1,
		ShutdownTimeout: config.ShutdownTimeout,
	})
	if err := srv.Start(queue.NewHandler(scheduler, poller, cfg.DeviceID)); err != nil {
		slog.Error("ワーカー起動失敗",
			logging.WithEventID("WORKER_START_ERR"),
			logging.WithError(err),
		)
		os.Exit(1)
	}

	// 8. 定期タスク登録
	periodic := asynq.NewScheduler(valkeyOpts.AsynqOpt(), &asynq.SchedulerOpts{})
	if err := queue.RegisterPeriodic(periodic, cfg.FakeRequestInterval, cfg.TestResultPollInterval); err != nil {
		slog.Error("定期タスク登録失敗",
			logging.WithEventID("SCHEDULER_ERR"),
			logging.WithError(err),
		)
		srv.Shutdown()
		os.Exit(1)
	}
	if err := periodic.Start(); err != nil {
		slog.Error("スケジューラ起動失敗",
			logging.WithEventID("SCHEDULER_ERR"),
			logging.WithError(err),
		)
		srv.Shutdown()
		os.Exit(1)
	}

	slog.Info("定期実行開始",
		"fake_request_interval", cfg.FakeRequestInterval.String(),
		"test_result_poll_interval", cfg.TestResultPollInterval.String(),
	)

	// 9. シグナル待機 → Graceful Shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigCh
	slog.Info("シグナル受信、シャットダウン開始", "signal", sig.String())

	periodic.Shutdown()
	srv.Shutdown()

	slog.Info("submission-agent停止完了")
}
