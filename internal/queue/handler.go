package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/oyaguma3/cwa-submission-client/pkg/logging"
)

// FakeRequestRunner はダミー通信の実行を定義する。*fakerequest.Schedulerが実装する。
type FakeRequestRunner interface {
	Tick(ctx context.Context) error
	RunUpload(ctx context.Context) error
}

// ResultPoller は検査結果の定期取得を定義する。*testresult.Pollerが実装する。
type ResultPoller interface {
	PollPending(ctx context.Context) error
}

type handler struct {
	runner   FakeRequestRunner
	poller   ResultPoller
	deviceID string
}

// NewHandler はタスク種別ごとのハンドラを登録したServeMuxを返す。
// tickとポーリングは次回の定期実行が再試行を兼ねるため、失敗してもリトライしない。
func NewHandler(runner FakeRequestRunner, poller ResultPoller, deviceID string) *asynq.ServeMux {
	h := &handler{runner: runner, poller: poller, deviceID: deviceID}
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeFakeRequestTick, h.handleTick)
	mux.HandleFunc(TypeFakeRequestUpload, h.handleUpload)
	mux.HandleFunc(TypeTestResultPoll, h.handlePoll)
	return mux
}

func (h *handler) handleTick(ctx context.Context, _ *asynq.Task) error {
	if err := h.runner.Tick(ctx); err != nil {
		slog.Warn("fake request tick failed",
			logging.WithEventID("FAKE_TICK_ERR"),
			logging.WithError(err),
		)
		return fmt.Errorf("fake request tick: %v: %w", err, asynq.SkipRetry)
	}
	return nil
}

// handleUpload は失敗時もタスクを正常終了させる。
// 固定タスクIDがアーカイブに残ると次回tickで再予約できなくなる。
func (h *handler) handleUpload(ctx context.Context, task *asynq.Task) error {
	var payload UploadPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		slog.Warn("invalid upload payload",
			logging.WithEventID("FAKE_UPLOAD_ERR"),
			logging.WithError(err),
		)
		return nil
	}
	if payload.DeviceID != h.deviceID {
		slog.Debug("upload task for another device ignored", "device_id", payload.DeviceID)
		return nil
	}
	if err := h.runner.RunUpload(ctx); err != nil {
		slog.Warn("fake request upload failed",
			logging.WithEventID("FAKE_UPLOAD_ERR"),
			logging.WithError(err),
		)
	}
	return nil
}

func (h *handler) handlePoll(ctx context.Context, _ *asynq.Task) error {
	if err := h.poller.PollPending(ctx); err != nil {
		slog.Warn("test result poll failed",
			logging.WithEventID("TESTRESULT_POLL_ERR"),
			logging.WithError(err),
		)
		return fmt.Errorf("test result poll: %v: %w", err, asynq.SkipRetry)
	}
	return nil
}
