package fakerequest

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/oyaguma3/cwa-submission-client/pkg/logging"
)

// UploadDispatcher は遅延付きダミー提出の予約を定義する。
// 予約済みの提出がある場合、再予約は既存の予約に集約される。
type UploadDispatcher interface {
	DispatchUpload(ctx context.Context, delay time.Duration) error
}

// LocalDispatcher はプロセス内タイマーでダミー提出を実行するUploadDispatcher。
// プロセス終了時に予約は失われ、次回tickで再予約される。
type LocalDispatcher struct {
	mu    sync.Mutex
	timer *time.Timer
	run   func(ctx context.Context) error
}

// NewLocalDispatcher は新しいLocalDispatcherを生成する。
func NewLocalDispatcher(run func(ctx context.Context) error) *LocalDispatcher {
	return &LocalDispatcher{run: run}
}

// DispatchUpload はdelay経過後にrunを実行する。
func (d *LocalDispatcher) DispatchUpload(_ context.Context, delay time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		return nil
	}
	d.timer = time.AfterFunc(delay, d.fire)
	return nil
}

func (d *LocalDispatcher) fire() {
	d.mu.Lock()
	d.timer = nil
	d.mu.Unlock()

	// tickのコンテキストは既に終了している可能性があるため独立したコンテキストで実行する
	if err := d.run(context.Background()); err != nil {
		slog.Debug("deferred decoy upload failed", logging.WithError(err))
	}
}
