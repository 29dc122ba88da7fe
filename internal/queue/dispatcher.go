package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Dispatcher はダミー提出をasynqの遅延タスクとして予約するUploadDispatcher実装。
type Dispatcher struct {
	client   Enqueuer
	deviceID string
	now      func() time.Time
}

// NewDispatcher は新しいDispatcherを生成する。
func NewDispatcher(client Enqueuer, deviceID string) *Dispatcher {
	return &Dispatcher{client: client, deviceID: deviceID, now: time.Now}
}

// DispatchUpload はdelay後に実行されるダミー提出タスクを投入する。
// 同じ端末の提出が既に予約済みの場合は何もしない。
func (d *Dispatcher) DispatchUpload(ctx context.Context, delay time.Duration) error {
	task, err := NewUploadTask(d.deviceID, d.now().Add(delay))
	if err != nil {
		return err
	}

	_, err = d.client.EnqueueContext(ctx, task,
		asynq.ProcessIn(delay),
		asynq.TaskID(uploadTaskID(d.deviceID)),
		asynq.MaxRetry(0),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue upload task: %w", err)
	}
	return nil
}
