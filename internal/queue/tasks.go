// Package queue はasynqによるバックグラウンド実行（定期tick・遅延提出・結果ポーリング）を提供する。
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// タスク種別
const (
	// TypeFakeRequestTick はダミー通信の定期tick
	TypeFakeRequestTick = "fakerequest:tick"
	// TypeFakeRequestUpload は遅延付きダミー提出
	TypeFakeRequestUpload = "fakerequest:upload"
	// TypeTestResultPoll は検査結果の定期ポーリング
	TypeTestResultPoll = "testresult:poll"
)

// UploadPayload はダミー提出タスクのペイロード
type UploadPayload struct {
	DeviceID    string `json:"device_id"`
	ScheduledAt int64  `json:"scheduled_at"`
}

// Enqueuer はタスク投入を定義する。*asynq.Clientが実装する。
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// PeriodicRegistrar は定期タスク登録を定義する。*asynq.Schedulerが実装する。
type PeriodicRegistrar interface {
	Register(cronspec string, task *asynq.Task, opts ...asynq.Option) (string, error)
}

// uploadTaskID は端末ごとに固定のタスクIDを返す。予約中の提出は1件に限られる。
func uploadTaskID(deviceID string) string {
	return "fakerequest-upload:" + deviceID
}

// NewUploadTask はダミー提出タスクを生成する。
func NewUploadTask(deviceID string, scheduledAt time.Time) (*asynq.Task, error) {
	data, err := json.Marshal(UploadPayload{DeviceID: deviceID, ScheduledAt: scheduledAt.Unix()})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(TypeFakeRequestUpload, data), nil
}

// EnqueueTick はダミー通信のtickを即時実行として投入する。
func EnqueueTick(ctx context.Context, client Enqueuer) error {
	if _, err := client.EnqueueContext(ctx, asynq.NewTask(TypeFakeRequestTick, nil), asynq.MaxRetry(0)); err != nil {
		return fmt.Errorf("enqueue tick task: %w", err)
	}
	return nil
}

// EnqueuePoll は検査結果ポーリングを即時実行として投入する。
func EnqueuePoll(ctx context.Context, client Enqueuer) error {
	if _, err := client.EnqueueContext(ctx, asynq.NewTask(TypeTestResultPoll, nil), asynq.MaxRetry(0)); err != nil {
		return fmt.Errorf("enqueue poll task: %w", err)
	}
	return nil
}

// RegisterPeriodic はtickとポーリングを定期タスクとして登録する。
func RegisterPeriodic(sched PeriodicRegistrar, tickInterval, pollInterval time.Duration) error {
	if _, err := sched.Register("@every "+tickInterval.String(), asynq.NewTask(TypeFakeRequestTick, nil), asynq.MaxRetry(0)); err != nil {
		return fmt.Errorf("register tick task: %w", err)
	}
	if _, err := sched.Register("@every "+pollInterval.String(), asynq.NewTask(TypeTestResultPoll, nil), asynq.MaxRetry(0)); err != nil {
		return fmt.Errorf("register poll task: %w", err)
	}
	return nil
}
