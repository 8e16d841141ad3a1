package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskChangeNotification is scheduled after a task's assignment or status
	// changes so downstream consumers (dashboards, webhooks) hear about it.
	TaskChangeNotification = "notify:task-change"
)

// TaskChangeEvent is serialized into the job payload. Emission is
// fire-and-forget: the API never waits on delivery and never rolls back
// state when the queue is unreachable.
type TaskChangeEvent struct {
	Type      string            `json:"type"`
	TaskID    int64             `json:"task_id"`
	Changes   map[string]string `json:"changes,omitempty"`
	ChangedBy string            `json:"changed_by"`
	Timestamp time.Time         `json:"timestamp"`
}

// Events enqueues notification jobs onto asynq.
type Events struct {
	client *asynq.Client
}

// NewEvents wraps an asynq client.
func NewEvents(client *asynq.Client) *Events {
	return &Events{client: client}
}

// TaskChanged enqueues a task-change notification.
func (e *Events) TaskChanged(ctx context.Context, ev TaskChangeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	task := asynq.NewTask(TaskChangeNotification, data)
	if _, err := e.client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue task-change notification: %w", err)
	}
	return nil
}
