// Package worker consumes queued task-change notifications and delivers
// them to the configured webhook. Delivery problems are asynq's to retry;
// they never touch API state.
package worker

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/ibrah006/workflow-backend-sub000/internal/queue"
	"github.com/ibrah006/workflow-backend-sub000/internal/signing"
)

// Notifier is plugged into the asynq worker loop.
type Notifier struct {
	webhookURL string
	signer     *signing.Signer
	client     *http.Client
	log        *logrus.Logger
}

// NewNotifier constructs a webhook notifier. webhookURL may be empty, in
// which case events are logged and dropped.
func NewNotifier(webhookURL string, signer *signing.Signer, log *logrus.Logger) *Notifier {
	if log == nil {
		log = logrus.New()
	}
	return &Notifier{
		webhookURL: webhookURL,
		signer:     signer,
		client:     &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// Handler registers the notification job handler.
func (n *Notifier) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskChangeNotification, n.handleTaskChange)
	return mux
}

func (n *Notifier) handleTaskChange(ctx context.Context, task *asynq.Task) error {
	payload := task.Payload()
	if n.webhookURL == "" {
		n.log.WithField("payload", string(payload)).Info("no webhook configured, dropping task-change event")
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.signer != nil {
		req.Header.Set("X-Webhook-Signature", n.signer.Sign(payload))
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded %d", resp.StatusCode)
	}
	n.log.WithField("status", resp.StatusCode).Debug("task-change event delivered")
	return nil
}
