package printer

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ibrah006/workflow-backend-sub000/internal/model"
	"github.com/ibrah006/workflow-backend-sub000/internal/queue"
)

// Store provides the transactional access the service needs. Every mutation
// runs as a single read-modify-write transaction holding a row lock on the
// printer, so two concurrent requests can never both fold from a stale
// StatusLastUpdatedAt.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx exposes the row operations available inside one transaction.
type Tx interface {
	PrinterForUpdate(ctx context.Context, orgID, printerID string) (*model.Printer, error)
	SavePrinter(ctx context.Context, p *model.Printer) error
	TaskForUpdate(ctx context.Context, orgID string, taskID int64) (*model.Task, error)
	SaveTask(ctx context.Context, t *model.Task) error
}

// Notifier receives task-change events after a mutation commits.
type Notifier interface {
	TaskChanged(ctx context.Context, ev queue.TaskChangeEvent) error
}

// Clock returns the current time; injected so tests control it.
type Clock func() time.Time

// Service applies status transitions and task bindings to printers. It is
// stateless between calls and safe for concurrent use.
type Service struct {
	store  Store
	events Notifier
	log    *logrus.Logger
	now    Clock
}

// NewService constructs a Service. events may be nil when no notification
// sink is configured; clock defaults to time.Now.
func NewService(store Store, events Notifier, log *logrus.Logger, clock Clock) *Service {
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = logrus.New()
	}
	return &Service{store: store, events: events, log: log, now: clock}
}

// ChangeStatus transitions a printer to newStatus. When the status actually
// changes while a task is bound, the task is force-released first (paused,
// production end stamped) inside the same transaction.
func (s *Service) ChangeStatus(ctx context.Context, scope model.Scope, printerID string, newStatus model.PrinterStatus) (*model.Printer, error) {
	now := s.now()
	var (
		updated  *model.Printer
		released *model.Task
	)
	err := s.store.InTx(ctx, func(tx Tx) error {
		p, err := tx.PrinterForUpdate(ctx, scope.OrganizationID, printerID)
		if err != nil {
			return err
		}
		if p.CurrentTaskID != nil && newStatus != p.Status {
			t, err := tx.TaskForUpdate(ctx, scope.OrganizationID, *p.CurrentTaskID)
			if err != nil {
				return fmt.Errorf("load bound task %d: %w", *p.CurrentTaskID, err)
			}
			ForceRelease(p, t, now)
			if err := tx.SaveTask(ctx, t); err != nil {
				return err
			}
			released = t
		}
		TransitionStatus(p, newStatus, now)
		p.UpdatedAt = now
		if err := tx.SavePrinter(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	if released != nil {
		s.emit(ctx, queue.TaskChangeEvent{
			Type:      "task.force_released",
			TaskID:    released.ID,
			Changes:   map[string]string{"status": string(model.StagePaused), "printerId": ""},
			ChangedBy: scope.UserID,
			Timestamp: now,
		})
	}
	return updated, nil
}

// AssignTask binds taskID to the printer, or releases the current binding
// when taskID is nil. Release folds the bound minutes into WorkMinutes.
// Binding onto an occupied printer or binding a task another printer still
// holds is rejected with ErrConflict, and binding an unknown task fails with
// ErrNotFound, in all cases with nothing persisted.
func (s *Service) AssignTask(ctx context.Context, scope model.Scope, printerID string, taskID *int64) (*model.Printer, error) {
	now := s.now()
	var (
		updated *model.Printer
		event   *queue.TaskChangeEvent
	)
	err := s.store.InTx(ctx, func(tx Tx) error {
		p, err := tx.PrinterForUpdate(ctx, scope.OrganizationID, printerID)
		if err != nil {
			return err
		}
		if taskID == nil {
			return s.release(ctx, tx, scope, p, now, &updated, &event)
		}
		return s.assign(ctx, tx, scope, p, *taskID, now, &updated, &event)
	})
	if err != nil {
		return nil, err
	}
	if event != nil {
		s.emit(ctx, *event)
	}
	return updated, nil
}

func (s *Service) release(ctx context.Context, tx Tx, scope model.Scope, p *model.Printer, now time.Time, updated **model.Printer, event **queue.TaskChangeEvent) error {
	releasedID := p.CurrentTaskID
	Release(p, now)
	if releasedID != nil {
		t, err := tx.TaskForUpdate(ctx, scope.OrganizationID, *releasedID)
		if err != nil {
			return fmt.Errorf("load released task %d: %w", *releasedID, err)
		}
		t.PrinterID = nil
		t.UpdatedAt = now
		if err := tx.SaveTask(ctx, t); err != nil {
			return err
		}
		ev := queue.TaskChangeEvent{
			Type:      "task.unassigned",
			TaskID:    t.ID,
			Changes:   map[string]string{"printerId": ""},
			ChangedBy: scope.UserID,
			Timestamp: now,
		}
		*event = &ev
	}
	p.UpdatedAt = now
	if err := tx.SavePrinter(ctx, p); err != nil {
		return err
	}
	*updated = p
	return nil
}

func (s *Service) assign(ctx context.Context, tx Tx, scope model.Scope, p *model.Printer, taskID int64, now time.Time, updated **model.Printer, event **queue.TaskChangeEvent) error {
	if p.CurrentTaskID != nil {
		return fmt.Errorf("printer %s already holds task %d: %w", p.ID, *p.CurrentTaskID, model.ErrConflict)
	}
	t, err := tx.TaskForUpdate(ctx, scope.OrganizationID, taskID)
	if err != nil {
		return err
	}
	if t.PrinterID != nil && *t.PrinterID != p.ID {
		return fmt.Errorf("task %d already bound to printer %s: %w", taskID, *t.PrinterID, model.ErrConflict)
	}
	if err := Bind(p, taskID, now); err != nil {
		return err
	}
	t.PrinterID = &p.ID
	if t.ActualProductionStartTime == nil {
		started := now
		t.ActualProductionStartTime = &started
	}
	t.UpdatedAt = now
	if err := tx.SaveTask(ctx, t); err != nil {
		return err
	}
	p.UpdatedAt = now
	if err := tx.SavePrinter(ctx, p); err != nil {
		return err
	}
	ev := queue.TaskChangeEvent{
		Type:      "task.assigned",
		TaskID:    t.ID,
		Changes:   map[string]string{"printerId": p.ID},
		ChangedBy: scope.UserID,
		Timestamp: now,
	}
	*event = &ev
	*updated = p
	return nil
}

// emit publishes a task-change event. Delivery failures are logged and
// swallowed; they never surface to the caller or undo committed state.
func (s *Service) emit(ctx context.Context, ev queue.TaskChangeEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.TaskChanged(ctx, ev); err != nil {
		s.log.WithFields(logrus.Fields{
			"task_id": ev.TaskID,
			"type":    ev.Type,
		}).WithError(err).Warn("task-change notification dropped")
	}
}
