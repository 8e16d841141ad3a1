// Package printer owns the printer lifecycle: status transitions, work and
// maintenance time accounting, and the task-printer binding. Accounting is
// lazy — elapsed time is folded into an accumulator only when the next
// transition arrives, never by a background tick.
package printer

import (
	"time"

	"github.com/ibrah006/workflow-backend-sub000/internal/model"
)

// ElapsedMinutes returns the whole minutes between from and to, clamped to
// zero so accumulators never decrease on clock skew.
func ElapsedMinutes(from, to time.Time) int64 {
	d := to.Sub(from)
	if d <= 0 {
		return 0
	}
	return int64(d / time.Minute)
}

// TransitionStatus moves the printer to newStatus at now. Leaving
// maintenance folds the elapsed minutes into MaintenanceMinutes; every other
// transition, including one that keeps the same status, only refreshes the
// timestamp. All 4x4 transitions are permitted.
func TransitionStatus(p *model.Printer, newStatus model.PrinterStatus, now time.Time) {
	if p.Status == model.PrinterMaintenance && newStatus != model.PrinterMaintenance {
		p.MaintenanceMinutes += ElapsedMinutes(p.StatusLastUpdatedAt, now)
	}
	p.Status = newStatus
	p.StatusLastUpdatedAt = now
}

// Bind attaches taskID to the printer at now. A printer already holding a
// task rejects the request; the caller must release first, there is no
// implicit two-step reassignment.
func Bind(p *model.Printer, taskID int64, now time.Time) error {
	if p.CurrentTaskID != nil {
		return model.ErrConflict
	}
	assignedAt := now
	p.CurrentTaskID = &taskID
	p.TaskAssignedAt = &assignedAt
	return nil
}

// Release is the explicit operator unassignment. It folds the minutes the
// task was bound into WorkMinutes and clears the binding. This is the only
// path that increases WorkMinutes.
func Release(p *model.Printer, now time.Time) {
	if p.CurrentTaskID != nil && p.TaskAssignedAt != nil {
		p.WorkMinutes += ElapsedMinutes(*p.TaskAssignedAt, now)
	}
	p.CurrentTaskID = nil
	p.TaskAssignedAt = nil
}

// ForceRelease is the status-change release path: the bound task is paused,
// its production end is stamped and its printer reference cleared, then the
// printer binding is dropped. Unlike Release it does not fold work minutes;
// the two paths stay separate so the fold rule of one never leaks into the
// other.
func ForceRelease(p *model.Printer, t *model.Task, now time.Time) {
	if t != nil {
		end := now
		t.Status = model.StagePaused
		t.ActualProductionEndTime = &end
		t.PrinterID = nil
		t.UpdatedAt = now
	}
	p.CurrentTaskID = nil
	p.TaskAssignedAt = nil
}
