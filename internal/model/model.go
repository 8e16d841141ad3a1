// Package model contains the entities shared across repositories, services
// and the HTTP layer, plus the error kinds they surface.
package model

import (
	"fmt"
	"strings"
	"time"
)

// PrinterStatus enumerates the lifecycle of a printer.
type PrinterStatus string

const (
	PrinterActive      PrinterStatus = "active"
	PrinterPaused      PrinterStatus = "paused"
	PrinterMaintenance PrinterStatus = "maintenance"
	PrinterOffline     PrinterStatus = "offline"
)

// ParsePrinterStatus validates a status string from a request or the
// database. Unknown values are rejected with ErrInvalidInput.
func ParsePrinterStatus(s string) (PrinterStatus, error) {
	switch PrinterStatus(strings.ToLower(strings.TrimSpace(s))) {
	case PrinterActive:
		return PrinterActive, nil
	case PrinterPaused:
		return PrinterPaused, nil
	case PrinterMaintenance:
		return PrinterMaintenance, nil
	case PrinterOffline:
		return PrinterOffline, nil
	}
	return "", fmt.Errorf("%w: unknown printer status %q", ErrInvalidInput, s)
}

// DefaultScheduledMinutes is the per-period utilization target assigned to a
// printer at registration when none is given (8 hours).
const DefaultScheduledMinutes = 480

// Printer is a physical production device tracked by status and cumulative
// utilization time. Accumulators are folded lazily: elapsed time is only
// added when the next status or assignment transition arrives.
type Printer struct {
	ID                  string        `json:"id"`
	OrganizationID      string        `json:"organizationId"`
	Name                string        `json:"name"`
	Model               *string       `json:"model,omitempty"`
	Status              PrinterStatus `json:"status"`
	StatusLastUpdatedAt time.Time     `json:"statusLastUpdatedAt"`
	WorkMinutes         int64         `json:"workMinutes"`
	MaintenanceMinutes  int64         `json:"maintenanceMinutes"`
	ScheduledMinutes    int64         `json:"scheduledMinutes"`
	CurrentTaskID       *int64        `json:"currentTaskId,omitempty"`
	TaskAssignedAt      *time.Time    `json:"taskAssignedAt,omitempty"`
	CreatedAt           time.Time     `json:"createdAt"`
	UpdatedAt           time.Time     `json:"updatedAt"`
}

// Idle reports whether the printer is active with no task bound.
func (p *Printer) Idle() bool {
	return p.Status == PrinterActive && p.CurrentTaskID == nil
}

// Task is a unit of production work, optionally bound to one printer and one
// material, linked to progress stages through its Status.
type Task struct {
	ID                        int64      `json:"id"`
	OrganizationID            string     `json:"organizationId"`
	ProjectID                 string     `json:"projectId"`
	Name                      string     `json:"name"`
	Status                    Stage      `json:"status"`
	PrinterID                 *string    `json:"printerId,omitempty"`
	MaterialID                *string    `json:"materialId,omitempty"`
	DueDate                   *time.Time `json:"dueDate,omitempty"`
	DateCompleted             *time.Time `json:"dateCompleted,omitempty"`
	ProductionStartTime       *time.Time `json:"productionStartTime,omitempty"`
	ActualProductionStartTime *time.Time `json:"actualProductionStartTime,omitempty"`
	ActualProductionEndTime   *time.Time `json:"actualProductionEndTime,omitempty"`
	CreatedAt                 time.Time  `json:"createdAt"`
	UpdatedAt                 time.Time  `json:"updatedAt"`
}

// ApplyStatus moves the task to a new workflow stage at now. Entering
// completed stamps DateCompleted once; leaving it clears the stamp so
// windowed completion counts stay truthful.
func (t *Task) ApplyStatus(status Stage, now time.Time) {
	if status.Completed() {
		if t.DateCompleted == nil {
			done := now
			t.DateCompleted = &done
		}
	} else {
		t.DateCompleted = nil
	}
	t.Status = status
	t.UpdatedAt = now
}

// ProgressLog is a time-boxed project stage record used to compute schedule
// adherence. Logs whose date range is missing or inverted are skipped by the
// calculator rather than rejected.
type ProgressLog struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	Status      Stage      `json:"status"`
	IsCompleted bool       `json:"isCompleted"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Project groups tasks and progress logs for one organization. The two
// bookkeeping stamps are written through whenever children change.
type Project struct {
	ID                        string     `json:"id"`
	OrganizationID            string     `json:"organizationId"`
	Name                      string     `json:"name"`
	Description               *string    `json:"description,omitempty"`
	ProgressLogLastModifiedAt *time.Time `json:"progressLogLastModifiedAt,omitempty"`
	TasksLastModifiedAt       *time.Time `json:"tasksLastModifiedAt,omitempty"`
	CreatedAt                 time.Time  `json:"createdAt"`
	UpdatedAt                 time.Time  `json:"updatedAt"`
}

// Attachment is a design file stored in object storage for a task.
type Attachment struct {
	ID          string    `json:"id"`
	TaskID      int64     `json:"taskId"`
	FileName    string    `json:"fileName"`
	ObjectKey   string    `json:"objectKey"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Scope carries the already-resolved caller identity. Authentication happens
// upstream; every repository read and write is filtered by OrganizationID.
type Scope struct {
	UserID         string
	OrganizationID string
}
