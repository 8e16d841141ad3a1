package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ibrah006/workflow-backend-sub000/internal/model"
)

const taskColumns = `id, organization_id, project_id, name, status, printer_id, material_id,
	due_date, date_completed, production_start_time, actual_production_start_time,
	actual_production_end_time, created_at, updated_at`

// TaskRepository persists tasks.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository constructs a repository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// Create inserts a task and bumps the project's tasks stamp in one
// transaction.
func (r *TaskRepository) Create(ctx context.Context, t *model.Task) error {
	now := time.Now().UTC()
	if t.Status == "" {
		t.Status = model.StagePending
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)
	row := tx.QueryRow(ctx, `
		INSERT INTO tasks (organization_id, project_id, name, status, material_id, due_date,
			production_start_time, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`, t.OrganizationID, t.ProjectID, t.Name, t.Status, t.MaterialID, t.DueDate,
		t.ProductionStartTime, t.CreatedAt, t.UpdatedAt)
	if err := row.Scan(&t.ID); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE projects SET tasks_last_modified_at=$1 WHERE organization_id=$2 AND id=$3`,
		now, t.OrganizationID, t.ProjectID); err != nil {
		return fmt.Errorf("touch project tasks stamp: %w", err)
	}
	return tx.Commit(ctx)
}

// Get returns one task within the organization.
func (r *TaskRepository) Get(ctx context.Context, orgID string, id int64) (*model.Task, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE organization_id=$1 AND id=$2`, orgID, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("task %d: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("select task: %w", err)
	}
	return t, nil
}

// UpdateStatus moves a task to a new workflow stage, stamping or clearing
// date_completed as it enters or leaves completed, and bumps the project's
// tasks stamp in the same transaction.
func (r *TaskRepository) UpdateStatus(ctx context.Context, orgID string, id int64, status model.Stage) (*model.Task, error) {
	t, err := r.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	t.ApplyStatus(status, now)
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)
	if _, err := tx.Exec(ctx, `UPDATE tasks SET status=$1, date_completed=$2, updated_at=$3 WHERE organization_id=$4 AND id=$5`,
		t.Status, t.DateCompleted, t.UpdatedAt, orgID, id); err != nil {
		return nil, fmt.Errorf("update task status: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE projects SET tasks_last_modified_at=$1 WHERE organization_id=$2 AND id=$3`,
		now, orgID, t.ProjectID); err != nil {
		return nil, fmt.Errorf("touch project tasks stamp: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return t, nil
}

// ListByProject returns a project's tasks, oldest first.
func (r *TaskRepository) ListByProject(ctx context.Context, orgID, projectID string) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE organization_id=$1 AND project_id=$2 ORDER BY created_at`, orgID, projectID)
	if err != nil {
		return nil, fmt.Errorf("select project tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

// TasksByLog returns the tasks linked to a progress log.
func (r *TaskRepository) TasksByLog(ctx context.Context, orgID, logID string) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+qualifiedTaskColumns("t")+`
		FROM tasks t
		JOIN progress_log_tasks plt ON plt.task_id = t.id
		WHERE t.organization_id=$1 AND plt.log_id=$2
		ORDER BY t.created_at
	`, orgID, logID)
	if err != nil {
		return nil, fmt.Errorf("select log tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

// CountForPrinterInWindow counts the tasks created for a printer inside a
// date range.
func (r *TaskRepository) CountForPrinterInWindow(ctx context.Context, orgID, printerID string, start, end time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM tasks
		WHERE organization_id=$1 AND printer_id=$2 AND created_at BETWEEN $3 AND $4
	`, orgID, printerID, start, end).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count printer tasks: %w", err)
	}
	return n, nil
}

// CountProjectTasks counts a project's tasks; when a completion window is
// given only tasks completed inside it are counted.
func (r *TaskRepository) CountProjectTasks(ctx context.Context, orgID, projectID string, completedStart, completedEnd *time.Time) (int, error) {
	var (
		n   int
		err error
	)
	if completedStart != nil && completedEnd != nil {
		err = r.pool.QueryRow(ctx, `
			SELECT COUNT(*) FROM tasks
			WHERE organization_id=$1 AND project_id=$2 AND date_completed BETWEEN $3 AND $4
		`, orgID, projectID, *completedStart, *completedEnd).Scan(&n)
	} else {
		err = r.pool.QueryRow(ctx, `
			SELECT COUNT(*) FROM tasks WHERE organization_id=$1 AND project_id=$2
		`, orgID, projectID).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("count project tasks: %w", err)
	}
	return n, nil
}

func collectTasks(rows pgx.Rows) ([]model.Task, error) {
	var out []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func scanTask(row rowScanner) (*model.Task, error) {
	var t model.Task
	err := row.Scan(&t.ID, &t.OrganizationID, &t.ProjectID, &t.Name, &t.Status, &t.PrinterID,
		&t.MaterialID, &t.DueDate, &t.DateCompleted, &t.ProductionStartTime,
		&t.ActualProductionStartTime, &t.ActualProductionEndTime, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func qualifiedTaskColumns(alias string) string {
	return alias + `.id, ` + alias + `.organization_id, ` + alias + `.project_id, ` + alias + `.name, ` +
		alias + `.status, ` + alias + `.printer_id, ` + alias + `.material_id, ` + alias + `.due_date, ` +
		alias + `.date_completed, ` + alias + `.production_start_time, ` + alias + `.actual_production_start_time, ` +
		alias + `.actual_production_end_time, ` + alias + `.created_at, ` + alias + `.updated_at`
}
