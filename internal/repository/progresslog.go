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

// ProgressLogRepository persists progress logs and their task links.
type ProgressLogRepository struct {
	pool *pgxpool.Pool
}

// NewProgressLogRepository constructs a repository.
func NewProgressLogRepository(pool *pgxpool.Pool) *ProgressLogRepository {
	return &ProgressLogRepository{pool: pool}
}

// Create inserts a log and bumps the project's progress-log stamp in one
// transaction.
func (r *ProgressLogRepository) Create(ctx context.Context, orgID string, log *model.ProgressLog) error {
	now := time.Now().UTC()
	log.CreatedAt = now
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)
	_, err = tx.Exec(ctx, `
		INSERT INTO progress_logs (id, organization_id, project_id, status, is_completed,
			start_date, due_date, completed_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, log.ID, orgID, log.ProjectID, log.Status, log.IsCompleted,
		log.StartDate, log.DueDate, log.CompletedAt, log.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert progress log: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE projects SET progress_log_last_modified_at=$1 WHERE id=$2`,
		now, log.ProjectID); err != nil {
		return fmt.Errorf("touch project progress stamp: %w", err)
	}
	return tx.Commit(ctx)
}

// LinkTask attaches a task to a log (many-to-many). Duplicate links are
// ignored.
func (r *ProgressLogRepository) LinkTask(ctx context.Context, logID string, taskID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO progress_log_tasks (log_id, task_id) VALUES ($1,$2)
		ON CONFLICT DO NOTHING
	`, logID, taskID)
	if err != nil {
		return fmt.Errorf("link task to log: %w", err)
	}
	return nil
}

// SetCompleted flips a log's completion flag, keeping completed_at in step
// with it. Completion feeds the rate calculator's no-task fallback.
func (r *ProgressLogRepository) SetCompleted(ctx context.Context, orgID, logID string, completed bool) (*model.ProgressLog, error) {
	var completedAt *time.Time
	if completed {
		now := time.Now().UTC()
		completedAt = &now
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE progress_logs SET is_completed=$1, completed_at=$2
		WHERE organization_id=$3 AND id=$4
		RETURNING id, project_id, status, is_completed, start_date, due_date, completed_at, created_at
	`, completed, completedAt, orgID, logID)
	var log model.ProgressLog
	err := row.Scan(&log.ID, &log.ProjectID, &log.Status, &log.IsCompleted,
		&log.StartDate, &log.DueDate, &log.CompletedAt, &log.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("progress log %s: %w", logID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("update progress log: %w", err)
	}
	return &log, nil
}

// ListByProject returns a project's logs, oldest first.
func (r *ProgressLogRepository) ListByProject(ctx context.Context, orgID, projectID string) ([]model.ProgressLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, project_id, status, is_completed, start_date, due_date, completed_at, created_at
		FROM progress_logs WHERE organization_id=$1 AND project_id=$2 ORDER BY created_at
	`, orgID, projectID)
	if err != nil {
		return nil, fmt.Errorf("select progress logs: %w", err)
	}
	defer rows.Close()
	var out []model.ProgressLog
	for rows.Next() {
		var log model.ProgressLog
		if err := rows.Scan(&log.ID, &log.ProjectID, &log.Status, &log.IsCompleted,
			&log.StartDate, &log.DueDate, &log.CompletedAt, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan progress log: %w", err)
		}
		out = append(out, log)
	}
	return out, rows.Err()
}
