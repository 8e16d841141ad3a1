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

// AttachmentRepository persists task attachment metadata; the bytes live in
// object storage.
type AttachmentRepository struct {
	pool *pgxpool.Pool
}

// NewAttachmentRepository constructs a repository.
func NewAttachmentRepository(pool *pgxpool.Pool) *AttachmentRepository {
	return &AttachmentRepository{pool: pool}
}

// Create records an uploaded attachment.
func (r *AttachmentRepository) Create(ctx context.Context, a *model.Attachment) error {
	a.CreatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO attachments (id, task_id, file_name, object_key, size, content_type, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, a.ID, a.TaskID, a.FileName, a.ObjectKey, a.Size, a.ContentType, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert attachment: %w", err)
	}
	return nil
}

// Get returns one attachment for a task.
func (r *AttachmentRepository) Get(ctx context.Context, taskID int64, id string) (*model.Attachment, error) {
	var a model.Attachment
	row := r.pool.QueryRow(ctx, `
		SELECT id, task_id, file_name, object_key, size, content_type, created_at
		FROM attachments WHERE task_id=$1 AND id=$2
	`, taskID, id)
	err := row.Scan(&a.ID, &a.TaskID, &a.FileName, &a.ObjectKey, &a.Size, &a.ContentType, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("attachment %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("select attachment: %w", err)
	}
	return &a, nil
}

// Delete removes an attachment's metadata row.
func (r *AttachmentRepository) Delete(ctx context.Context, taskID int64, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM attachments WHERE task_id=$1 AND id=$2`, taskID, id)
	if err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attachment %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// ListByTask returns a task's attachments, newest first.
func (r *AttachmentRepository) ListByTask(ctx context.Context, taskID int64) ([]model.Attachment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, task_id, file_name, object_key, size, content_type, created_at
		FROM attachments WHERE task_id=$1 ORDER BY created_at DESC
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("select attachments: %w", err)
	}
	defer rows.Close()
	var out []model.Attachment
	for rows.Next() {
		var a model.Attachment
		if err := rows.Scan(&a.ID, &a.TaskID, &a.FileName, &a.ObjectKey, &a.Size, &a.ContentType, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
