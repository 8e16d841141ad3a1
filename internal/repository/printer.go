// Package repository wraps all SQL used by the API, services and worker.
// Every query is scoped by organization id; pgx.ErrNoRows is translated to
// model.ErrNotFound so callers never handle driver errors.
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

const printerColumns = `id, organization_id, name, model, status, status_last_updated_at,
	work_minutes, maintenance_minutes, scheduled_minutes, current_task_id, task_assigned_at,
	created_at, updated_at`

// PrinterRepository persists printers.
type PrinterRepository struct {
	pool *pgxpool.Pool
}

// NewPrinterRepository constructs a repository.
func NewPrinterRepository(pool *pgxpool.Pool) *PrinterRepository {
	return &PrinterRepository{pool: pool}
}

// Create registers a printer. Defaults are applied here: status active,
// scheduled minutes 480 when unset.
func (r *PrinterRepository) Create(ctx context.Context, p *model.Printer) error {
	now := time.Now().UTC()
	if p.Status == "" {
		p.Status = model.PrinterActive
	}
	if p.ScheduledMinutes == 0 {
		p.ScheduledMinutes = model.DefaultScheduledMinutes
	}
	p.StatusLastUpdatedAt = now
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.pool.Exec(ctx, `
		INSERT INTO printers (id, organization_id, name, model, status, status_last_updated_at,
			work_minutes, maintenance_minutes, scheduled_minutes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, p.ID, p.OrganizationID, p.Name, p.Model, p.Status, p.StatusLastUpdatedAt,
		p.WorkMinutes, p.MaintenanceMinutes, p.ScheduledMinutes, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert printer: %w", err)
	}
	return nil
}

// Get returns one printer within the organization.
func (r *PrinterRepository) Get(ctx context.Context, orgID, id string) (*model.Printer, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+printerColumns+` FROM printers WHERE organization_id=$1 AND id=$2`, orgID, id)
	p, err := scanPrinter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("printer %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("select printer: %w", err)
	}
	return p, nil
}

// List returns every printer in the organization, oldest first.
func (r *PrinterRepository) List(ctx context.Context, orgID string) ([]model.Printer, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+printerColumns+` FROM printers WHERE organization_id=$1 ORDER BY created_at`, orgID)
	if err != nil {
		return nil, fmt.Errorf("select printers: %w", err)
	}
	defer rows.Close()
	var out []model.Printer
	for rows.Next() {
		p, err := scanPrinter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan printer: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// UpdateMeta updates the operator-editable fields. Engine-owned fields
// (status, accumulators, binding) only change through the transactional
// store.
func (r *PrinterRepository) UpdateMeta(ctx context.Context, orgID, id string, name *string, printerModel *string, scheduledMinutes *int64) (*model.Printer, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE printers
		SET name = COALESCE($1, name),
			model = COALESCE($2, model),
			scheduled_minutes = COALESCE($3, scheduled_minutes),
			updated_at = $4
		WHERE organization_id=$5 AND id=$6
	`, name, printerModel, scheduledMinutes, time.Now().UTC(), orgID, id)
	if err != nil {
		return nil, fmt.Errorf("update printer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("printer %s: %w", id, model.ErrNotFound)
	}
	return r.Get(ctx, orgID, id)
}

// Delete removes a printer owned by the organization.
func (r *PrinterRepository) Delete(ctx context.Context, orgID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM printers WHERE organization_id=$1 AND id=$2`, orgID, id)
	if err != nil {
		return fmt.Errorf("delete printer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("printer %s: %w", id, model.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrinter(row rowScanner) (*model.Printer, error) {
	var p model.Printer
	err := row.Scan(&p.ID, &p.OrganizationID, &p.Name, &p.Model, &p.Status, &p.StatusLastUpdatedAt,
		&p.WorkMinutes, &p.MaintenanceMinutes, &p.ScheduledMinutes, &p.CurrentTaskID, &p.TaskAssignedAt,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
