package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ibrah006/workflow-backend-sub000/internal/model"
	"github.com/ibrah006/workflow-backend-sub000/internal/printer"
)

// TxStore gives the printer engine its single-owner semantics: every
// mutation runs inside one transaction that locks the printer row with
// SELECT ... FOR UPDATE, so concurrent transitions serialize instead of
// folding from a stale timestamp.
type TxStore struct {
	pool *pgxpool.Pool
}

// NewTxStore constructs a TxStore.
func NewTxStore(pool *pgxpool.Pool) *TxStore {
	return &TxStore{pool: pool}
}

// InTx runs fn in a transaction; any error rolls everything back.
func (s *TxStore) InTx(ctx context.Context, fn func(tx printer.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)
	if err := fn(&txOps{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type txOps struct {
	tx pgx.Tx
}

func (o *txOps) PrinterForUpdate(ctx context.Context, orgID, printerID string) (*model.Printer, error) {
	row := o.tx.QueryRow(ctx, `SELECT `+printerColumns+` FROM printers WHERE organization_id=$1 AND id=$2 FOR UPDATE`, orgID, printerID)
	p, err := scanPrinter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("printer %s: %w", printerID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("lock printer: %w", err)
	}
	return p, nil
}

func (o *txOps) SavePrinter(ctx context.Context, p *model.Printer) error {
	_, err := o.tx.Exec(ctx, `
		UPDATE printers
		SET status=$1, status_last_updated_at=$2, work_minutes=$3, maintenance_minutes=$4,
			current_task_id=$5, task_assigned_at=$6, updated_at=$7
		WHERE organization_id=$8 AND id=$9
	`, p.Status, p.StatusLastUpdatedAt, p.WorkMinutes, p.MaintenanceMinutes,
		p.CurrentTaskID, p.TaskAssignedAt, p.UpdatedAt, p.OrganizationID, p.ID)
	if err != nil {
		return fmt.Errorf("save printer: %w", err)
	}
	return nil
}

func (o *txOps) TaskForUpdate(ctx context.Context, orgID string, taskID int64) (*model.Task, error) {
	row := o.tx.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE organization_id=$1 AND id=$2 FOR UPDATE`, orgID, taskID)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("task %d: %w", taskID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("lock task: %w", err)
	}
	return t, nil
}

func (o *txOps) SaveTask(ctx context.Context, t *model.Task) error {
	_, err := o.tx.Exec(ctx, `
		UPDATE tasks
		SET status=$1, printer_id=$2, date_completed=$3, actual_production_start_time=$4,
			actual_production_end_time=$5, updated_at=$6
		WHERE organization_id=$7 AND id=$8
	`, t.Status, t.PrinterID, t.DateCompleted, t.ActualProductionStartTime,
		t.ActualProductionEndTime, t.UpdatedAt, t.OrganizationID, t.ID)
	if err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}
