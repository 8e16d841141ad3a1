package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx connection pool using the provided DSN.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 8
	cfg.MaxConnIdleTime = 5 * time.Minute
	return pgxpool.NewWithConfig(ctx, cfg)
}

// EnsureSchema creates the tables if needed. Having the migration in code
// keeps the stack self-contained so docker-compose can bootstrap everything.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const stmt = `
CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL,
	name TEXT NOT NULL,
	description TEXT,
	progress_log_last_modified_at TIMESTAMPTZ,
	tasks_last_modified_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_projects_org ON projects(organization_id);

CREATE TABLE IF NOT EXISTS printers (
	id TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL,
	name TEXT NOT NULL,
	model TEXT,
	status TEXT NOT NULL,
	status_last_updated_at TIMESTAMPTZ NOT NULL,
	work_minutes BIGINT NOT NULL DEFAULT 0,
	maintenance_minutes BIGINT NOT NULL DEFAULT 0,
	scheduled_minutes BIGINT NOT NULL DEFAULT 480,
	current_task_id BIGINT,
	task_assigned_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_printers_org ON printers(organization_id);
CREATE INDEX IF NOT EXISTS idx_printers_status ON printers(organization_id, status);

CREATE TABLE IF NOT EXISTS tasks (
	id BIGSERIAL PRIMARY KEY,
	organization_id TEXT NOT NULL,
	project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	status TEXT NOT NULL,
	printer_id TEXT,
	material_id TEXT,
	due_date TIMESTAMPTZ,
	date_completed TIMESTAMPTZ,
	production_start_time TIMESTAMPTZ,
	actual_production_start_time TIMESTAMPTZ,
	actual_production_end_time TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_org_project ON tasks(organization_id, project_id);
CREATE INDEX IF NOT EXISTS idx_tasks_printer_created ON tasks(organization_id, printer_id, created_at);

CREATE TABLE IF NOT EXISTS progress_logs (
	id TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL,
	project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	status TEXT NOT NULL,
	is_completed BOOLEAN NOT NULL DEFAULT FALSE,
	start_date TIMESTAMPTZ,
	due_date TIMESTAMPTZ,
	completed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_progress_logs_project ON progress_logs(organization_id, project_id);

CREATE TABLE IF NOT EXISTS progress_log_tasks (
	log_id TEXT NOT NULL REFERENCES progress_logs(id) ON DELETE CASCADE,
	task_id BIGINT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	PRIMARY KEY (log_id, task_id)
);

CREATE TABLE IF NOT EXISTS attachments (
	id TEXT PRIMARY KEY,
	task_id BIGINT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	file_name TEXT NOT NULL,
	object_key TEXT NOT NULL,
	size BIGINT NOT NULL,
	content_type TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_attachments_task ON attachments(task_id);`
	_, err := pool.Exec(ctx, stmt)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
