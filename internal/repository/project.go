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

const projectColumns = `id, organization_id, name, description,
	progress_log_last_modified_at, tasks_last_modified_at, created_at, updated_at`

// ProjectRepository persists projects.
type ProjectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository constructs a repository.
func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

// Create inserts a project.
func (r *ProjectRepository) Create(ctx context.Context, p *model.Project) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.pool.Exec(ctx, `
		INSERT INTO projects (id, organization_id, name, description, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, p.ID, p.OrganizationID, p.Name, p.Description, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// Get returns one project within the organization.
func (r *ProjectRepository) Get(ctx context.Context, orgID, id string) (*model.Project, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE organization_id=$1 AND id=$2`, orgID, id)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("project %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("select project: %w", err)
	}
	return p, nil
}

// List returns every project in the organization, oldest first.
func (r *ProjectRepository) List(ctx context.Context, orgID string) ([]model.Project, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+projectColumns+` FROM projects WHERE organization_id=$1 ORDER BY created_at`, orgID)
	if err != nil {
		return nil, fmt.Errorf("select projects: %w", err)
	}
	defer rows.Close()
	var out []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// IDs returns every project id in the organization.
func (r *ProjectRepository) IDs(ctx context.Context, orgID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM projects WHERE organization_id=$1 ORDER BY created_at`, orgID)
	if err != nil {
		return nil, fmt.Errorf("select project ids: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan project id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func scanProject(row rowScanner) (*model.Project, error) {
	var p model.Project
	err := row.Scan(&p.ID, &p.OrganizationID, &p.Name, &p.Description,
		&p.ProgressLogLastModifiedAt, &p.TasksLastModifiedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
