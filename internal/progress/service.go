package progress

import (
	"context"
	"time"

	"github.com/ibrah006/workflow-backend-sub000/internal/model"
)

// Store is the read-only access the calculator needs. All reads are scoped
// by organization id.
type Store interface {
	Project(ctx context.Context, orgID, projectID string) (*model.Project, error)
	LogsByProject(ctx context.Context, orgID, projectID string) ([]model.ProgressLog, error)
	TasksByLog(ctx context.Context, orgID, logID string) ([]model.Task, error)
	ProjectIDs(ctx context.Context, orgID string) ([]string, error)
}

// Clock returns the current time; injected so tests control it.
type Clock func() time.Time

// Service computes progress rates from persisted project state.
type Service struct {
	store Store
	now   Clock
}

// NewService constructs a Service; clock defaults to time.Now.
func NewService(store Store, clock Clock) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{store: store, now: clock}
}

// ForProject returns one project's rate rounded to 4 decimal places.
// Missing projects fail with ErrNotFound.
func (s *Service) ForProject(ctx context.Context, scope model.Scope, projectID string) (float64, error) {
	if _, err := s.store.Project(ctx, scope.OrganizationID, projectID); err != nil {
		return 0, err
	}
	rate, err := s.projectRate(ctx, scope.OrganizationID, projectID)
	if err != nil {
		return 0, err
	}
	return Round(rate, 4), nil
}

// ForOrganization averages every project's rate, each computed against that
// project's own task set, rounded to 2 decimal places. An organization with
// no projects reports 0.
func (s *Service) ForOrganization(ctx context.Context, scope model.Scope) (float64, error) {
	ids, err := s.store.ProjectIDs(ctx, scope.OrganizationID)
	if err != nil {
		return 0, err
	}
	rates := make([]float64, 0, len(ids))
	for _, id := range ids {
		rate, err := s.projectRate(ctx, scope.OrganizationID, id)
		if err != nil {
			return 0, err
		}
		rates = append(rates, rate)
	}
	return Round(MeanRate(rates), 2), nil
}

func (s *Service) projectRate(ctx context.Context, orgID, projectID string) (float64, error) {
	logs, err := s.store.LogsByProject(ctx, orgID, projectID)
	if err != nil {
		return 0, err
	}
	tasksByLog := make(map[string][]model.Task, len(logs))
	for _, log := range logs {
		tasks, err := s.store.TasksByLog(ctx, orgID, log.ID)
		if err != nil {
			return 0, err
		}
		tasksByLog[log.ID] = tasks
	}
	return ProjectRate(logs, tasksByLog, s.now()), nil
}
