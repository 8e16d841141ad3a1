package report

import (
	"context"
	"time"

	"github.com/ibrah006/workflow-backend-sub000/internal/model"
)

// Store is the read-only access reporting needs. Reports run concurrently
// with state mutations and make no snapshot guarantee beyond "current value
// at query time".
type Store interface {
	Printers(ctx context.Context, orgID string) ([]model.Printer, error)
	CountTasksForPrinter(ctx context.Context, orgID, printerID string, w Window) (int, error)
	Projects(ctx context.Context, orgID string) ([]model.Project, error)
	CountProjectTasks(ctx context.Context, orgID, projectID string, completedWithin *Window) (int, error)
}

// ProgressRater supplies per-project progress rates for the project report.
type ProgressRater interface {
	ForProject(ctx context.Context, scope model.Scope, projectID string) (float64, error)
}

// Clock returns the current time; injected so tests control it.
type Clock func() time.Time

// ProductionReport is the full production report shape. It is always
// well-formed, even over an empty fleet.
type ProductionReport struct {
	For      WindowKey            `json:"for"`
	Window   Window               `json:"window"`
	Overview Overview             `json:"overview"`
	Printers []PrinterUtilization `json:"printers"`
	Downtime Downtime             `json:"downtime"`
}

// ProjectSummary is one row of the project report.
type ProjectSummary struct {
	ProjectID      string  `json:"projectId"`
	Name           string  `json:"name"`
	TasksTotal     int     `json:"tasksTotal"`
	TasksCompleted int     `json:"tasksCompleted"`
	ProgressRate   float64 `json:"progressRate"`
}

// ProjectReport summarizes task completion and schedule adherence per
// project over a window.
type ProjectReport struct {
	For              WindowKey        `json:"for"`
	Window           Window           `json:"window"`
	Projects         []ProjectSummary `json:"projects"`
	OrganizationRate float64          `json:"organizationRate"`
}

// Service assembles reports from persisted state.
type Service struct {
	store Store
	rates ProgressRater
	now   Clock
}

// NewService constructs a Service; clock defaults to time.Now.
func NewService(store Store, rates ProgressRater, clock Clock) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{store: store, rates: rates, now: clock}
}

// Production builds the production report for the window key.
func (s *Service) Production(ctx context.Context, scope model.Scope, key WindowKey) (*ProductionReport, error) {
	w := Range(key, s.now())
	printers, err := s.store.Printers(ctx, scope.OrganizationID)
	if err != nil {
		return nil, err
	}
	jobCounts := make(map[string]int, len(printers))
	for _, p := range printers {
		n, err := s.store.CountTasksForPrinter(ctx, scope.OrganizationID, p.ID, w)
		if err != nil {
			return nil, err
		}
		jobCounts[p.ID] = n
	}
	return &ProductionReport{
		For:      key,
		Window:   w,
		Overview: BuildOverview(printers),
		Printers: BuildUtilization(printers, jobCounts),
		Downtime: BuildDowntime(printers),
	}, nil
}

// Projects builds the project report for the window key.
func (s *Service) Projects(ctx context.Context, scope model.Scope, key WindowKey) (*ProjectReport, error) {
	w := Range(key, s.now())
	projects, err := s.store.Projects(ctx, scope.OrganizationID)
	if err != nil {
		return nil, err
	}
	out := &ProjectReport{For: key, Window: w, Projects: make([]ProjectSummary, 0, len(projects))}
	var rateSum float64
	for _, proj := range projects {
		total, err := s.store.CountProjectTasks(ctx, scope.OrganizationID, proj.ID, nil)
		if err != nil {
			return nil, err
		}
		completed, err := s.store.CountProjectTasks(ctx, scope.OrganizationID, proj.ID, &w)
		if err != nil {
			return nil, err
		}
		rate, err := s.rates.ForProject(ctx, scope, proj.ID)
		if err != nil {
			return nil, err
		}
		rateSum += rate
		out.Projects = append(out.Projects, ProjectSummary{
			ProjectID:      proj.ID,
			Name:           proj.Name,
			TasksTotal:     total,
			TasksCompleted: completed,
			ProgressRate:   rate,
		})
	}
	if len(projects) > 0 {
		out.OrganizationRate = round2(rateSum / float64(len(projects)))
	}
	return out, nil
}
