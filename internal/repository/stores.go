package repository

import (
	"context"

	"github.com/ibrah006/workflow-backend-sub000/internal/model"
	"github.com/ibrah006/workflow-backend-sub000/internal/report"
)

// ProgressStore composes the per-entity repositories into the read surface
// the progress calculator expects.
type ProgressStore struct {
	Projects *ProjectRepository
	Logs     *ProgressLogRepository
	Tasks    *TaskRepository
}

func (s *ProgressStore) Project(ctx context.Context, orgID, projectID string) (*model.Project, error) {
	return s.Projects.Get(ctx, orgID, projectID)
}

func (s *ProgressStore) LogsByProject(ctx context.Context, orgID, projectID string) ([]model.ProgressLog, error) {
	return s.Logs.ListByProject(ctx, orgID, projectID)
}

func (s *ProgressStore) TasksByLog(ctx context.Context, orgID, logID string) ([]model.Task, error) {
	return s.Tasks.TasksByLog(ctx, orgID, logID)
}

func (s *ProgressStore) ProjectIDs(ctx context.Context, orgID string) ([]string, error) {
	return s.Projects.IDs(ctx, orgID)
}

// ReportStore composes the per-entity repositories into the read surface the
// report aggregator expects.
type ReportStore struct {
	PrintersRepo *PrinterRepository
	ProjectsRepo *ProjectRepository
	TasksRepo    *TaskRepository
}

func (s *ReportStore) Printers(ctx context.Context, orgID string) ([]model.Printer, error) {
	return s.PrintersRepo.List(ctx, orgID)
}

func (s *ReportStore) CountTasksForPrinter(ctx context.Context, orgID, printerID string, w report.Window) (int, error) {
	return s.TasksRepo.CountForPrinterInWindow(ctx, orgID, printerID, w.Start, w.End)
}

func (s *ReportStore) Projects(ctx context.Context, orgID string) ([]model.Project, error) {
	return s.ProjectsRepo.List(ctx, orgID)
}

func (s *ReportStore) CountProjectTasks(ctx context.Context, orgID, projectID string, completedWithin *report.Window) (int, error) {
	if completedWithin == nil {
		return s.TasksRepo.CountProjectTasks(ctx, orgID, projectID, nil, nil)
	}
	return s.TasksRepo.CountProjectTasks(ctx, orgID, projectID, &completedWithin.Start, &completedWithin.End)
}
