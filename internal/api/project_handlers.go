package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ibrah006/workflow-backend-sub000/internal/model"
)

// CreateProjectRequest is the body for creating a project.
type CreateProjectRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
}

// CreateTaskRequest is the body for adding a task to a project.
type CreateTaskRequest struct {
	Name                string     `json:"name" validate:"required"`
	Status              string     `json:"status,omitempty"`
	MaterialID          *string    `json:"materialId,omitempty"`
	DueDate             *time.Time `json:"dueDate,omitempty"`
	ProductionStartTime *time.Time `json:"productionStartTime,omitempty"`
}

// CreateProgressLogRequest is the body for adding a progress stage record.
type CreateProgressLogRequest struct {
	Status    string     `json:"status" validate:"required"`
	StartDate *time.Time `json:"startDate,omitempty"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
	TaskIDs   []int64    `json:"taskIds,omitempty"`
}

// UpdateProgressLogRequest flips a stage record's completion flag.
type UpdateProgressLogRequest struct {
	IsCompleted *bool `json:"isCompleted" validate:"required"`
}

func (s *Server) createProject(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	req := new(CreateProjectRequest)
	if err := c.BodyParser(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, fmt.Sprintf("cannot parse project JSON: %v", err))
	}
	if err := s.validate.Struct(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, strings.Join(formatValidationErrors(err), "; "))
	}
	p := &model.Project{
		ID:             uuid.NewString(),
		OrganizationID: scope.OrganizationID,
		Name:           req.Name,
		Description:    req.Description,
	}
	if err := s.projects.Create(c.Context(), p); err != nil {
		s.log.WithError(err).Error("create project")
		return respondServiceError(c, err)
	}
	return respondJSON(c, fiber.StatusCreated, p)
}

func (s *Server) listProjects(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	projects, err := s.projects.List(c.Context(), scope.OrganizationID)
	if err != nil {
		s.log.WithError(err).Error("list projects")
		return respondServiceError(c, err)
	}
	if projects == nil {
		projects = []model.Project{}
	}
	return respondJSON(c, fiber.StatusOK, projects)
}

func (s *Server) getProject(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	p, err := s.projects.Get(c.Context(), scope.OrganizationID, c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondJSON(c, fiber.StatusOK, p)
}

func (s *Server) createTask(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	projectID := c.Params("id")
	if _, err := s.projects.Get(c.Context(), scope.OrganizationID, projectID); err != nil {
		return respondServiceError(c, err)
	}
	req := new(CreateTaskRequest)
	if err := c.BodyParser(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, fmt.Sprintf("cannot parse task JSON: %v", err))
	}
	if err := s.validate.Struct(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, strings.Join(formatValidationErrors(err), "; "))
	}
	stage := model.StagePending
	if req.Status != "" {
		var err error
		if stage, err = model.ParseStage(req.Status); err != nil {
			return respondServiceError(c, err)
		}
	}
	t := &model.Task{
		OrganizationID:      scope.OrganizationID,
		ProjectID:           projectID,
		Name:                req.Name,
		Status:              stage,
		MaterialID:          req.MaterialID,
		DueDate:             req.DueDate,
		ProductionStartTime: req.ProductionStartTime,
	}
	if err := s.tasks.Create(c.Context(), t); err != nil {
		s.log.WithError(err).Error("create task")
		return respondServiceError(c, err)
	}
	return respondJSON(c, fiber.StatusCreated, t)
}

func (s *Server) listProjectTasks(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	tasks, err := s.tasks.ListByProject(c.Context(), scope.OrganizationID, c.Params("id"))
	if err != nil {
		s.log.WithError(err).Error("list project tasks")
		return respondServiceError(c, err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return respondJSON(c, fiber.StatusOK, tasks)
}

func (s *Server) createProgressLog(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	projectID := c.Params("id")
	if _, err := s.projects.Get(c.Context(), scope.OrganizationID, projectID); err != nil {
		return respondServiceError(c, err)
	}
	req := new(CreateProgressLogRequest)
	if err := c.BodyParser(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, fmt.Sprintf("cannot parse progress log JSON: %v", err))
	}
	if err := s.validate.Struct(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, strings.Join(formatValidationErrors(err), "; "))
	}
	stage, err := model.ParseStage(req.Status)
	if err != nil {
		return respondServiceError(c, err)
	}
	log := &model.ProgressLog{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Status:    stage,
		StartDate: req.StartDate,
		DueDate:   req.DueDate,
	}
	if err := s.logs.Create(c.Context(), scope.OrganizationID, log); err != nil {
		s.log.WithError(err).Error("create progress log")
		return respondServiceError(c, err)
	}
	for _, taskID := range req.TaskIDs {
		if _, err := s.tasks.Get(c.Context(), scope.OrganizationID, taskID); err != nil {
			return respondServiceError(c, err)
		}
		if err := s.logs.LinkTask(c.Context(), log.ID, taskID); err != nil {
			s.log.WithError(err).Error("link task to progress log")
			return respondServiceError(c, err)
		}
	}
	return respondJSON(c, fiber.StatusCreated, log)
}

func (s *Server) updateProgressLog(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	if _, err := s.projects.Get(c.Context(), scope.OrganizationID, c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	req := new(UpdateProgressLogRequest)
	if err := c.BodyParser(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, fmt.Sprintf("cannot parse progress log JSON: %v", err))
	}
	if err := s.validate.Struct(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, strings.Join(formatValidationErrors(err), "; "))
	}
	log, err := s.logs.SetCompleted(c.Context(), scope.OrganizationID, c.Params("logId"), *req.IsCompleted)
	if err != nil {
		s.log.WithError(err).Error("update progress log")
		return respondServiceError(c, err)
	}
	return respondJSON(c, fiber.StatusOK, log)
}

func (s *Server) listProgressLogs(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	logs, err := s.logs.ListByProject(c.Context(), scope.OrganizationID, c.Params("id"))
	if err != nil {
		s.log.WithError(err).Error("list progress logs")
		return respondServiceError(c, err)
	}
	if logs == nil {
		logs = []model.ProgressLog{}
	}
	return respondJSON(c, fiber.StatusOK, logs)
}

func (s *Server) projectProgressRate(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	rate, err := s.progressSvc.ForProject(c.Context(), scope, c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondJSON(c, fiber.StatusOK, fiber.Map{"projectId": c.Params("id"), "progressRate": rate})
}

func (s *Server) organizationProgressRate(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	rate, err := s.progressSvc.ForOrganization(c.Context(), scope)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondJSON(c, fiber.StatusOK, fiber.Map{"progressRate": rate})
}
