package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ibrah006/workflow-backend-sub000/internal/model"
	"github.com/ibrah006/workflow-backend-sub000/internal/queue"
)

// UpdateTaskStatusRequest selects the target workflow stage.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (s *Server) updateTaskStatus(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	taskID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "task id must be an integer")
	}
	req := new(UpdateTaskStatusRequest)
	if err := c.BodyParser(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, fmt.Sprintf("cannot parse status JSON: %v", err))
	}
	if err := s.validate.Struct(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, strings.Join(formatValidationErrors(err), "; "))
	}
	stage, err := model.ParseStage(req.Status)
	if err != nil {
		return respondServiceError(c, err)
	}
	t, err := s.tasks.UpdateStatus(c.Context(), scope.OrganizationID, taskID, stage)
	if err != nil {
		s.log.WithError(err).WithField("task_id", taskID).Error("update task status")
		return respondServiceError(c, err)
	}
	s.notifyTaskChange(c, queue.TaskChangeEvent{
		Type:      "task.status_changed",
		TaskID:    t.ID,
		Changes:   map[string]string{"status": string(t.Status)},
		ChangedBy: scope.UserID,
		Timestamp: time.Now().UTC(),
	})
	return respondJSON(c, fiber.StatusOK, t)
}

// notifyTaskChange emits a task-change event; failures are logged and
// swallowed, mirroring the printer service.
func (s *Server) notifyTaskChange(c *fiber.Ctx, ev queue.TaskChangeEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.TaskChanged(c.Context(), ev); err != nil {
		s.log.WithError(err).WithField("task_id", ev.TaskID).Warn("task-change notification dropped")
	}
}
