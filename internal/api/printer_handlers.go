package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ibrah006/workflow-backend-sub000/internal/model"
)

// CreatePrinterRequest is the body for registering a printer.
type CreatePrinterRequest struct {
	Name             string  `json:"name" validate:"required"`
	Model            *string `json:"model,omitempty"`
	ScheduledMinutes int64   `json:"scheduledMinutes" validate:"gte=0"`
}

// UpdatePrinterRequest carries the operator-editable fields; omitted fields
// are left unchanged.
type UpdatePrinterRequest struct {
	Name             *string `json:"name,omitempty"`
	Model            *string `json:"model,omitempty"`
	ScheduledMinutes *int64  `json:"scheduledMinutes,omitempty" validate:"omitempty,gte=0"`
}

// ChangeStatusRequest selects the target printer status.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (s *Server) createPrinter(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	req := new(CreatePrinterRequest)
	if err := c.BodyParser(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, fmt.Sprintf("cannot parse printer JSON: %v", err))
	}
	if err := s.validate.Struct(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, strings.Join(formatValidationErrors(err), "; "))
	}
	p := &model.Printer{
		ID:               uuid.NewString(),
		OrganizationID:   scope.OrganizationID,
		Name:             req.Name,
		Model:            req.Model,
		ScheduledMinutes: req.ScheduledMinutes,
	}
	if err := s.printers.Create(c.Context(), p); err != nil {
		s.log.WithError(err).Error("create printer")
		return respondServiceError(c, err)
	}
	return respondJSON(c, fiber.StatusCreated, p)
}

func (s *Server) listPrinters(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	printers, err := s.printers.List(c.Context(), scope.OrganizationID)
	if err != nil {
		s.log.WithError(err).Error("list printers")
		return respondServiceError(c, err)
	}
	if printers == nil {
		printers = []model.Printer{}
	}
	return respondJSON(c, fiber.StatusOK, printers)
}

func (s *Server) getPrinter(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	p, err := s.printers.Get(c.Context(), scope.OrganizationID, c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondJSON(c, fiber.StatusOK, p)
}

func (s *Server) updatePrinter(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	req := new(UpdatePrinterRequest)
	if err := c.BodyParser(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, fmt.Sprintf("cannot parse printer JSON: %v", err))
	}
	if err := s.validate.Struct(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, strings.Join(formatValidationErrors(err), "; "))
	}
	p, err := s.printers.UpdateMeta(c.Context(), scope.OrganizationID, c.Params("id"), req.Name, req.Model, req.ScheduledMinutes)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondJSON(c, fiber.StatusOK, p)
}

func (s *Server) deletePrinter(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	if err := s.printers.Delete(c.Context(), scope.OrganizationID, c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) changePrinterStatus(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	req := new(ChangeStatusRequest)
	if err := c.BodyParser(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, fmt.Sprintf("cannot parse status JSON: %v", err))
	}
	status, err := model.ParsePrinterStatus(req.Status)
	if err != nil {
		return respondServiceError(c, err)
	}
	p, err := s.printerSvc.ChangeStatus(c.Context(), scope, c.Params("id"), status)
	if err != nil {
		s.log.WithError(err).WithField("printer_id", c.Params("id")).Error("change printer status")
		return respondServiceError(c, err)
	}
	return respondJSON(c, fiber.StatusOK, p)
}

func (s *Server) assignPrinterTask(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	body := c.Body()
	if len(body) == 0 {
		return respondError(c, fiber.StatusBadRequest, "missing request body")
	}
	// The taskId key must be present: an explicit null releases the current
	// task, so an omitted field is rejected rather than read as a release.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return respondError(c, fiber.StatusBadRequest, fmt.Sprintf("cannot parse assignment JSON: %v", err))
	}
	raw, ok := fields["taskId"]
	if !ok {
		return respondError(c, fiber.StatusBadRequest, "taskId is required; send null to release the current task")
	}
	var taskID *int64
	if err := json.Unmarshal(raw, &taskID); err != nil {
		return respondError(c, fiber.StatusBadRequest, "taskId must be an integer or null")
	}
	p, err := s.printerSvc.AssignTask(c.Context(), scope, c.Params("id"), taskID)
	if err != nil {
		s.log.WithError(err).WithField("printer_id", c.Params("id")).Error("assign printer task")
		return respondServiceError(c, err)
	}
	return respondJSON(c, fiber.StatusOK, p)
}
