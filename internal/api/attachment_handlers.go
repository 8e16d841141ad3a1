package api

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ibrah006/workflow-backend-sub000/internal/model"
)

func (s *Server) uploadAttachment(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	taskID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "task id must be an integer")
	}
	if _, err := s.tasks.Get(c.Context(), scope.OrganizationID, taskID); err != nil {
		return respondServiceError(c, err)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "expecting multipart form with a 'file' field")
	}
	if fileHeader.Size > s.cfg.MaxAttachmentSize {
		return respondError(c, fiber.StatusBadRequest, fmt.Sprintf("file exceeds limit (%d bytes)", s.cfg.MaxAttachmentSize))
	}
	f, err := fileHeader.Open()
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "cannot read uploaded file")
	}
	defer f.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	attachmentID := uuid.NewString()
	objectKey := fmt.Sprintf("tasks/%d/%s/%s", taskID, attachmentID, filepath.Base(fileHeader.Filename))
	if err := s.store.Upload(c.Context(), objectKey, f, fileHeader.Size, contentType); err != nil {
		s.log.WithError(err).Error("upload attachment to storage")
		return respondError(c, fiber.StatusInternalServerError, "failed to store file")
	}
	a := &model.Attachment{
		ID:          attachmentID,
		TaskID:      taskID,
		FileName:    fileHeader.Filename,
		ObjectKey:   objectKey,
		Size:        fileHeader.Size,
		ContentType: contentType,
	}
	if err := s.attachments.Create(c.Context(), a); err != nil {
		s.log.WithError(err).Error("store attachment metadata")
		return respondServiceError(c, err)
	}
	return respondJSON(c, fiber.StatusCreated, a)
}

func (s *Server) listAttachments(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	taskID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "task id must be an integer")
	}
	if _, err := s.tasks.Get(c.Context(), scope.OrganizationID, taskID); err != nil {
		return respondServiceError(c, err)
	}
	out, err := s.attachments.ListByTask(c.Context(), taskID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if out == nil {
		out = []model.Attachment{}
	}
	return respondJSON(c, fiber.StatusOK, out)
}

func (s *Server) deleteAttachment(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	taskID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "task id must be an integer")
	}
	if _, err := s.tasks.Get(c.Context(), scope.OrganizationID, taskID); err != nil {
		return respondServiceError(c, err)
	}
	a, err := s.attachments.Get(c.Context(), taskID, c.Params("attachmentId"))
	if err != nil {
		return respondServiceError(c, err)
	}
	if err := s.attachments.Delete(c.Context(), taskID, a.ID); err != nil {
		return respondServiceError(c, err)
	}
	// Metadata is authoritative; a failed object removal only leaks storage.
	if err := s.store.Remove(c.Context(), a.ObjectKey); err != nil {
		s.log.WithError(err).WithField("object_key", a.ObjectKey).Warn("remove attachment object")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) attachmentURL(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	taskID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "task id must be an integer")
	}
	if _, err := s.tasks.Get(c.Context(), scope.OrganizationID, taskID); err != nil {
		return respondServiceError(c, err)
	}
	a, err := s.attachments.Get(c.Context(), taskID, c.Params("attachmentId"))
	if err != nil {
		return respondServiceError(c, err)
	}
	url, err := s.store.PresignURL(c.Context(), a.ObjectKey, s.cfg.SignedURLTTL)
	if err != nil {
		s.log.WithError(err).Error("presign attachment url")
		return respondError(c, fiber.StatusInternalServerError, "failed to generate url")
	}
	return respondJSON(c, fiber.StatusOK, fiber.Map{"url": url})
}
