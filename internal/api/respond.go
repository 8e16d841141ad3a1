// Package api exposes the HTTP surface: printer CRUD and lifecycle
// operations, project progress queries, production reports and task
// attachments.
package api

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/ibrah006/workflow-backend-sub000/internal/model"
)

// respondJSON sends the standard success envelope.
func respondJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

// respondError sends the standard error envelope.
func respondError(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

// respondServiceError maps error kinds onto status codes.
func respondServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return respondError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrInvalidInput):
		return respondError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrConflict):
		return respondError(c, fiber.StatusConflict, err.Error())
	}
	return respondError(c, fiber.StatusInternalServerError, "internal server error")
}

// formatValidationErrors flattens validator/v10 errors into messages.
func formatValidationErrors(err error) []string {
	var out []string
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			msg := fmt.Sprintf("field '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
			if fe.Param() != "" {
				msg = fmt.Sprintf("%s (param: %s)", msg, fe.Param())
			}
			out = append(out, msg)
		}
		return out
	}
	return []string{err.Error()}
}
