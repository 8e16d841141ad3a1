package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ibrah006/workflow-backend-sub000/internal/model"
)

const scopeKey = "scope"

// RequireScope resolves the caller identity from the headers set by the
// upstream auth gateway. The API never verifies credentials itself; it only
// refuses to run without a resolved organization.
func RequireScope() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope := model.Scope{
			UserID:         c.Get("X-User-ID"),
			OrganizationID: c.Get("X-Organization-ID"),
		}
		if scope.OrganizationID == "" {
			return respondError(c, fiber.StatusUnauthorized, "missing organization scope")
		}
		c.Locals(scopeKey, scope)
		return c.Next()
	}
}

func scopeFrom(c *fiber.Ctx) model.Scope {
	if s, ok := c.Locals(scopeKey).(model.Scope); ok {
		return s
	}
	return model.Scope{}
}

// RequestLogger emits one structured log line per request.
func RequestLogger(log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := uuid.NewString()
		c.Locals("requestid", requestID)

		err := c.Next()

		entry := log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"http_method": c.Method(),
			"uri":         c.OriginalURL(),
			"status_code": c.Response().StatusCode(),
			"latency_ms":  time.Since(start).Milliseconds(),
			"client_ip":   c.IP(),
		})
		if err != nil {
			entry.WithField("error", err.Error()).Error("request failed")
			return err
		}
		switch code := c.Response().StatusCode(); {
		case code >= 500:
			entry.Error("request completed with server error")
		case code >= 400:
			entry.Warn("request completed with client error")
		default:
			entry.Info("request completed")
		}
		return nil
	}
}
