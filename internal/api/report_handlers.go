package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ibrah006/workflow-backend-sub000/internal/report"
)

func (s *Server) productionReport(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	key, err := report.ParseProductionWindow(c.Query("for", string(report.WindowToday)))
	if err != nil {
		return respondServiceError(c, err)
	}
	rep, err := s.reportSvc.Production(c.Context(), scope, key)
	if err != nil {
		s.log.WithError(err).Error("build production report")
		return respondServiceError(c, err)
	}
	return respondJSON(c, fiber.StatusOK, rep)
}

func (s *Server) projectReport(c *fiber.Ctx) error {
	scope := scopeFrom(c)
	key, err := report.ParseProjectWindow(c.Query("for", string(report.WindowThisWeek)))
	if err != nil {
		return respondServiceError(c, err)
	}
	rep, err := s.reportSvc.Projects(c.Context(), scope, key)
	if err != nil {
		s.log.WithError(err).Error("build project report")
		return respondServiceError(c, err)
	}
	return respondJSON(c, fiber.StatusOK, rep)
}
