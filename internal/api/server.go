package api

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"

	"github.com/ibrah006/workflow-backend-sub000/internal/config"
	"github.com/ibrah006/workflow-backend-sub000/internal/printer"
	"github.com/ibrah006/workflow-backend-sub000/internal/progress"
	"github.com/ibrah006/workflow-backend-sub000/internal/report"
	"github.com/ibrah006/workflow-backend-sub000/internal/repository"
	"github.com/ibrah006/workflow-backend-sub000/internal/s3storage"
)

// Server wires handlers, services and repositories onto a fiber app.
type Server struct {
	cfg      *config.Config
	log      *logrus.Logger
	validate *validator.Validate

	printers    *repository.PrinterRepository
	projects    *repository.ProjectRepository
	tasks       *repository.TaskRepository
	logs        *repository.ProgressLogRepository
	attachments *repository.AttachmentRepository

	printerSvc  *printer.Service
	progressSvc *progress.Service
	reportSvc   *report.Service
	store       *s3storage.Storage
	events      printer.Notifier

	app *fiber.App
}

// Deps bundles the constructor dependencies.
type Deps struct {
	Config      *config.Config
	Log         *logrus.Logger
	Printers    *repository.PrinterRepository
	Projects    *repository.ProjectRepository
	Tasks       *repository.TaskRepository
	Logs        *repository.ProgressLogRepository
	Attachments *repository.AttachmentRepository
	PrinterSvc  *printer.Service
	ProgressSvc *progress.Service
	ReportSvc   *report.Service
	Store       *s3storage.Storage
	Events      printer.Notifier
}

// New constructs a Server and registers its routes.
func New(d Deps) *Server {
	s := &Server{
		cfg:         d.Config,
		log:         d.Log,
		validate:    validator.New(),
		printers:    d.Printers,
		projects:    d.Projects,
		tasks:       d.Tasks,
		logs:        d.Logs,
		attachments: d.Attachments,
		printerSvc:  d.PrinterSvc,
		progressSvc: d.ProgressSvc,
		reportSvc:   d.ReportSvc,
		store:       d.Store,
		events:      d.Events,
	}
	app := fiber.New(fiber.Config{
		BodyLimit: int(d.Config.MaxAttachmentSize),
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-User-ID, X-Organization-ID",
	}))
	app.Use(RequestLogger(d.Log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	apiV1 := app.Group("/api/v1", RequireScope())

	apiV1.Post("/printers", s.createPrinter)
	apiV1.Get("/printers", s.listPrinters)
	apiV1.Get("/printers/:id", s.getPrinter)
	apiV1.Patch("/printers/:id", s.updatePrinter)
	apiV1.Delete("/printers/:id", s.deletePrinter)
	apiV1.Patch("/printers/:id/status", s.changePrinterStatus)
	apiV1.Patch("/printers/:id/task", s.assignPrinterTask)

	apiV1.Post("/projects", s.createProject)
	apiV1.Get("/projects", s.listProjects)
	apiV1.Get("/projects/:id", s.getProject)
	apiV1.Get("/projects/:id/progress-rate", s.projectProgressRate)
	apiV1.Post("/projects/:id/tasks", s.createTask)
	apiV1.Get("/projects/:id/tasks", s.listProjectTasks)
	apiV1.Post("/projects/:id/progress-logs", s.createProgressLog)
	apiV1.Get("/projects/:id/progress-logs", s.listProgressLogs)
	apiV1.Patch("/projects/:id/progress-logs/:logId", s.updateProgressLog)
	apiV1.Get("/progress-rate", s.organizationProgressRate)

	apiV1.Patch("/tasks/:id/status", s.updateTaskStatus)

	apiV1.Get("/reports/production", s.productionReport)
	apiV1.Get("/reports/projects", s.projectReport)

	apiV1.Post("/tasks/:id/attachments", s.uploadAttachment)
	apiV1.Get("/tasks/:id/attachments", s.listAttachments)
	apiV1.Get("/tasks/:id/attachments/:attachmentId/url", s.attachmentURL)
	apiV1.Delete("/tasks/:id/attachments/:attachmentId", s.deleteAttachment)

	s.app = app
	return s
}

// Run starts the server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.app.Shutdown()
	}()
	s.log.WithField("address", s.cfg.Address).Info("api listening")
	return s.app.Listen(s.cfg.Address)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
