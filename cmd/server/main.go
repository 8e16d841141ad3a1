package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/ibrah006/workflow-backend-sub000/internal/api"
	"github.com/ibrah006/workflow-backend-sub000/internal/config"
	"github.com/ibrah006/workflow-backend-sub000/internal/database"
	"github.com/ibrah006/workflow-backend-sub000/internal/printer"
	"github.com/ibrah006/workflow-backend-sub000/internal/progress"
	"github.com/ibrah006/workflow-backend-sub000/internal/queue"
	"github.com/ibrah006/workflow-backend-sub000/internal/report"
	"github.com/ibrah006/workflow-backend-sub000/internal/repository"
	"github.com/ibrah006/workflow-backend-sub000/internal/s3storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg.LogLevel)

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("connect database")
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		logger.WithError(err).Fatal("ensure schema")
	}

	printers := repository.NewPrinterRepository(pool)
	projects := repository.NewProjectRepository(pool)
	tasks := repository.NewTaskRepository(pool)
	logs := repository.NewProgressLogRepository(pool)
	attachments := repository.NewAttachmentRepository(pool)

	store, err := s3storage.New(cfg)
	if err != nil {
		logger.WithError(err).Fatal("init storage")
	}
	if err := store.EnsureBucket(ctx); err != nil {
		logger.WithError(err).Fatal("ensure bucket")
	}

	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer queueClient.Close()
	events := queue.NewEvents(queueClient)

	printerSvc := printer.NewService(repository.NewTxStore(pool), events, logger, nil)
	progressSvc := progress.NewService(&repository.ProgressStore{
		Projects: projects,
		Logs:     logs,
		Tasks:    tasks,
	}, nil)
	reportSvc := report.NewService(&repository.ReportStore{
		PrintersRepo: printers,
		ProjectsRepo: projects,
		TasksRepo:    tasks,
	}, progressSvc, nil)

	srv := api.New(api.Deps{
		Config:      cfg,
		Log:         logger,
		Printers:    printers,
		Projects:    projects,
		Tasks:       tasks,
		Logs:        logs,
		Attachments: attachments,
		PrinterSvc:  printerSvc,
		ProgressSvc: progressSvc,
		ReportSvc:   reportSvc,
		Store:       store,
		Events:      events,
	})
	if err := srv.Run(ctx); err != nil {
		logger.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}
