package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/ibrah006/workflow-backend-sub000/internal/config"
	"github.com/ibrah006/workflow-backend-sub000/internal/signing"
	"github.com/ibrah006/workflow-backend-sub000/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg.LogLevel)

	var signer *signing.Signer
	if cfg.WebhookSecret != "" {
		signer = signing.NewSigner([]byte(cfg.WebhookSecret))
	}

	server := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, asynq.Config{
		Concurrency: cfg.NotifyConcurrency,
	})
	notifier := worker.NewNotifier(cfg.WebhookURL, signer, logger)

	go func() {
		<-ctx.Done()
		server.Shutdown()
	}()

	if err := server.Run(notifier.Handler()); err != nil {
		logger.WithError(err).Error("worker stopped")
		os.Exit(1)
	}
}
