package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/pageza/allergyaid/backend/config"
	"github.com/pageza/allergyaid/backend/internal/app"
	"github.com/pageza/allergyaid/backend/internal/logging"
	"github.com/pageza/allergyaid/backend/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer func() { _ = a.Close() }()

	if a.Backup != nil && cfg.BackupSchedule != "" {
		scheduler := cron.New()
		if _, err := scheduler.AddFunc(cfg.BackupSchedule, func() {
			logger.Info("Running scheduled profile backup")
			key, err := a.Backup.Run(context.Background())
			if err != nil {
				logger.Error("Scheduled backup failed", zap.Error(err))
				return
			}
			logger.Info("Scheduled backup completed", zap.String("key", key))
		}); err != nil {
			logger.Fatal("Invalid backup schedule", zap.String("schedule", cfg.BackupSchedule), zap.Error(err))
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info("Backup schedule active", zap.String("schedule", cfg.BackupSchedule))
	}

	srv := server.New(cfg, a)
	if err := srv.Run(ctx); err != nil {
		logger.Error("Server error", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}
