package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/pageza/allergyaid/backend/config"
	"github.com/pageza/allergyaid/backend/internal/database"
	"github.com/pageza/allergyaid/backend/internal/logging"
	"github.com/pageza/allergyaid/backend/internal/store"
)

func main() {
	seed := flag.Bool("seed", true, "Seed the default allergen profile when it is empty")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.StoreBackend != config.StoreGorm {
		log.Fatalf("STORE_BACKEND is %q; migrations only apply to the gorm store", cfg.StoreBackend)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := database.RunMigrations(db); err != nil {
		logger.Fatal("Migration failed", zap.Error(err))
	}
	logger.Info("Migrations applied")

	if !*seed {
		return
	}
	ps := store.NewProfileStore(store.NewGormKV(db), logger)
	if ps.Initialize(context.Background()) {
		logger.Info("Seeded default allergen profile")
	} else {
		logger.Info("Allergen profile already present, nothing seeded")
	}
}
