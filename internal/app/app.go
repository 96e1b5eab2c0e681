// Package app assembles the profile store, lookups and services from configuration.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/pageza/allergyaid/backend/config"
	"github.com/pageza/allergyaid/backend/internal/crossreact"
	"github.com/pageza/allergyaid/backend/internal/database"
	"github.com/pageza/allergyaid/backend/internal/openfoodfacts"
	"github.com/pageza/allergyaid/backend/internal/scan"
	"github.com/pageza/allergyaid/backend/internal/service"
	"github.com/pageza/allergyaid/backend/internal/store"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds everything the server and tools share. DB, Redis and Backup are
// nil when the configuration does not call for them.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	DB    *gorm.DB
	Redis *redis.Client

	Store    *store.ProfileStore
	Resolver *crossreact.Resolver
	Lookup   *openfoodfacts.Client

	Profile *service.ProfileService
	Scan    *service.ScanService
	Backup  *service.BackupService
}

// New connects the configured backends and builds the services. On error
// anything already opened is closed.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (_ *App, err error) {
	a := &App{Config: cfg, Logger: log}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	if database.RedisConfigured(cfg) {
		client, rerr := database.NewRedisClient(cfg, log)
		if rerr != nil {
			if cfg.StoreBackend == config.StoreRedis {
				return nil, rerr
			}
			log.Warn("Redis unavailable, continuing without product cache and rate limiting", zap.Error(rerr))
		} else {
			a.Redis = client
		}
	}

	kv, err := a.openKV()
	if err != nil {
		return nil, err
	}
	a.Store = store.NewProfileStore(kv, log.Named("store"))

	table := crossreact.DefaultTable
	if cfg.CrossReactivityTable != "" {
		if table, err = crossreact.LoadTable(cfg.CrossReactivityTable); err != nil {
			return nil, err
		}
		log.Info("Loaded cross-reactivity table", zap.String("path", cfg.CrossReactivityTable), zap.Int("entries", len(table)))
	}
	a.Resolver = crossreact.NewResolver(table)

	var cache *openfoodfacts.ProductCache
	if a.Redis != nil {
		cache = openfoodfacts.NewProductCache(a.Redis, cfg.ProductCacheTTL, log.Named("product_cache"))
	}
	a.Lookup = openfoodfacts.NewClient(cfg.OpenFoodFactsURL, cfg.LookupTimeout, cache, log.Named("openfoodfacts"))

	a.Profile = service.NewProfileService(a.Store, a.Resolver)
	a.Scan = service.NewScanService(a.Store, a.Lookup, scan.NewScanner(a.Resolver), log.Named("scan"))

	if cfg.BackupsEnabled() {
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.Backup = service.NewBackupService(a.Store, s3cfg.Client, s3cfg.BucketName, cfg.BackupKeep, log.Named("backup"))
	}

	if cfg.SeedDefaults && a.Store.Initialize(ctx) {
		log.Info("Seeded default allergen profile")
	}
	return a, nil
}

func (a *App) openKV() (store.KV, error) {
	switch a.Config.StoreBackend {
	case config.StoreGorm:
		db, err := database.New(a.Config, a.Logger)
		if err != nil {
			return nil, err
		}
		a.DB = db
		if err := database.RunMigrations(db); err != nil {
			return nil, err
		}
		return store.NewGormKV(db), nil
	case config.StoreRedis:
		if a.Redis == nil {
			return nil, errors.New("redis store selected but Redis is not configured")
		}
		return store.NewRedisKV(a.Redis, a.Config.RedisPrefix), nil
	case config.StoreMemory:
		a.Logger.Warn("Using in-memory profile store; data is lost on exit")
		return store.NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", a.Config.StoreBackend)
	}
}

// Health pings the backends the profile store depends on.
func (a *App) Health(ctx context.Context) error {
	if a.DB != nil {
		if err := database.HealthCheck(ctx, a.DB); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if a.Config.StoreBackend == config.StoreRedis && a.Redis != nil {
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// Close releases database and Redis connections.
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
