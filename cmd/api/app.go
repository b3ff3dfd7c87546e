package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/dominos-engine/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/dominos-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/dominos-engine/internal/adapters/metrics"
	"github.com/comitanigiacomo/dominos-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/dominos-engine/internal/adapters/storage"
	"github.com/comitanigiacomo/dominos-engine/internal/config"
	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
	"github.com/comitanigiacomo/dominos-engine/internal/core/services"
	"github.com/comitanigiacomo/dominos-engine/internal/core/workers"
)

const statsQueueSize = 100

type app struct {
	router    http.Handler
	worker    *workers.StatsWorker
	scheduler *workers.Scheduler
	closers   []func() error
	log       logrus.FieldLogger
}

// start launches the background stats worker and the rollover scheduler.
func (a *app) start(ctx context.Context) {
	a.worker.Start(ctx)
	a.scheduler.Start()
}

// close stops the scheduler and releases connections. The worker stops when the
// context given to start is cancelled.
func (a *app) close(ctx context.Context) {
	if a.scheduler != nil {
		a.scheduler.Stop(ctx)
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.WithError(err).Warn("Failed to close resource")
		}
	}
}

func connectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	return cache.NewRedisClient(ctx, cache.Options{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func openStore(ctx context.Context, cfg *config.Config, rdb *redis.Client, a *app, checks map[string]adapterHTTP.HealthCheck) (domain.KeyValueStore, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		a.log.Warn("Using in-memory storage, data is lost on restart")
		return storage.NewMemoryStore(), nil

	case config.BackendPostgres, config.BackendSQLite:
		driver, dsn := storage.DriverPostgres, cfg.Database.DSN()
		if cfg.StorageBackend == config.BackendSQLite {
			driver, dsn = storage.DriverSQLite, cfg.SQLitePath
		}

		a.log.WithField("driver", driver).Info("Connecting to database...")
		store, err := storage.OpenSQLStore(ctx, driver, dsn)
		if err != nil {
			return nil, err
		}
		if driver == storage.DriverPostgres {
			db := store.DB()
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(25)
			db.SetConnMaxLifetime(5 * time.Minute)
		}
		a.closers = append(a.closers, store.Close)
		checks["database"] = func(ctx context.Context) error { return store.DB().PingContext(ctx) }
		a.log.Info("Database connected successfully.")
		return store, nil

	case config.BackendRedis:
		return storage.NewRedisStore(rdb, cfg.Redis.Prefix), nil
	}
	return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
}

func buildApp(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*app, error) {
	a := &app{log: log}
	checks := make(map[string]adapterHTTP.HealthCheck)

	var rdb *redis.Client
	if cfg.NeedsRedis() || cfg.RateLimit > 0 {
		client, err := connectRedis(ctx, cfg)
		switch {
		case err == nil:
			rdb = client
			a.closers = append(a.closers, client.Close)
			checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		case cfg.NeedsRedis():
			return nil, err
		default:
			log.WithError(err).Warn("Redis unavailable, rate limiting disabled")
		}
	}

	store, err := openStore(ctx, cfg, rdb, a, checks)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	if cfg.CacheEnabled && cfg.StorageBackend != config.BackendRedis && cfg.StorageBackend != config.BackendMemory {
		log.WithField("ttl", cfg.CacheTTL).Info("Redis read-through cache enabled")
		store = storage.NewCachedStore(store, rdb, cfg.CacheTTL, log)
	}

	loc, err := cfg.Location()
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	userRepo := repository.NewKVUserRepository(store)
	habitRepo := repository.NewKVHabitRepository(store)
	diaryRepo := repository.NewKVDiaryRepository(store)
	settingsRepo := repository.NewKVSettingsRepository(store)

	calendar := services.NewCalendar(time.Now, userRepo, loc)
	tokenService := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL, userRepo)

	// statistics read through their own queue-less habit service
	statsService := services.NewStatsService(
		services.NewHabitService(habitRepo, settingsRepo, calendar, nil, log),
		calendar,
		cfg.DominoCount,
	)

	m := metrics.New()
	a.worker = workers.NewStatsWorker(statsService, m, statsQueueSize, log)

	a.scheduler, err = workers.NewScheduler(cfg.RolloverCron, loc, userRepo, a.worker, log)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	habitService := services.NewHabitService(habitRepo, settingsRepo, calendar, a.worker, log)
	diaryService := services.NewDiaryService(diaryRepo, calendar, log)
	settingsService := services.NewSettingsService(settingsRepo, log)
	authService := services.NewAuthService(userRepo)

	a.router = adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(authService, tokenService),
		HabitHandler:    adapterHTTP.NewHabitHandler(habitService),
		StatsHandler:    adapterHTTP.NewStatsHandler(statsService),
		DiaryHandler:    adapterHTTP.NewDiaryHandler(diaryService),
		SettingsHandler: adapterHTTP.NewSettingsHandler(settingsService),
		TokenService:    tokenService,
		Metrics:         m,
		Redis:           rdb,
		RateLimit:       cfg.RateLimit,
		HealthChecks:    checks,
		Log:             log,
		StartTime:       time.Now(),
	})

	return a, nil
}
