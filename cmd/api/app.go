package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/civicdesk/grievance-service/internal/api/http/handlers"
	"github.com/civicdesk/grievance-service/internal/auth"
	"github.com/civicdesk/grievance-service/internal/config"
	"github.com/civicdesk/grievance-service/internal/observability"
	"github.com/civicdesk/grievance-service/internal/persistence"
	"github.com/civicdesk/grievance-service/internal/repository"
)

// application is the process-wide context built once at startup.
type application struct {
	cfg        *config.Config
	logger     *zap.Logger
	users      repository.UserRepository
	grievances repository.GrievanceRepository
	sessions   auth.SessionStore
	checks     []handlers.DependencyCheck
	closers    []func()
}

func bootstrap(ctx context.Context, withSessions bool) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Printf("failed to init logger: %v", err)
		return nil, err
	}

	app := &application{cfg: cfg, logger: logger}
	if err := app.openStore(ctx); err != nil {
		app.close()
		return nil, err
	}
	if withSessions {
		app.openSessions(ctx)
	}
	return app, nil
}

func (a *application) openStore(ctx context.Context) error {
	switch a.cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, a.cfg.Postgres, a.logger)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, pg.Close)

		if a.cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), a.logger); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
		}

		pool := pg.PoolHandle()
		a.users = repository.NewUserRepository(pool)
		a.grievances = repository.NewGrievanceRepository(pool)
		a.checks = append(a.checks, handlers.DependencyCheck{Name: "postgres", Ping: pg.Ping})
	default:
		store, err := persistence.NewSQLite(a.cfg.Storage.SQLitePath, a.logger, repository.Models()...)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		a.closers = append(a.closers, store.Close)

		a.users = repository.NewGormUserRepository(store.DB)
		a.grievances = repository.NewGormGrievanceRepository(store.DB)
		a.checks = append(a.checks, handlers.DependencyCheck{Name: "sqlite", Ping: store.Ping})
	}
	return nil
}

// openSessions prefers Redis when configured and falls back to the in-process store.
func (a *application) openSessions(ctx context.Context) {
	if a.cfg.Auth.SessionStore == config.SessionStoreRedis {
		rdb, err := persistence.NewRedis(ctx, a.cfg.Redis, a.logger)
		if err == nil {
			a.closers = append(a.closers, rdb.Close)
			a.sessions = auth.NewRedisSessionStore(rdb.Client)
			a.checks = append(a.checks, handlers.DependencyCheck{Name: "redis", Ping: rdb.Ping})
			return
		}
		a.logger.Warn("redis unavailable, using in-memory sessions", zap.String("addr", a.cfg.Redis.Addr), zap.Error(err))
	}
	a.sessions = auth.NewMemorySessionStore()
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	_ = a.logger.Sync()
}
