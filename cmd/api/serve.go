package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/civicdesk/grievance-service/internal/api/http"
	"github.com/civicdesk/grievance-service/internal/events"
	"github.com/civicdesk/grievance-service/internal/observability"
	"github.com/civicdesk/grievance-service/internal/service"
	"github.com/civicdesk/grievance-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap(ctx, true)
	if err != nil {
		return err
	}
	defer app.close()
	logger := app.logger

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(dispatcher, logger, app.cfg.Notification)

	authService := service.NewAuthService(app.cfg.Auth, service.AuthDependencies{
		UserRepo: app.users,
		Sessions: app.sessions,
		Logger:   logger,
	})
	grievanceService := service.NewGrievanceService(service.GrievanceDependencies{
		GrievanceRepo:            app.grievances,
		Dispatcher:               dispatcher,
		Logger:                   logger,
		ScopeRespondToDepartment: app.cfg.Auth.ScopeRespondToDepartment,
	})
	seedService := service.NewSeedService(app.users, authService.HashPassword, logger)

	server, err := httptransport.NewServer(httptransport.ServerConfig{
		Config:     app.cfg,
		Logger:     logger,
		Metrics:    observability.NewMetrics(),
		Auth:       authService,
		Grievances: grievanceService,
		Seed:       seedService,
		Checks:     app.checks,
	})
	if err != nil {
		return err
	}

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", app.cfg.App.Addr()), zap.String("storage", app.cfg.Storage.Driver))
		listenErr <- server.Listen(app.cfg.App.Addr())
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
		logger.Info("shutting down", zap.Error(context.Cause(ctx)))
	}

	return server.ShutdownWithTimeout(shutdownTimeout)
}
