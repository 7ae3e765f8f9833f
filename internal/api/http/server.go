package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/civicdesk/grievance-service/internal/api/flash"
	"github.com/civicdesk/grievance-service/internal/api/http/handlers"
	"github.com/civicdesk/grievance-service/internal/auth"
	"github.com/civicdesk/grievance-service/internal/config"
	"github.com/civicdesk/grievance-service/internal/observability"
	"github.com/civicdesk/grievance-service/internal/service"
	"github.com/civicdesk/grievance-service/internal/views"
)

// ServerConfig is the application context handed to the HTTP layer.
type ServerConfig struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Auth       *service.AuthService
	Grievances *service.GrievanceService
	Seed       *service.SeedService
	Checks     []handlers.DependencyCheck
}

// NewServer builds the fiber app with views, middlewares and routes registered.
func NewServer(cfg ServerConfig) (*fiber.App, error) {
	engine, err := views.New()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.Config.App.Name,
		Views:                 engine,
		ViewsLayout:           views.Layout,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, logger, cfg.Metrics, cfg.Config.App.RequestTimeout())
	app.Use(flash.New(flash.Config{CookieSecure: cfg.Config.Auth.CookieSecure}))

	authMiddleware := auth.NewAuthMiddleware(cfg.Auth, cfg.Config.Auth.CookieName)
	app.Use(authMiddleware.Handle)

	RegisterRoutes(app, RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.Config.App.Name, cfg.Config.App.Version, cfg.Metrics, cfg.Checks...),
		Home:        handlers.NewHomeHandler(),
		Departments: handlers.NewDepartmentHandler(cfg.Grievances),
		Sessions:    handlers.NewSessionHandler(cfg.Auth, cfg.Config.Auth, logger),
		Admin:       handlers.NewAdminHandler(cfg.Grievances),
		Seed:        handlers.NewSeedHandler(cfg.Seed),
	})
	return app, nil
}
