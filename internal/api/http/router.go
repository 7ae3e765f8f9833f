package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/grievance-service/internal/api/http/handlers"
	"github.com/civicdesk/grievance-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Home        *handlers.HomeHandler
	Departments *handlers.DepartmentHandler
	Sessions    *handlers.SessionHandler
	Admin       *handlers.AdminHandler
	Seed        *handlers.SeedHandler
}

// RegisterRoutes wires HTTP routes. Login is enforced per route so unknown paths, including
// non-numeric grievance ids, 404 before any auth check.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	health := app.Group("/health")
	health.Get("/live", cfg.Health.Live)
	health.Get("/ready", cfg.Health.Ready)
	health.Get("/metrics", cfg.Health.Metrics)

	loginRequired := auth.RequireLogin()

	app.Get("/", cfg.Home.Index)
	app.Get("/department/:name", loginRequired, cfg.Departments.Show)
	app.Post("/department/:name", loginRequired, cfg.Departments.Submit)

	app.Get(auth.LoginPath, cfg.Sessions.LoginForm)
	app.Post(auth.LoginPath, cfg.Sessions.Login)
	app.Get("/logout", loginRequired, cfg.Sessions.Logout)

	admin := app.Group("/admin")
	admin.Get("/login", cfg.Sessions.AdminLoginForm)
	admin.Post("/login", cfg.Sessions.AdminLogin)
	admin.Get("/dashboard", loginRequired, cfg.Admin.Dashboard)
	admin.Get("/respond/:id<int>", loginRequired, cfg.Admin.RespondForm)
	admin.Post("/respond/:id<int>", loginRequired, cfg.Admin.Respond)

	app.Get("/create_test_user", cfg.Seed.CreateTestUser)
}
