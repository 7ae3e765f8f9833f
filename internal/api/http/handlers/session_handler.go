package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/civicdesk/grievance-service/internal/api/dto"
	"github.com/civicdesk/grievance-service/internal/api/flash"
	"github.com/civicdesk/grievance-service/internal/auth"
	"github.com/civicdesk/grievance-service/internal/config"
	"github.com/civicdesk/grievance-service/internal/service"
)

const (
	loginFailedMessage      = "Login failed. Please check your username and password."
	adminLoginFailedMessage = "Admin login failed. Please check your username and password."
)

// SessionHandler exposes login and logout for citizens and admins.
type SessionHandler struct {
	auth   *service.AuthService
	cookie config.AuthConfig
	logger *zap.Logger
}

// NewSessionHandler constructs handler.
func NewSessionHandler(authService *service.AuthService, cfg config.AuthConfig, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{auth: authService, cookie: cfg, logger: logger}
}

// LoginForm GET /login.
func (h *SessionHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, http.StatusOK, "login", fiber.Map{"Next": c.Query("next")})
}

// Login POST /login.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	next := c.Query("next")
	var form dto.LoginForm
	if err := c.BodyParser(&form); err != nil {
		flash.Add(c, flash.CategoryDanger, loginFailedMessage)
		return render(c, http.StatusOK, "login", fiber.Map{"Next": next})
	}

	result, err := h.auth.Login(c.UserContext(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			flash.Add(c, flash.CategoryDanger, loginFailedMessage)
			return render(c, http.StatusOK, "login", fiber.Map{"Next": next})
		}
		return err
	}

	h.replaceSession(c, result)
	return c.Redirect(auth.SafeNext(next, "/"), fiber.StatusFound)
}

// AdminLoginForm GET /admin/login.
func (h *SessionHandler) AdminLoginForm(c *fiber.Ctx) error {
	return render(c, http.StatusOK, "admin_login", nil)
}

// AdminLogin POST /admin/login.
func (h *SessionHandler) AdminLogin(c *fiber.Ctx) error {
	var form dto.LoginForm
	if err := c.BodyParser(&form); err != nil {
		flash.Add(c, flash.CategoryDanger, adminLoginFailedMessage)
		return render(c, http.StatusOK, "admin_login", nil)
	}

	result, err := h.auth.AdminLogin(c.UserContext(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			flash.Add(c, flash.CategoryDanger, adminLoginFailedMessage)
			return render(c, http.StatusOK, "admin_login", nil)
		}
		return err
	}

	h.replaceSession(c, result)
	return c.Redirect("/admin/dashboard", fiber.StatusFound)
}

// Logout GET /logout.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.auth.Logout(c.UserContext(), principal); err != nil {
		return err
	}
	auth.ExpireCookie(c, h.cookie.CookieName)
	flash.Add(c, flash.CategoryInfo, "You have been logged out.")
	return flash.Redirect(c, "/")
}

// replaceSession drops any session the browser already holds and sets the new cookie.
func (h *SessionHandler) replaceSession(c *fiber.Ctx, result *service.LoginResult) {
	if previous, ok := auth.PrincipalFromContext(c); ok {
		if err := h.auth.Logout(c.UserContext(), previous); err != nil {
			h.logger.Warn("drop previous session", zap.Error(err))
		}
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.CookieName,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
