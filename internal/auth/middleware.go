package auth

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/grievance-service/internal/domain"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Session *domain.Session
	User    *domain.User
}

// Role returns the role recorded on the session.
func (p *Principal) Role() domain.Role {
	return p.Session.Role
}

// SessionResolver maps a cookie token to the caller it belongs to.
type SessionResolver interface {
	ResolveCurrentUser(ctx context.Context, token string) (*Principal, bool)
}

// AuthMiddleware loads the principal for requests carrying a session cookie.
type AuthMiddleware struct {
	resolver   SessionResolver
	cookieName string
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(resolver SessionResolver, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver, cookieName: cookieName}
}

// Handle attaches the principal when the cookie resolves. Anonymous requests pass through;
// gating is left to RequireLogin.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token := c.Cookies(m.cookieName)
	if token == "" {
		return c.Next()
	}

	principal, ok := m.resolver.ResolveCurrentUser(c.UserContext(), token)
	if !ok {
		ExpireCookie(c, m.cookieName)
		return c.Next()
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// ExpireCookie instructs the browser to drop the named root-path cookie.
func ExpireCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Unix(0, 0),
	})
}

// CookieName returns the session cookie name.
func (m *AuthMiddleware) CookieName() string {
	return m.cookieName
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
