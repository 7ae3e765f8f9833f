package auth

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/grievance-service/internal/api/flash"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

// RequireLogin redirects anonymous callers to the login page, remembering the original path.
func RequireLogin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); ok {
			return c.Next()
		}
		flash.Add(c, flash.CategoryInfo, "Please log in to access this page.")
		return flash.Redirect(c, LoginPath+"?next="+url.QueryEscape(c.OriginalURL()))
	}
}

// SafeNext returns next when it is a local absolute path, otherwise fallback. Control
// characters are refused because browsers strip them, turning "/\t/host" into "//host".
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return fallback
	}
	for i := 0; i < len(next); i++ {
		if next[i] < 0x20 || next[i] == 0x7f {
			return fallback
		}
	}
	parsed, err := url.Parse(next)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return fallback
	}
	return next
}
