package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/grievance-service/internal/api/flash"
	"github.com/civicdesk/grievance-service/internal/auth"
)

var pageTitles = map[string]string{
	"index":             "Departments",
	"login":             "Login",
	"admin_login":       "Admin Login",
	"admin_dashboard":   "Dashboard",
	"respond_grievance": "Respond",
}

// render executes the page inside the layout configured on the app.
func render(c *fiber.Ctx, status int, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if _, ok := data["Title"]; !ok {
		data["Title"] = pageTitles[name]
	}
	if principal, ok := auth.PrincipalFromContext(c); ok {
		data["CurrentUser"] = principal.User
	}
	data["Flashes"] = flash.Consume(c)
	c.Status(status)
	return c.Render(name, data)
}

// RenderError renders the shared error page.
func RenderError(c *fiber.Ctx, status int, message string) error {
	return render(c, status, "error", fiber.Map{
		"Title":      strconv.Itoa(status),
		"Status":     status,
		"StatusText": http.StatusText(status),
		"Message":    message,
	})
}

// denyAccess is the response for authenticated callers lacking the admin role.
func denyAccess(c *fiber.Ctx) error {
	flash.Add(c, flash.CategoryDanger, "Access denied.")
	return flash.Redirect(c, "/")
}
