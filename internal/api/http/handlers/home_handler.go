package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/grievance-service/internal/domain"
)

// HomeHandler serves the department catalog.
type HomeHandler struct{}

// NewHomeHandler constructs handler.
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Index GET /.
func (h *HomeHandler) Index(c *fiber.Ctx) error {
	return render(c, http.StatusOK, "index", fiber.Map{"Departments": domain.Departments()})
}
