package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/grievance-service/internal/service"
)

// SeedHandler bootstraps demo accounts.
type SeedHandler struct {
	seed *service.SeedService
}

// NewSeedHandler constructs handler.
func NewSeedHandler(seed *service.SeedService) *SeedHandler {
	return &SeedHandler{seed: seed}
}

// CreateTestUser GET /create_test_user. A repeat call surfaces the conflict as an error page.
func (h *SeedHandler) CreateTestUser(c *fiber.Ctx) error {
	if _, err := h.seed.CreateTestUsers(c.UserContext()); err != nil {
		return err
	}
	return c.SendString("Test user and admins created!")
}
