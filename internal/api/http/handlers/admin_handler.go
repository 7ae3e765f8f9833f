package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/grievance-service/internal/api/dto"
	"github.com/civicdesk/grievance-service/internal/api/flash"
	"github.com/civicdesk/grievance-service/internal/auth"
	"github.com/civicdesk/grievance-service/internal/domain"
	"github.com/civicdesk/grievance-service/internal/service"
	apperrors "github.com/civicdesk/grievance-service/pkg/util"
)

// AdminHandler serves the department admin pages. The admin check happens in the service
// for every call; a forbidden result becomes the access-denied redirect.
type AdminHandler struct {
	grievances *service.GrievanceService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(grievances *service.GrievanceService) *AdminHandler {
	return &AdminHandler{grievances: grievances}
}

// Dashboard GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("login required")
	}
	grievances, err := h.grievances.ListForAdmin(c.UserContext(), principal)
	if err != nil {
		if apperrors.IsForbidden(err) {
			return denyAccess(c)
		}
		return err
	}

	var dept domain.Department
	if principal.Session.Department != nil {
		dept = *principal.Session.Department
	}
	return render(c, http.StatusOK, "admin_dashboard", fiber.Map{
		"Department": dept,
		"Grievances": grievances,
	})
}

// RespondForm GET /admin/respond/:id.
func (h *AdminHandler) RespondForm(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("login required")
	}
	id := grievanceIDParam(c)
	grievance, err := h.grievances.GetForResponse(c.UserContext(), principal, id)
	if err != nil {
		if apperrors.IsForbidden(err) {
			return denyAccess(c)
		}
		return err
	}
	return render(c, http.StatusOK, "respond_grievance", fiber.Map{"Grievance": grievance})
}

// Respond POST /admin/respond/:id.
func (h *AdminHandler) Respond(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("login required")
	}
	id := grievanceIDParam(c)

	var form dto.ResponseForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid form", nil)
	}

	if _, err := h.grievances.Respond(c.UserContext(), principal, id, form.Response); err != nil {
		if apperrors.IsForbidden(err) {
			return denyAccess(c)
		}
		return err
	}

	flash.Add(c, flash.CategorySuccess, "Response submitted successfully!")
	return flash.Redirect(c, "/admin/dashboard")
}

// grievanceIDParam reads the id the route constraint already checked as an integer. Ids that
// overflow int64 or are negative map to -1, which no row carries.
func grievanceIDParam(c *fiber.Ctx) int64 {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 0 {
		return -1
	}
	return id
}
