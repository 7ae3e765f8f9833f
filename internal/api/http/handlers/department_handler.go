package handlers

import (
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/grievance-service/internal/api/dto"
	"github.com/civicdesk/grievance-service/internal/api/flash"
	"github.com/civicdesk/grievance-service/internal/auth"
	"github.com/civicdesk/grievance-service/internal/domain"
	"github.com/civicdesk/grievance-service/internal/service"
	apperrors "github.com/civicdesk/grievance-service/pkg/util"
)

// DepartmentHandler lets citizens file and review grievances for one department.
type DepartmentHandler struct {
	grievances *service.GrievanceService
}

// NewDepartmentHandler constructs handler.
func NewDepartmentHandler(grievances *service.GrievanceService) *DepartmentHandler {
	return &DepartmentHandler{grievances: grievances}
}

// Show GET /department/:name.
func (h *DepartmentHandler) Show(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("login required")
	}
	dept, err := departmentParam(c)
	if err != nil {
		return err
	}

	grievances, err := h.grievances.ListForUser(c.UserContext(), principal, dept)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "department", fiber.Map{
		"Title":      dept.String(),
		"Department": dept,
		"Grievances": grievances,
	})
}

// Submit POST /department/:name.
func (h *DepartmentHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("login required")
	}
	dept, err := departmentParam(c)
	if err != nil {
		return err
	}
	back := "/department/" + dept.Slug()

	var form dto.GrievanceForm
	if err := c.BodyParser(&form); err != nil {
		flash.Add(c, flash.CategoryDanger, "Title and description are required.")
		return flash.Redirect(c, back)
	}

	if _, err := h.grievances.Submit(c.UserContext(), principal, dept, form.Title, form.Description); err != nil {
		if apperrors.IsValidation(err) {
			flash.Add(c, flash.CategoryDanger, apperrors.ToDomainError(err).Message)
			return flash.Redirect(c, back)
		}
		return err
	}

	flash.Add(c, flash.CategorySuccess, "Your grievance has been submitted successfully!")
	return flash.Redirect(c, back)
}

func departmentParam(c *fiber.Ctx) (domain.Department, error) {
	raw, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		raw = c.Params("name")
	}
	dept, ok := domain.ParseDepartment(raw)
	if !ok {
		return "", apperrors.NewNotFound("department", map[string]any{"department": raw})
	}
	return dept, nil
}
