package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/civicdesk/grievance-service/internal/auth"
	"github.com/civicdesk/grievance-service/internal/domain"
	"github.com/civicdesk/grievance-service/internal/events"
	"github.com/civicdesk/grievance-service/internal/repository"
	apperrors "github.com/civicdesk/grievance-service/pkg/util"
)

// MaxTitleLength mirrors the width of the title column.
const MaxTitleLength = 100

// GrievanceService implements filing, listing and responding to grievances.
type GrievanceService struct {
	grievances   repository.GrievanceRepository
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	scopeRespond bool
}

// GrievanceDependencies bundles collaborators.
type GrievanceDependencies struct {
	GrievanceRepo repository.GrievanceRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	// ScopeRespondToDepartment makes Respond and GetForResponse check the admin's department.
	ScopeRespondToDepartment bool
}

// NewGrievanceService builds the service.
func NewGrievanceService(deps GrievanceDependencies) *GrievanceService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GrievanceService{
		grievances:   deps.GrievanceRepo,
		dispatcher:   deps.Dispatcher,
		logger:       logger,
		scopeRespond: deps.ScopeRespondToDepartment,
	}
}

// ListForUser returns the actor's own grievances filed against dept.
func (s *GrievanceService) ListForUser(ctx context.Context, actor *auth.Principal, dept domain.Department) ([]domain.Grievance, error) {
	if !dept.Valid() {
		return nil, apperrors.NewNotFound("department", map[string]any{"department": string(dept)})
	}
	return s.grievances.List(ctx, repository.GrievanceFilter{UserID: &actor.User.ID, Department: &dept})
}

// Submit files a new pending grievance owned by the actor.
func (s *GrievanceService) Submit(ctx context.Context, actor *auth.Principal, dept domain.Department, title, description string) (*domain.Grievance, error) {
	if !dept.Valid() {
		return nil, apperrors.NewNotFound("department", map[string]any{"department": string(dept)})
	}
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("Title and description are required.", nil)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return nil, apperrors.NewValidationError("Title must be at most 100 characters.", nil)
	}

	grievance := &domain.Grievance{
		Title:       title,
		Description: description,
		Status:      domain.GrievanceStatusPending,
		Department:  dept,
		UserID:      actor.User.ID,
	}
	if err := s.grievances.Create(ctx, grievance); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventGrievanceSubmitted, grievance.ID, actor, events.GrievanceSubmittedPayload{
		Department: dept,
		Title:      title,
	})
	return grievance, nil
}

// ListForAdmin returns every grievance filed against the admin's department.
func (s *GrievanceService) ListForAdmin(ctx context.Context, actor *auth.Principal) ([]domain.Grievance, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	dept := actor.Session.Department
	if dept == nil {
		return []domain.Grievance{}, nil
	}
	return s.grievances.List(ctx, repository.GrievanceFilter{Department: dept})
}

// GetForResponse loads a grievance for the respond page.
func (s *GrievanceService) GetForResponse(ctx context.Context, actor *auth.Principal, id int64) (*domain.Grievance, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	grievance, err := s.grievances.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("grievance", map[string]any{"id": id})
		}
		return nil, err
	}
	if err := s.checkRespondScope(actor, grievance); err != nil {
		return nil, err
	}
	return grievance, nil
}

// Respond records the admin's response and marks the grievance Responded. The text is
// stored as submitted, empty included; re-submitting overwrites the previous response.
func (s *GrievanceService) Respond(ctx context.Context, actor *auth.Principal, id int64, response string) (*domain.Grievance, error) {
	grievance, err := s.GetForResponse(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	previous := grievance.Status
	grievance.Response = &response
	grievance.Status = domain.GrievanceStatusResponded
	if err := s.grievances.Update(ctx, grievance); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("grievance", map[string]any{"id": id})
		}
		return nil, err
	}

	s.publish(ctx, events.EventGrievanceResponded, grievance.ID, actor, events.GrievanceRespondedPayload{
		Department:      grievance.Department,
		FiledBy:         grievance.UserID,
		PreviousStatus:  previous,
		ResponsePreview: preview(response, 80),
	})
	return grievance, nil
}

// requireAdmin switches over every role so a new role fails closed until handled here.
func requireAdmin(actor *auth.Principal) error {
	if actor == nil || actor.Session == nil {
		return apperrors.NewUnauthorized("login required")
	}
	switch actor.Role() {
	case domain.RoleDepartmentAdmin:
		return nil
	case domain.RoleCitizen:
		return apperrors.NewForbidden("admin role required")
	default:
		return apperrors.NewForbidden("unknown role")
	}
}

func (s *GrievanceService) checkRespondScope(actor *auth.Principal, grievance *domain.Grievance) error {
	if !s.scopeRespond {
		return nil
	}
	dept := actor.Session.Department
	if dept == nil || *dept != grievance.Department {
		return apperrors.NewForbidden("grievance belongs to another department")
	}
	return nil
}

func (s *GrievanceService) publish(ctx context.Context, eventType events.EventType, grievanceID int64, actor *auth.Principal, payload any) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		GrievanceID: grievanceID,
		Actor:       events.Actor{UserID: actor.User.ID, Role: actor.Role()},
		Timestamp:   time.Now().UTC(),
		Payload:     payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

func preview(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + "…"
}
