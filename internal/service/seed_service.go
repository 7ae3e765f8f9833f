package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/civicdesk/grievance-service/internal/domain"
	"github.com/civicdesk/grievance-service/internal/repository"
	apperrors "github.com/civicdesk/grievance-service/pkg/util"
)

// SeedAccount describes one demo account.
type SeedAccount struct {
	Username   string
	Email      string
	Password   string
	Department *domain.Department
}

// DemoAccounts are the bootstrap credentials: one citizen and two department admins.
func DemoAccounts() []SeedAccount {
	health := domain.DepartmentHealth
	publicWorks := domain.DepartmentPublicWorks
	return []SeedAccount{
		{Username: "user", Email: "user@example.com", Password: "user123"},
		{Username: "admin_health", Email: "admin_health@example.com", Password: "admin123", Department: &health},
		{Username: "admin_public_works", Email: "admin_public_works@example.com", Password: "admin123", Department: &publicWorks},
	}
}

// SeedService creates demo accounts.
type SeedService struct {
	users  repository.UserRepository
	hasher func(string) (string, error)
	logger *zap.Logger
}

// NewSeedService builds the service; hasher is normally AuthService.HashPassword.
func NewSeedService(users repository.UserRepository, hasher func(string) (string, error), logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{users: users, hasher: hasher, logger: logger}
}

// CreateTestUsers inserts the demo accounts in one transaction. It is not idempotent:
// a second call fails with a conflict and writes nothing.
func (s *SeedService) CreateTestUsers(ctx context.Context) ([]*domain.User, error) {
	accounts := DemoAccounts()
	users := make([]*domain.User, 0, len(accounts))
	for _, acct := range accounts {
		hash, err := s.hasher(acct.Password)
		if err != nil {
			return nil, err
		}
		users = append(users, &domain.User{
			Username:     acct.Username,
			Email:        acct.Email,
			PasswordHash: hash,
			IsAdmin:      acct.Department != nil,
			Department:   acct.Department,
		})
	}

	if err := s.users.CreateAll(ctx, users); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("demo accounts already exist", nil)
		}
		return nil, err
	}

	s.logger.Info("demo accounts created", zap.Int("count", len(users)))
	return users, nil
}
