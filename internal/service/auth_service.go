package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/civicdesk/grievance-service/internal/auth"
	"github.com/civicdesk/grievance-service/internal/config"
	"github.com/civicdesk/grievance-service/internal/domain"
	"github.com/civicdesk/grievance-service/internal/repository"
)

// ErrInvalidCredentials is returned for any failed login. It does not distinguish an unknown
// username from a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService coordinates login, logout and session resolution.
type AuthService struct {
	users      repository.UserRepository
	sessions   auth.SessionStore
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
	now        func() time.Time
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Sessions auth.SessionStore
	Logger   *zap.Logger
}

// LoginResult carries the signed cookie value for a new session.
type LoginResult struct {
	User      *domain.User
	Session   *domain.Session
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		sessions:   deps.Sessions,
		tokenMgr:   auth.NewTokenManager(cfg.SessionSecret, cfg.SessionTTL()),
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

// Login authenticates any account by exact username.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.verify(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, user)
}

// AdminLogin authenticates accounts flagged as admin only.
func (s *AuthService) AdminLogin(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.verify(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin {
		return nil, ErrInvalidCredentials
	}
	return s.startSession(ctx, user)
}

func (s *AuthService) verify(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) startSession(ctx context.Context, user *domain.User) (*LoginResult, error) {
	now := s.now()
	session := &domain.Session{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Role:       user.Role(),
		Department: user.Department,
		IssuedAt:   now,
	}
	token, exp, err := s.tokenMgr.GenerateToken(session.ID, now)
	if err != nil {
		return nil, err
	}
	session.ExpiresAt = exp
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("session started",
		zap.Int64("user_id", user.ID),
		zap.String("role", string(session.Role)))
	return &LoginResult{User: user, Session: session, Token: token, ExpiresAt: exp}, nil
}

// Logout removes the server-side session.
func (s *AuthService) Logout(ctx context.Context, principal *auth.Principal) error {
	if principal == nil || principal.Session == nil {
		return nil
	}
	return s.sessions.Delete(ctx, principal.Session.ID)
}

// ResolveCurrentUser maps a cookie token to its session and user. Any failure (bad
// signature, expired or deleted session, missing user) resolves to no user.
func (s *AuthService) ResolveCurrentUser(ctx context.Context, token string) (*auth.Principal, bool) {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil, false
	}
	session, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if !errors.Is(err, auth.ErrSessionNotFound) {
			s.logger.Warn("session lookup failed", zap.Error(err))
		}
		return nil, false
	}
	if session.Expired(s.now()) {
		return nil, false
	}
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("session user lookup failed", zap.Error(err))
		}
		return nil, false
	}
	return &auth.Principal{Session: session, User: user}, true
}

// HashPassword hashes with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	return auth.HashPassword(password, s.bcryptCost)
}

// TokenManager exposes the underlying token manager.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
