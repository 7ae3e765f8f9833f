package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/civicdesk/grievance-service/internal/auth"
	"github.com/civicdesk/grievance-service/internal/config"
	"github.com/civicdesk/grievance-service/internal/domain"
	"github.com/civicdesk/grievance-service/internal/events"
	"github.com/civicdesk/grievance-service/internal/repository"
	"github.com/civicdesk/grievance-service/internal/service"
	"github.com/civicdesk/grievance-service/internal/testutil"
	apperrors "github.com/civicdesk/grievance-service/pkg/util"
)

type fixture struct {
	users      repository.UserRepository
	grievances repository.GrievanceRepository
	sessions   auth.SessionStore
	dispatcher events.Dispatcher
	auth       *service.AuthService
	grievance  *service.GrievanceService
	seed       *service.SeedService
}

func newFixture(t *testing.T, scopeRespond bool) *fixture {
	t.Helper()
	db := testutil.OpenInMemoryDB(t)
	f := &fixture{
		users:      repository.NewGormUserRepository(db),
		grievances: repository.NewGormGrievanceRepository(db),
		sessions:   auth.NewMemorySessionStore(),
		dispatcher: events.NewInMemoryDispatcher(),
	}
	authCfg := config.AuthConfig{SessionSecret: "test-secret", SessionTTLMinutes: 60, BcryptCost: bcrypt.MinCost}
	f.auth = service.NewAuthService(authCfg, service.AuthDependencies{UserRepo: f.users, Sessions: f.sessions, Logger: zap.NewNop()})
	f.grievance = service.NewGrievanceService(service.GrievanceDependencies{
		GrievanceRepo:            f.grievances,
		Dispatcher:               f.dispatcher,
		ScopeRespondToDepartment: scopeRespond,
	})
	f.seed = service.NewSeedService(f.users, f.auth.HashPassword, zap.NewNop())
	return f
}

func (f *fixture) login(t *testing.T, username, password string) *auth.Principal {
	t.Helper()
	res, err := f.auth.Login(context.Background(), username, password)
	require.NoError(t, err)
	principal, ok := f.auth.ResolveCurrentUser(context.Background(), res.Token)
	require.True(t, ok)
	return principal
}

func TestLoginSucceedsForStoredHash(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	_, err := f.seed.CreateTestUsers(ctx)
	require.NoError(t, err)

	res, err := f.auth.Login(ctx, "user", "user123")
	require.NoError(t, err)
	assert.Equal(t, "user", res.User.Username)
	assert.Equal(t, domain.RoleCitizen, res.Session.Role)

	principal, ok := f.auth.ResolveCurrentUser(ctx, res.Token)
	require.True(t, ok)
	assert.Equal(t, res.User.ID, principal.User.ID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	_, err := f.seed.CreateTestUsers(ctx)
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, "user", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, "nobody", "user123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, "USER", "user123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAdminLoginRequiresAdminFlag(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	_, err := f.seed.CreateTestUsers(ctx)
	require.NoError(t, err)

	_, err = f.auth.AdminLogin(ctx, "user", "user123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	res, err := f.auth.AdminLogin(ctx, "admin_health", "admin123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDepartmentAdmin, res.Session.Role)
	require.NotNil(t, res.Session.Department)
	assert.Equal(t, domain.DepartmentHealth, *res.Session.Department)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	_, err := f.seed.CreateTestUsers(ctx)
	require.NoError(t, err)

	res, err := f.auth.Login(ctx, "user", "user123")
	require.NoError(t, err)
	principal, ok := f.auth.ResolveCurrentUser(ctx, res.Token)
	require.True(t, ok)

	require.NoError(t, f.auth.Logout(ctx, principal))
	_, ok = f.auth.ResolveCurrentUser(ctx, res.Token)
	assert.False(t, ok)
	assert.NoError(t, f.auth.Logout(ctx, nil))
}

func TestResolveCurrentUserRejectsGarbage(t *testing.T) {
	f := newFixture(t, false)
	_, ok := f.auth.ResolveCurrentUser(context.Background(), "not-a-token")
	assert.False(t, ok)
}

func TestResolveCurrentUserRejectsExpiredSession(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.users, "user", "pw", nil)

	token, _, err := f.auth.TokenManager().GenerateToken("stale", time.Now())
	require.NoError(t, err)
	require.NoError(t, f.sessions.Save(ctx, &domain.Session{
		ID: "stale", UserID: user.ID, Role: domain.RoleCitizen, ExpiresAt: time.Now().Add(-time.Second),
	}))

	_, ok := f.auth.ResolveCurrentUser(ctx, token)
	assert.False(t, ok)
}

func TestSeedTwiceConflicts(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	users, err := f.seed.CreateTestUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.False(t, users[0].IsAdmin)
	assert.Nil(t, users[0].Department)
	assert.True(t, users[2].IsAdmin)
	assert.NotEqual(t, "admin123", users[2].PasswordHash)

	_, err = f.seed.CreateTestUsers(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, "CONFLICT"))
}

func TestSubmitAndListAreScopedToOwnerAndDepartment(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	testutil.CreateUser(t, f.users, "alice", "pw", nil)
	testutil.CreateUser(t, f.users, "bob", "pw", nil)
	alice := f.login(t, "alice", "pw")
	bob := f.login(t, "bob", "pw")

	g, err := f.grievance.Submit(ctx, alice, domain.DepartmentPublicWorks, "Pothole", "On Main St")
	require.NoError(t, err)
	assert.Equal(t, domain.GrievanceStatusPending, g.Status)
	assert.Equal(t, domain.DepartmentPublicWorks, g.Department)
	assert.Equal(t, alice.User.ID, g.UserID)
	assert.Nil(t, g.Response)

	mine, err := f.grievance.ListForUser(ctx, alice, domain.DepartmentPublicWorks)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, g.ID, mine[0].ID)

	other, err := f.grievance.ListForUser(ctx, alice, domain.DepartmentHealth)
	require.NoError(t, err)
	assert.Empty(t, other)

	theirs, err := f.grievance.ListForUser(ctx, bob, domain.DepartmentPublicWorks)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	testutil.CreateUser(t, f.users, "alice", "pw", nil)
	alice := f.login(t, "alice", "pw")

	_, err := f.grievance.Submit(ctx, alice, domain.Department("Parks"), "t", "d")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = f.grievance.Submit(ctx, alice, domain.DepartmentHealth, "", "d")
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.grievance.Submit(ctx, alice, domain.DepartmentHealth, "t", "")
	assert.True(t, apperrors.IsValidation(err))

	long := make([]rune, service.MaxTitleLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = f.grievance.Submit(ctx, alice, domain.DepartmentHealth, string(long), "d")
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.grievance.Submit(ctx, alice, domain.DepartmentHealth, "   ", "   ")
	assert.NoError(t, err)
}

func TestDashboardListsOnlyAdminsDepartment(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	_, err := f.seed.CreateTestUsers(ctx)
	require.NoError(t, err)
	citizen := f.login(t, "user", "user123")

	for _, dept := range domain.Departments() {
		_, err := f.grievance.Submit(ctx, citizen, dept, "About "+dept.String(), "text")
		require.NoError(t, err)
	}

	admin := f.login(t, "admin_health", "admin123")
	list, err := f.grievance.ListForAdmin(ctx, admin)
	require.NoError(t, err)
	require.Len(t, list, 1)
	for _, g := range list {
		assert.Equal(t, domain.DepartmentHealth, g.Department)
	}

	_, err = f.grievance.ListForAdmin(ctx, citizen)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestDashboardAdminWithoutDepartmentSeesNothing(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	citizen := testutil.CreateUser(t, f.users, "user", "pw", nil)
	require.NoError(t, f.grievances.Create(ctx, &domain.Grievance{
		Title: "t", Description: "d", Status: domain.GrievanceStatusPending, Department: domain.DepartmentHealth, UserID: citizen.ID,
	}))

	orphan := &domain.User{Username: "orphan_admin", Email: "orphan@example.com", IsAdmin: true}
	var err error
	orphan.PasswordHash, err = f.auth.HashPassword("pw")
	require.NoError(t, err)
	require.NoError(t, f.users.Create(ctx, orphan))

	admin := f.login(t, "orphan_admin", "pw")
	list, err := f.grievance.ListForAdmin(ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRespondAlwaysEndsResponded(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	_, err := f.seed.CreateTestUsers(ctx)
	require.NoError(t, err)
	citizen := f.login(t, "user", "user123")
	admin := f.login(t, "admin_public_works", "admin123")

	g, err := f.grievance.Submit(ctx, citizen, domain.DepartmentPublicWorks, "Pothole", "On Main St")
	require.NoError(t, err)

	got, err := f.grievance.Respond(ctx, admin, g.ID, "Crew dispatched")
	require.NoError(t, err)
	assert.Equal(t, domain.GrievanceStatusResponded, got.Status)

	got, err = f.grievance.Respond(ctx, admin, g.ID, "Fixed")
	require.NoError(t, err)
	assert.Equal(t, domain.GrievanceStatusResponded, got.Status)

	stored, err := f.grievances.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GrievanceStatusResponded, stored.Status)
	require.NotNil(t, stored.Response)
	assert.Equal(t, "Fixed", *stored.Response)
}

func TestRespondErrors(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	_, err := f.seed.CreateTestUsers(ctx)
	require.NoError(t, err)
	citizen := f.login(t, "user", "user123")
	admin := f.login(t, "admin_health", "admin123")

	g, err := f.grievance.Submit(ctx, citizen, domain.DepartmentHealth, "t", "d")
	require.NoError(t, err)

	_, err = f.grievance.Respond(ctx, citizen, g.ID, "self-serve")
	assert.True(t, apperrors.IsForbidden(err))

	_, err = f.grievance.Respond(ctx, admin, 9999, "nope")
	assert.True(t, apperrors.IsNotFound(err))

}

func TestRespondStoresEmptyText(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	_, err := f.seed.CreateTestUsers(ctx)
	require.NoError(t, err)
	citizen := f.login(t, "user", "user123")
	admin := f.login(t, "admin_health", "admin123")

	g, err := f.grievance.Submit(ctx, citizen, domain.DepartmentHealth, "t", "d")
	require.NoError(t, err)
	_, err = f.grievance.Respond(ctx, admin, g.ID, "first")
	require.NoError(t, err)

	_, err = f.grievance.Respond(ctx, admin, g.ID, "")
	require.NoError(t, err)

	stored, err := f.grievances.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GrievanceStatusResponded, stored.Status)
	require.NotNil(t, stored.Response)
	assert.Equal(t, "", *stored.Response)
}

func TestRespondIgnoresDepartmentByDefault(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	_, err := f.seed.CreateTestUsers(ctx)
	require.NoError(t, err)
	citizen := f.login(t, "user", "user123")
	healthAdmin := f.login(t, "admin_health", "admin123")

	g, err := f.grievance.Submit(ctx, citizen, domain.DepartmentPublicWorks, "Pothole", "On Main St")
	require.NoError(t, err)

	got, err := f.grievance.Respond(ctx, healthAdmin, g.ID, "Not ours, but noted")
	require.NoError(t, err)
	assert.Equal(t, domain.GrievanceStatusResponded, got.Status)
}

func TestRespondScopedToDepartmentWhenEnabled(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	_, err := f.seed.CreateTestUsers(ctx)
	require.NoError(t, err)
	citizen := f.login(t, "user", "user123")
	healthAdmin := f.login(t, "admin_health", "admin123")
	worksAdmin := f.login(t, "admin_public_works", "admin123")

	g, err := f.grievance.Submit(ctx, citizen, domain.DepartmentPublicWorks, "Pothole", "On Main St")
	require.NoError(t, err)

	_, err = f.grievance.Respond(ctx, healthAdmin, g.ID, "Not ours")
	assert.True(t, apperrors.IsForbidden(err))

	_, err = f.grievance.Respond(ctx, worksAdmin, g.ID, "Crew dispatched")
	assert.NoError(t, err)
}

func TestEventsPublished(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	_, err := f.seed.CreateTestUsers(ctx)
	require.NoError(t, err)

	var seen []events.EventType
	record := func(_ context.Context, e events.Event) error {
		seen = append(seen, e.Type)
		return nil
	}
	f.dispatcher.Subscribe(events.EventGrievanceSubmitted, record)
	f.dispatcher.Subscribe(events.EventGrievanceResponded, record)
	service.NewNotificationService(f.dispatcher, zap.NewNop(), config.NotificationConfig{EmailFrom: "a@b", WebhookURL: "http://hook"}).RegisterHandlers()

	citizen := f.login(t, "user", "user123")
	admin := f.login(t, "admin_health", "admin123")
	g, err := f.grievance.Submit(ctx, citizen, domain.DepartmentHealth, "t", "d")
	require.NoError(t, err)
	_, err = f.grievance.Respond(ctx, admin, g.ID, "ok")
	require.NoError(t, err)

	assert.Equal(t, []events.EventType{events.EventGrievanceSubmitted, events.EventGrievanceResponded}, seen)
}
