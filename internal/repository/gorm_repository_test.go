package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdesk/grievance-service/internal/domain"
	"github.com/civicdesk/grievance-service/internal/repository"
	"github.com/civicdesk/grievance-service/internal/testutil"
)

func TestGormUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewGormUserRepository(testutil.OpenInMemoryDB(t))

	health := domain.DepartmentHealth
	admin := &domain.User{Username: "admin_health", Email: "admin_health@example.com", PasswordHash: "h", IsAdmin: true, Department: &health}
	require.NoError(t, repo.Create(ctx, admin))
	assert.NotZero(t, admin.ID)
	assert.False(t, admin.CreatedAt.IsZero())

	got, err := repo.GetByUsername(ctx, "admin_health")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)
	assert.True(t, got.IsAdmin)
	require.NotNil(t, got.Department)
	assert.Equal(t, domain.DepartmentHealth, *got.Department)

	citizen := &domain.User{Username: "user", Email: "user@example.com", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, citizen))
	got, err = repo.GetByID(ctx, citizen.ID)
	require.NoError(t, err)
	assert.False(t, got.IsAdmin)
	assert.Nil(t, got.Department)

	_, err = repo.GetByUsername(ctx, "User")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGormUserRepositoryRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewGormUserRepository(testutil.OpenInMemoryDB(t))

	require.NoError(t, repo.Create(ctx, &domain.User{Username: "user", Email: "user@example.com", PasswordHash: "h"}))

	err := repo.Create(ctx, &domain.User{Username: "user", Email: "other@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	err = repo.Create(ctx, &domain.User{Username: "other", Email: "user@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestGormUserRepositoryCreateAllIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewGormUserRepository(testutil.OpenInMemoryDB(t))

	require.NoError(t, repo.Create(ctx, &domain.User{Username: "taken", Email: "taken@example.com", PasswordHash: "h"}))

	err := repo.CreateAll(ctx, []*domain.User{
		{Username: "fresh", Email: "fresh@example.com", PasswordHash: "h"},
		{Username: "taken", Email: "taken2@example.com", PasswordHash: "h"},
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = repo.GetByUsername(ctx, "fresh")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGormGrievanceRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenInMemoryDB(t)
	users := repository.NewGormUserRepository(db)
	repo := repository.NewGormGrievanceRepository(db)

	alice := testutil.CreateUser(t, users, "alice", "pw", nil)
	bob := testutil.CreateUser(t, users, "bob", "pw", nil)

	file := func(owner *domain.User, dept domain.Department, title string) *domain.Grievance {
		g := &domain.Grievance{
			Title:       title,
			Description: "details",
			Status:      domain.GrievanceStatusPending,
			Department:  dept,
			UserID:      owner.ID,
		}
		require.NoError(t, repo.Create(ctx, g))
		return g
	}
	pothole := file(alice, domain.DepartmentPublicWorks, "Pothole")
	file(alice, domain.DepartmentHealth, "Clinic closed")
	file(bob, domain.DepartmentPublicWorks, "Streetlight")

	assert.NotZero(t, pothole.ID)

	dept := domain.DepartmentPublicWorks
	list, err := repo.List(ctx, repository.GrievanceFilter{UserID: &alice.ID, Department: &dept})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Pothole", list[0].Title)

	list, err = repo.List(ctx, repository.GrievanceFilter{Department: &dept})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	empty := domain.Department("")
	list, err = repo.List(ctx, repository.GrievanceFilter{Department: &empty})
	require.NoError(t, err)
	assert.Empty(t, list)

	text := "Crew dispatched"
	pothole.Response = &text
	pothole.Status = domain.GrievanceStatusResponded
	require.NoError(t, repo.Update(ctx, pothole))

	got, err := repo.GetByID(ctx, pothole.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GrievanceStatusResponded, got.Status)
	require.NotNil(t, got.Response)
	assert.Equal(t, "Crew dispatched", *got.Response)
	assert.Equal(t, alice.ID, got.UserID)

	responded := domain.GrievanceStatusResponded
	list, err = repo.List(ctx, repository.GrievanceFilter{Status: &responded})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGormGrievanceRepositoryMissingRows(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewGormGrievanceRepository(testutil.OpenInMemoryDB(t))

	_, err := repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = repo.Update(ctx, &domain.Grievance{ID: 42, Title: "t", Description: "d", Status: domain.GrievanceStatusResponded, Department: domain.DepartmentHealth})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
