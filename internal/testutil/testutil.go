package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/civicdesk/grievance-service/internal/domain"
	"github.com/civicdesk/grievance-service/internal/persistence"
	"github.com/civicdesk/grievance-service/internal/repository"
)

var dbSeq atomic.Int64

// OpenInMemoryDB opens a private in-memory SQLite database with the application schema.
// The database is closed via t.Cleanup.
func OpenInMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	store, err := persistence.NewSQLite(dsn, zap.NewNop(), repository.Models()...)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(store.Close)
	return store.DB
}

// CreateUser inserts a user with a low-cost bcrypt hash of password.
func CreateUser(t *testing.T, repo repository.UserRepository, username, password string, dept *domain.Department) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		IsAdmin:      dept != nil,
		Department:   dept,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// DepartmentPtr returns a pointer to d.
func DepartmentPtr(d domain.Department) *domain.Department {
	return &d
}
