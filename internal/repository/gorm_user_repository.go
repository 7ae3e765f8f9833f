package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/civicdesk/grievance-service/internal/domain"
)

type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository returns a gorm-backed implementation used with the SQLite store.
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) error {
	return createUser(r.db.WithContext(ctx), user)
}

func (r *gormUserRepository) CreateAll(ctx context.Context, users []*domain.User) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, user := range users {
			if err := createUser(tx, user); err != nil {
				return err
			}
		}
		return nil
	}))
}

func createUser(db *gorm.DB, user *domain.User) error {
	rec := userToRecord(user)
	if err := db.Create(&rec).Error; err != nil {
		return translate(err)
	}
	user.ID = rec.ID
	user.CreatedAt = rec.CreatedAt
	return nil
}

func (r *gormUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var rec UserRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return userFromRecord(&rec), nil
}

func (r *gormUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var rec UserRecord
	if err := r.db.WithContext(ctx).First(&rec, "username = ?", username).Error; err != nil {
		return nil, translate(err)
	}
	return userFromRecord(&rec), nil
}
