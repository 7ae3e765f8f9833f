package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/civicdesk/grievance-service/internal/domain"
)

type gormGrievanceRepository struct {
	db *gorm.DB
}

// NewGormGrievanceRepository returns a gorm-backed implementation used with the SQLite store.
func NewGormGrievanceRepository(db *gorm.DB) GrievanceRepository {
	return &gormGrievanceRepository{db: db}
}

func (r *gormGrievanceRepository) Create(ctx context.Context, grievance *domain.Grievance) error {
	rec := grievanceToRecord(grievance)
	if err := r.db.WithContext(ctx).Omit("User").Create(&rec).Error; err != nil {
		return translate(err)
	}
	grievance.ID = rec.ID
	grievance.CreatedAt = rec.CreatedAt
	grievance.UpdatedAt = rec.UpdatedAt
	return nil
}

func (r *gormGrievanceRepository) Update(ctx context.Context, grievance *domain.Grievance) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&GrievanceRecord{}).
		Where("id = ?", grievance.ID).
		Updates(map[string]any{
			"title":       grievance.Title,
			"description": grievance.Description,
			"status":      string(grievance.Status),
			"department":  string(grievance.Department),
			"response":    grievance.Response,
			"updated_at":  now,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	grievance.UpdatedAt = now
	return nil
}

func (r *gormGrievanceRepository) GetByID(ctx context.Context, id int64) (*domain.Grievance, error) {
	var rec GrievanceRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	g := grievanceFromRecord(&rec)
	return &g, nil
}

func (r *gormGrievanceRepository) List(ctx context.Context, filter GrievanceFilter) ([]domain.Grievance, error) {
	query := r.db.WithContext(ctx).Model(&GrievanceRecord{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Department != nil {
		query = query.Where("department = ?", string(*filter.Department))
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var records []GrievanceRecord
	if err := query.Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Grievance, 0, len(records))
	for i := range records {
		result = append(result, grievanceFromRecord(&records[i]))
	}
	return result, nil
}
