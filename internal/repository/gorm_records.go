package repository

import (
	"time"

	"github.com/civicdesk/grievance-service/internal/domain"
)

// UserRecord is the gorm mapping of the users table.
type UserRecord struct {
	ID           int64   `gorm:"primaryKey;autoIncrement"`
	Username     string  `gorm:"size:50;uniqueIndex;not null"`
	Email        string  `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string  `gorm:"size:128;not null"`
	IsAdmin      bool    `gorm:"not null;default:false"`
	Department   *string `gorm:"size:50"`
	CreatedAt    time.Time
}

func (UserRecord) TableName() string { return "users" }

// GrievanceRecord is the gorm mapping of the grievances table.
type GrievanceRecord struct {
	ID          int64      `gorm:"primaryKey;autoIncrement"`
	Title       string     `gorm:"size:100;not null"`
	Description string     `gorm:"type:text;not null"`
	Status      string     `gorm:"size:20;not null;default:Pending"`
	Department  string     `gorm:"size:50;not null;index"`
	UserID      int64      `gorm:"not null;index"`
	User        UserRecord `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	Response    *string    `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (GrievanceRecord) TableName() string { return "grievances" }

// Models lists every record type for schema creation.
func Models() []any {
	return []any{&UserRecord{}, &GrievanceRecord{}}
}

func userToRecord(u *domain.User) UserRecord {
	rec := UserRecord{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
	}
	if u.Department != nil {
		dept := string(*u.Department)
		rec.Department = &dept
	}
	return rec
}

func userFromRecord(rec *UserRecord) *domain.User {
	u := &domain.User{
		ID:           rec.ID,
		Username:     rec.Username,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		IsAdmin:      rec.IsAdmin,
		CreatedAt:    rec.CreatedAt,
	}
	if rec.Department != nil {
		dept := domain.Department(*rec.Department)
		u.Department = &dept
	}
	return u
}

func grievanceToRecord(g *domain.Grievance) GrievanceRecord {
	return GrievanceRecord{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		Status:      string(g.Status),
		Department:  string(g.Department),
		UserID:      g.UserID,
		Response:    g.Response,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func grievanceFromRecord(rec *GrievanceRecord) domain.Grievance {
	return domain.Grievance{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Status:      domain.GrievanceStatus(rec.Status),
		Department:  domain.Department(rec.Department),
		UserID:      rec.UserID,
		Response:    rec.Response,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}
