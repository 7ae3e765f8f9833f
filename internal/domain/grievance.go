package domain

import "time"

// GrievanceStatus enumerates lifecycle states for grievances.
type GrievanceStatus string

const (
	GrievanceStatusPending   GrievanceStatus = "Pending"
	GrievanceStatusResponded GrievanceStatus = "Responded"
)

// Grievance is a complaint filed by a citizen against a department.
type Grievance struct {
	ID          int64
	Title       string
	Description string
	Status      GrievanceStatus
	Department  Department
	UserID      int64
	Response    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
