package domain

import "time"

// Role is the access level derived from a user record.
type Role string

const (
	RoleCitizen         Role = "CITIZEN"
	RoleDepartmentAdmin Role = "DEPARTMENT_ADMIN"
)

// User is an account able to file grievances or, for admins, respond to them.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	Department   *Department
	CreatedAt    time.Time
}

// Role maps the admin flag to a typed role.
func (u *User) Role() Role {
	if u.IsAdmin {
		return RoleDepartmentAdmin
	}
	return RoleCitizen
}
