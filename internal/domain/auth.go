package domain

import "time"

// Session binds a browser session to a user. It is stored server-side and referenced by
// a signed cookie.
type Session struct {
	ID         string      `json:"id"`
	UserID     int64       `json:"user_id"`
	Role       Role        `json:"role"`
	Department *Department `json:"department,omitempty"`
	IssuedAt   time.Time   `json:"issued_at"`
	ExpiresAt  time.Time   `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
