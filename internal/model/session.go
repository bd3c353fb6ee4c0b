package model

import "time"

// SessionUser is the partial user object returned by the token exchange.
type SessionUser struct {
	ID    int    `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role,omitempty"`
}

// Session is an authenticated membership API session.
type Session struct {
	Token     string
	User      SessionUser
	ExpiresAt *time.Time
}

// Expired reports whether the session carries an expiry that lies before now.
// Sessions without a known expiry never report as expired.
func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}
