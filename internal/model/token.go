package model

import "time"

// SessionClaims holds the claims read from a membership session token.
type SessionClaims struct {
	Subject   string
	Email     string
	Role      Role
	ExpiresAt *time.Time
}

// ClaimsParser reads claims from a session token without verifying it.
type ClaimsParser interface {
	ParseSessionClaims(token string) (SessionClaims, error)
}
