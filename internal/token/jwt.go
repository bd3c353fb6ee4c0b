package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/julis-sh/mitgliederinfo/internal/model"
)

// Claims represents the claims the membership backend puts in its session tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// JWT reads session token claims. The signature is not checked: the token
// is opaque to the client and verified by the backend on every call.
type JWT struct {
	parser *jwt.Parser
}

var _ model.ClaimsParser = (*JWT)(nil)

// NewJWT creates a new session claims reader.
func NewJWT() *JWT {
	return &JWT{parser: jwt.NewParser()}
}

// ParseSessionClaims extracts subject, email, role and expiry from a session token.
func (j *JWT) ParseSessionClaims(tokenString string) (model.SessionClaims, error) {
	claims := &Claims{}
	if _, _, err := j.parser.ParseUnverified(tokenString, claims); err != nil {
		return model.SessionClaims{}, fmt.Errorf("failed to parse session token: %w", err)
	}

	out := model.SessionClaims{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    model.Role(claims.Role),
	}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		out.ExpiresAt = &exp
	}
	return out, nil
}
