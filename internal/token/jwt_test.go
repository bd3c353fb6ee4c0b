package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julis-sh/mitgliederinfo/internal/model"
)

func signed(t *testing.T, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return s
}

func TestJWT_ParseSessionClaims(t *testing.T) {
	exp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tok := signed(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Email: "admin@julis-sh.de",
		Role:  "admin",
	})

	got, err := NewJWT().ParseSessionClaims(tok)
	require.NoError(t, err)
	assert.Equal(t, "42", got.Subject)
	assert.Equal(t, "admin@julis-sh.de", got.Email)
	assert.Equal(t, model.RoleAdmin, got.Role)
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, exp.Equal(*got.ExpiresAt))
}

func TestJWT_ExpiredTokenStillReadable(t *testing.T) {
	tok := signed(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
	})

	got, err := NewJWT().ParseSessionClaims(tok)
	require.NoError(t, err)
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, got.ExpiresAt.Before(time.Now()))
}

func TestJWT_NoExpiry(t *testing.T) {
	got, err := NewJWT().ParseSessionClaims(signed(t, Claims{Role: "vorstand"}))
	require.NoError(t, err)
	assert.Nil(t, got.ExpiresAt)
	assert.Equal(t, model.RoleBoard, got.Role)
}

func TestJWT_OpaqueToken(t *testing.T) {
	_, err := NewJWT().ParseSessionClaims("fake-jwt-token")
	require.Error(t, err)
}
