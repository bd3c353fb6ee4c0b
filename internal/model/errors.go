package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned by credential stores when no token is persisted.
	ErrNotFound = errors.New("not found")
	// ErrUnknownScenario is returned for a mail scenario key without a field table.
	ErrUnknownScenario = errors.New("unknown mail scenario")
)

// Sentinels matched by AuthError.Is.
var (
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoToken            = errors.New("no token in response")
	ErrServerRejected     = errors.New("server rejected token exchange")
	ErrAuthNetwork        = errors.New("network error during authentication")
)

// Sentinels matched by APIError.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrServer       = errors.New("server error")
	ErrNetwork      = errors.New("network error")
	ErrDecode       = errors.New("decode error")
)

// AuthErrorKind enumerates authentication failures.
type AuthErrorKind int

const (
	AuthNotLoggedIn AuthErrorKind = iota + 1
	AuthInvalidCredentials
	AuthNoToken
	AuthServerRejected
	AuthNetwork
)

// AuthError describes a failure to obtain or use a session.
type AuthError struct {
	Kind       AuthErrorKind
	StatusCode int
	Err        error
}

func (e *AuthError) sentinel() error {
	switch e.Kind {
	case AuthNotLoggedIn:
		return ErrNotLoggedIn
	case AuthInvalidCredentials:
		return ErrInvalidCredentials
	case AuthNoToken:
		return ErrNoToken
	case AuthServerRejected:
		return ErrServerRejected
	case AuthNetwork:
		return ErrAuthNetwork
	default:
		return nil
	}
}

func (e *AuthError) Error() string {
	msg := "authentication failed"
	if s := e.sentinel(); s != nil {
		msg = s.Error()
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *AuthError) Unwrap() error { return e.Err }

func (e *AuthError) Is(target error) bool {
	return target != nil && target == e.sentinel()
}

func NewErrNotLoggedIn() *AuthError { return &AuthError{Kind: AuthNotLoggedIn} }

func NewErrInvalidCredentials(cause error) *AuthError {
	return &AuthError{Kind: AuthInvalidCredentials, Err: cause}
}

func NewErrNoToken(cause error) *AuthError { return &AuthError{Kind: AuthNoToken, Err: cause} }

func NewErrServerRejected(status int, cause error) *AuthError {
	return &AuthError{Kind: AuthServerRejected, StatusCode: status, Err: cause}
}

func NewErrAuthNetwork(cause error) *AuthError { return &AuthError{Kind: AuthNetwork, Err: cause} }

// APIErrorKind classifies failures of backend calls.
type APIErrorKind int

const (
	APIUnauthorized APIErrorKind = iota + 1
	APIServer
	APINetwork
	APIDecode
)

// APIError is the classified result of a failed backend call.
type APIError struct {
	Kind       APIErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

func (e *APIError) Is(target error) bool {
	switch e.Kind {
	case APIUnauthorized:
		return target == ErrUnauthorized
	case APIServer:
		return target == ErrServer
	case APINetwork:
		return target == ErrNetwork
	case APIDecode:
		return target == ErrDecode
	default:
		return false
	}
}

// NewErrUnauthorized builds a 401 error; adminOnly selects the message used
// for admin-gated endpoints.
func NewErrUnauthorized(adminOnly bool) *APIError {
	msg := "unauthorized"
	if adminOnly {
		msg = "unauthorized (admin only)"
	}
	return &APIError{Kind: APIUnauthorized, StatusCode: 401, Message: msg}
}

func NewErrServer(status int) *APIError {
	return &APIError{Kind: APIServer, StatusCode: status, Message: fmt.Sprintf("server error: %d", status)}
}

func NewErrNetwork(cause error) *APIError {
	return &APIError{Kind: APINetwork, Message: "network error", Err: cause}
}

func NewErrDecode(cause error) *APIError {
	return &APIError{Kind: APIDecode, Message: "failed to decode response", Err: cause}
}

// ValidationError maps member-data field names to a problem description.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "invalid member data: " + strings.Join(parts, ", ")
}
