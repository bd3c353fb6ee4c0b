package service

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/julis-sh/mitgliederinfo/internal/api/rest"
	"github.com/julis-sh/mitgliederinfo/internal/logger"
	"github.com/julis-sh/mitgliederinfo/internal/model"
)

// Session owns the persisted membership session token and the in-memory
// access token of the external identity provider.
type Session struct {
	store  model.CredentialStore
	rest   *rest.Client
	claims model.ClaimsParser
	logger *logger.Logger

	mu       sync.RWMutex
	user     model.SessionUser
	external string
}

func NewSession(store model.CredentialStore, rc *rest.Client, claims model.ClaimsParser, logger *logger.Logger) *Session {
	return &Session{
		store:  store,
		rest:   rc,
		claims: claims,
		logger: logger,
	}
}

type exchangeRequest struct {
	Token string `json:"token"`
}

type exchangeResponse struct {
	Token string            `json:"token"`
	User  model.SessionUser `json:"user"`
}

// ExchangeExternalToken trades an identity provider token for a membership
// session and persists it.
func (s *Session) ExchangeExternalToken(ctx context.Context, idToken string) (model.Session, error) {
	s.logger.Debug("Session service: exchanging external token")

	var resp exchangeResponse
	err := s.rest.Do(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   "auth/microsoft",
		Body:   exchangeRequest{Token: idToken},
	}, &resp)
	if err != nil {
		s.logger.Info("Session service: token exchange failed",
			"error", err.Error())
		return model.Session{}, exchangeError(err)
	}
	if resp.Token == "" {
		s.logger.Info("Session service: token exchange returned no token")
		return model.Session{}, model.NewErrNoToken(nil)
	}

	return s.Establish(ctx, resp.Token, resp.User)
}

func exchangeError(err error) error {
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		return model.NewErrAuthNetwork(err)
	}

	switch apiErr.Kind {
	case model.APIUnauthorized, model.APIServer:
		return model.NewErrServerRejected(apiErr.StatusCode, err)
	case model.APIDecode:
		return model.NewErrNoToken(err)
	default:
		return model.NewErrAuthNetwork(err)
	}
}

// Establish persists token as the current session. Missing user fields are
// filled from the token claims when the token is a readable JWT.
func (s *Session) Establish(ctx context.Context, token string, user model.SessionUser) (model.Session, error) {
	if token == "" {
		return model.Session{}, model.NewErrNoToken(nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Put(ctx, token); err != nil {
		s.logger.Error("Session service: failed to persist session token",
			"error", err.Error())
		return model.Session{}, err
	}
	s.user = user

	session := s.describe(token, user)
	s.logger.Info("Session service: session established",
		"email", session.User.Email,
		"role", string(session.User.Role))
	return session, nil
}

// CurrentToken returns the persisted session token.
func (s *Session) CurrentToken(ctx context.Context) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, err := s.store.Get(ctx)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("Session service: failed to read session token",
				"error", err.Error())
		}
		return "", false
	}
	return token, token != ""
}

// CurrentSession returns the persisted session with what its token reveals.
func (s *Session) CurrentSession(ctx context.Context) (model.Session, error) {
	token, ok := s.CurrentToken(ctx)
	if !ok {
		return model.Session{}, model.NewErrNotLoggedIn()
	}

	s.mu.RLock()
	user := s.user
	s.mu.RUnlock()

	return s.describe(token, user), nil
}

func (s *Session) describe(token string, user model.SessionUser) model.Session {
	session := model.Session{Token: token, User: user}

	claims, err := s.claims.ParseSessionClaims(token)
	if err != nil {
		s.logger.Debug("Session service: session token is opaque",
			"error", err.Error())
		return session
	}

	session.ExpiresAt = claims.ExpiresAt
	if session.User.Role == "" {
		session.User.Role = claims.Role
	}
	if session.User.Email == "" {
		session.User.Email = claims.Email
	}
	return session
}

// Invalidate drops a session token the backend rejected. The external
// access token is kept.
func (s *Session) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("Session service: invalidating session")
	return s.clearLocked(ctx)
}

// Clear logs out: both the persisted and the external token are dropped.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.external = ""
	return s.clearLocked(ctx)
}

func (s *Session) clearLocked(ctx context.Context) error {
	s.user = model.SessionUser{}
	if err := s.store.Delete(ctx); err != nil {
		s.logger.Error("Session service: failed to delete session token",
			"error", err.Error())
		return err
	}
	return nil
}

// SetExternalAccessToken stores the groupware access token for this
// process lifetime.
func (s *Session) SetExternalAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.external = token
}

func (s *Session) ExternalAccessToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.external, s.external != ""
}
