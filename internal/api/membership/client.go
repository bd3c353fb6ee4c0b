// Package membership is the typed client of the organization's membership
// REST API.
package membership

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julis-sh/mitgliederinfo/internal/api/rest"
	"github.com/julis-sh/mitgliederinfo/internal/logger"
	"github.com/julis-sh/mitgliederinfo/internal/model"
)

// TokenProvider supplies the persisted session token.
type TokenProvider interface {
	CurrentToken(ctx context.Context) (string, bool)
	// Invalidate drops a session the backend no longer accepts.
	Invalidate(ctx context.Context) error
}

// Client wraps the membership API endpoints.
type Client struct {
	rest   *rest.Client
	tokens TokenProvider
	logger *logger.Logger
}

// New creates a membership API client issuing requests through rc.
func New(rc *rest.Client, tokens TokenProvider, logger *logger.Logger) *Client {
	return &Client{rest: rc, tokens: tokens, logger: logger}
}

type mailRequest struct {
	Mitglied    model.Member `json:"mitglied"`
	Scenario    string       `json:"scenario"`
	Attachments []any        `json:"attachments"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login exchanges email and password for a session token. The token is not
// persisted.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp tokenResponse
	err := c.rest.Do(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   "auth/login",
		Body:   loginRequest{Email: email, Password: password},
	}, &resp)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && isCredentialRejection(apiErr) {
			return "", model.NewErrInvalidCredentials(err)
		}
		return "", err
	}
	if resp.Token == "" {
		return "", model.NewErrNoToken(nil)
	}
	return resp.Token, nil
}

func isCredentialRejection(err *model.APIError) bool {
	switch err.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return true
	default:
		return false
	}
}

// ListUsers returns all accounts. Admin only.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.authorized(ctx, rest.Request{Method: http.MethodGet, Path: "users", AdminOnly: true}, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser creates an account. Admin only.
func (c *Client) CreateUser(ctx context.Context, params model.CreateUserParams) error {
	return c.authorized(ctx, rest.Request{Method: http.MethodPost, Path: "users", Body: params, AdminOnly: true}, nil)
}

// UpdateUser changes role and, when params.Password is set, the password
// of account id. Admin only.
func (c *Client) UpdateUser(ctx context.Context, id int, params model.UpdateUserParams) error {
	return c.authorized(ctx, rest.Request{Method: http.MethodPut, Path: userPath(id), Body: params, AdminOnly: true}, nil)
}

// DeleteUser removes account id. Admin only.
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.authorized(ctx, rest.Request{Method: http.MethodDelete, Path: userPath(id), AdminOnly: true}, nil)
}

// ListAuditLog returns the audit trail. Admin only.
func (c *Client) ListAuditLog(ctx context.Context) ([]model.AuditLogEntry, error) {
	var entries []model.AuditLogEntry
	if err := c.authorized(ctx, rest.Request{Method: http.MethodGet, Path: "auditlog", AdminOnly: true}, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListMailScenarios returns the mail template categories.
func (c *Client) ListMailScenarios(ctx context.Context) ([]model.MailScenario, error) {
	var scenarios []model.MailScenario
	if err := c.authorized(ctx, rest.Request{Method: http.MethodGet, Path: "szenarien"}, &scenarios); err != nil {
		return nil, err
	}
	return scenarios, nil
}

// ListKreise returns the districts.
func (c *Client) ListKreise(ctx context.Context) ([]model.Kreis, error) {
	var kreise []model.Kreis
	if err := c.authorized(ctx, rest.Request{Method: http.MethodGet, Path: "kreise"}, &kreise); err != nil {
		return nil, err
	}
	return kreise, nil
}

// SendMail sends the scenario's mails for member. Attachments are always empty.
func (c *Client) SendMail(ctx context.Context, member model.Member, scenario string) error {
	return c.authorized(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   "mail",
		Body:   mailRequest{Mitglied: member, Scenario: scenario, Attachments: []any{}},
	}, nil)
}

// authorized attaches the session token to r. Without a session it fails
// before any request is made.
func (c *Client) authorized(ctx context.Context, r rest.Request, out any) error {
	token, ok := c.tokens.CurrentToken(ctx)
	if !ok {
		return model.NewErrNotLoggedIn()
	}
	r.Token = token

	err := c.rest.Do(ctx, r, out)
	if err == nil {
		return nil
	}

	if errors.Is(err, model.ErrUnauthorized) && !r.AdminOnly {
		c.logger.Info("Membership client: session rejected, invalidating",
			"path", r.Path)
		if invErr := c.tokens.Invalidate(ctx); invErr != nil {
			c.logger.Error("Membership client: failed to invalidate session",
				"error", invErr.Error())
		}
	}

	return fmt.Errorf("%s %s: %w", r.Method, r.Path, err)
}

func userPath(id int) string {
	return "users/" + strconv.Itoa(id)
}
