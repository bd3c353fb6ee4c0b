// Package mitgliederinfo is the client layer of the organization's
// membership information app: session handling, the membership REST API,
// the groupware API and the aggregations built on top of them.
package mitgliederinfo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	apictx "github.com/julis-sh/mitgliederinfo/internal/api/context"
	"github.com/julis-sh/mitgliederinfo/internal/api/graph"
	"github.com/julis-sh/mitgliederinfo/internal/api/membership"
	"github.com/julis-sh/mitgliederinfo/internal/api/middleware"
	"github.com/julis-sh/mitgliederinfo/internal/api/rest"
	"github.com/julis-sh/mitgliederinfo/internal/config"
	"github.com/julis-sh/mitgliederinfo/internal/logger"
	"github.com/julis-sh/mitgliederinfo/internal/model"
	"github.com/julis-sh/mitgliederinfo/internal/repository/memory"
	"github.com/julis-sh/mitgliederinfo/internal/repository/sqlite"
	"github.com/julis-sh/mitgliederinfo/internal/service"
	"github.com/julis-sh/mitgliederinfo/internal/token"
)

type (
	Config          = config.Config
	CredentialStore = model.CredentialStore

	Role             = model.Role
	User             = model.User
	CreateUserParams = model.CreateUserParams
	UpdateUserParams = model.UpdateUserParams
	Session          = model.Session
	SessionUser      = model.SessionUser
	AuditLogEntry    = model.AuditLogEntry
	AuditLogType     = model.AuditLogType
	MailScenario     = model.MailScenario
	Kreis            = model.Kreis
	Member           = model.Member
	VorstandEvent    = model.VorstandEvent
	PlannerTask      = model.PlannerTask
	ToDoTask         = model.ToDoTask
	Profile          = model.Profile

	MailFormContext = service.MailFormContext
	BoardOverview   = service.BoardOverview

	AuthError       = model.AuthError
	APIError        = model.APIError
	ValidationError = model.ValidationError
)

// Error sentinels, matched with errors.Is.
var (
	ErrNotLoggedIn        = model.ErrNotLoggedIn
	ErrInvalidCredentials = model.ErrInvalidCredentials
	ErrNoToken            = model.ErrNoToken
	ErrServerRejected     = model.ErrServerRejected
	ErrAuthNetwork        = model.ErrAuthNetwork
	ErrUnauthorized       = model.ErrUnauthorized
	ErrServer             = model.ErrServer
	ErrNetwork            = model.ErrNetwork
	ErrDecode             = model.ErrDecode
	ErrUnknownScenario    = model.ErrUnknownScenario
)

// LoadConfig reads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	return config.NewConfig()
}

// WithRequestID returns a context whose backend requests carry id in the
// X-Request-ID header and in log records.
func WithRequestID(ctx context.Context, id string) context.Context {
	return apictx.NewManager().SetRequestIDToContext(ctx, id)
}

// Option customizes New.
type Option func(*options)

type options struct {
	transport  http.RoundTripper
	store      model.CredentialStore
	logger     *logger.Logger
	registerer prometheus.Registerer
	now        func() time.Time
}

// WithTransport sets the round tripper every backend request goes through.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithCredentialStore replaces the store configured by CREDENTIALS_DSN.
func WithCredentialStore(store CredentialStore) Option {
	return func(o *options) { o.store = store }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = &logger.Logger{Logger: l} }
}

// WithRegisterer registers the client metrics on reg instead of a private
// registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Client bundles the session provider, both API clients and the
// aggregation services over one shared transport.
type Client struct {
	session    *service.Session
	membership *membership.Client
	graph      *graph.Client
	mail       *service.Mail
	board      *service.Board
	logger     *logger.Logger
	closers    []func() error
}

// New wires a Client from cfg. A nil cfg is loaded from the environment.
func New(ctx context.Context, cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		var err error
		if cfg, err = LoadConfig(); err != nil {
			return nil, err
		}
	} else if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{
		transport:  http.DefaultTransport,
		registerer: prometheus.NewRegistry(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.New(cfg.LogLevel)
	}

	c := &Client{logger: o.logger}

	metrics, err := middleware.NewMetrics(o.transport, o.registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	httpClient := &http.Client{
		Transport: middleware.NewLogging(metrics, o.logger),
		Timeout:   cfg.HTTP.Timeout,
	}
	retry := rest.RetryPolicy{
		MaxRetries:      cfg.HTTP.MaxRetries,
		InitialInterval: cfg.HTTP.RetryInitialInterval,
	}

	membershipREST, err := rest.New(cfg.Membership.BaseURL, httpClient, retry, o.logger.With("backend", "membership"))
	if err != nil {
		return nil, fmt.Errorf("failed to create membership client: %w", err)
	}
	graphREST, err := rest.New(cfg.Graph.BaseURL, httpClient, retry, o.logger.With("backend", "graph"))
	if err != nil {
		return nil, fmt.Errorf("failed to create graph client: %w", err)
	}

	store := o.store
	if store == nil {
		if store, err = c.openStore(ctx, cfg.Credentials); err != nil {
			return nil, err
		}
	}

	c.session = service.NewSession(store, membershipREST, token.NewJWT(), o.logger)
	c.membership = membership.New(membershipREST, c.session, o.logger)
	c.graph = graph.New(graphREST, cfg.Graph, o.logger, o.now)
	c.mail = service.NewMail(c.membership, o.logger)
	c.board = service.NewBoard(c.graph, o.logger)

	return c, nil
}

func (c *Client) openStore(ctx context.Context, cfg config.Credentials) (model.CredentialStore, error) {
	if cfg.DSN == "" {
		return memory.NewCredentialRepository(), nil
	}

	conn, err := sqlite.NewConnection(ctx, cfg.DSN, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}
	c.closers = append(c.closers, conn.Close)
	return sqlite.NewCredentialRepository(conn, cfg.Service, cfg.Account), nil
}

// Close releases the credential store.
func (c *Client) Close() error {
	var errs []error
	for _, closer := range c.closers {
		errs = append(errs, closer())
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Login authenticates with email and password and persists the session.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	tok, err := c.membership.Login(ctx, email, password)
	if err != nil {
		return Session{}, err
	}
	return c.session.Establish(ctx, tok, SessionUser{Email: email})
}

// ExchangeExternalToken trades an identity provider token for a persisted
// membership session.
func (c *Client) ExchangeExternalToken(ctx context.Context, idToken string) (Session, error) {
	return c.session.ExchangeExternalToken(ctx, idToken)
}

func (c *Client) CurrentToken(ctx context.Context) (string, bool) {
	return c.session.CurrentToken(ctx)
}

func (c *Client) CurrentSession(ctx context.Context) (Session, error) {
	return c.session.CurrentSession(ctx)
}

// Logout drops the membership session and the external access token.
func (c *Client) Logout(ctx context.Context) error {
	return c.session.Clear(ctx)
}

// SetExternalAccessToken stores the groupware access token used by the
// groupware calls.
func (c *Client) SetExternalAccessToken(token string) {
	c.session.SetExternalAccessToken(token)
}

func (c *Client) externalToken() string {
	tok, _ := c.session.ExternalAccessToken()
	return tok
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	return c.membership.ListUsers(ctx)
}

func (c *Client) CreateUser(ctx context.Context, params CreateUserParams) error {
	return c.membership.CreateUser(ctx, params)
}

// UpdateUser changes the role of account id and, when params.Password is
// not empty, its password.
func (c *Client) UpdateUser(ctx context.Context, id int, params UpdateUserParams) error {
	return c.membership.UpdateUser(ctx, id, params)
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.membership.DeleteUser(ctx, id)
}

func (c *Client) ListAuditLog(ctx context.Context) ([]AuditLogEntry, error) {
	return c.membership.ListAuditLog(ctx)
}

func (c *Client) ListMailScenarios(ctx context.Context) ([]MailScenario, error) {
	return c.membership.ListMailScenarios(ctx)
}

func (c *Client) ListKreise(ctx context.Context) ([]Kreis, error) {
	return c.membership.ListKreise(ctx)
}

// LoadMailFormContext loads scenarios and districts in parallel.
func (c *Client) LoadMailFormContext(ctx context.Context) MailFormContext {
	return c.mail.LoadMailFormContext(ctx)
}

// RelevantFields returns the member data fields a scenario requires.
func (c *Client) RelevantFields(scenario string) ([]string, error) {
	return c.mail.RelevantFields(scenario)
}

// SendMail validates member for scenario and sends the mails.
func (c *Client) SendMail(ctx context.Context, scenario string, member Member) error {
	return c.mail.Send(ctx, scenario, member)
}

func (c *Client) FetchProfile(ctx context.Context) Profile {
	return c.graph.FetchProfile(ctx, c.externalToken())
}

func (c *Client) FetchProfilePhoto(ctx context.Context) []byte {
	return c.graph.FetchProfilePhoto(ctx, c.externalToken())
}

// FetchCalendarEvents returns all events of a calendar sorted by start.
// Empty arguments select the configured board calendar.
func (c *Client) FetchCalendarEvents(ctx context.Context, calendarID, ownerUserID string) ([]VorstandEvent, error) {
	return c.graph.FetchCalendarEvents(ctx, c.externalToken(), calendarID, ownerUserID)
}

func (c *Client) FetchPlannerTasks(ctx context.Context) ([]PlannerTask, error) {
	return c.graph.FetchPlannerTasks(ctx, c.externalToken())
}

func (c *Client) FetchToDoTasks(ctx context.Context) ([]ToDoTask, error) {
	return c.graph.FetchToDoTasks(ctx, c.externalToken())
}

// LoadBoardOverview fetches planner and to-do tasks in parallel.
func (c *Client) LoadBoardOverview(ctx context.Context) BoardOverview {
	return c.board.LoadBoardOverview(ctx, c.externalToken())
}

// SplitEvents separates upcoming from past events in loc.
func SplitEvents(events []VorstandEvent, now time.Time, loc *time.Location) (future, past []VorstandEvent) {
	return model.SplitEvents(events, now, loc)
}

// FilterAuditLog filters entries by type and a case-insensitive query.
func FilterAuditLog(entries []AuditLogEntry, typ AuditLogType, query string) []AuditLogEntry {
	return model.FilterAuditLog(entries, typ, query)
}
