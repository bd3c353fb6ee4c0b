// Package graph is the client of the groupware REST API: profile, board
// calendar, planner and to-do tasks. Every call carries the external access
// token, which is distinct from the membership session token.
package graph

import (
	"context"
	"time"

	"github.com/julis-sh/mitgliederinfo/internal/api/rest"
	"github.com/julis-sh/mitgliederinfo/internal/config"
	"github.com/julis-sh/mitgliederinfo/internal/logger"
	"github.com/julis-sh/mitgliederinfo/internal/model"
)

// Client wraps the groupware endpoints.
type Client struct {
	rest   *rest.Client
	cfg    config.Graph
	logger *logger.Logger
	now    func() time.Time
}

// New creates a groupware client issuing requests through rc. now is used
// for lenient date fallback and defaults to time.Now.
func New(rc *rest.Client, cfg config.Graph, logger *logger.Logger, now func() time.Time) *Client {
	if now == nil {
		now = time.Now
	}
	if cfg.CalendarID == "" {
		cfg.CalendarID = config.DefaultCalendarID
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 100
	}
	if cfg.MaxParallelLists <= 0 {
		cfg.MaxParallelLists = 1
	}

	return &Client{rest: rc, cfg: cfg, logger: logger, now: now}
}

func (c *Client) get(ctx context.Context, token string, r rest.Request, out any) error {
	if token == "" {
		return model.NewErrNotLoggedIn()
	}
	r.Token = token
	return c.rest.Do(ctx, r, out)
}
