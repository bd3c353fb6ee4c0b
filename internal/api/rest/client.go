// Package rest implements the shared JSON-over-HTTP plumbing of the
// membership and groupware clients: request building, bearer auth, status
// classification and bounded retry of transport failures.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/oauth2"

	apictx "github.com/julis-sh/mitgliederinfo/internal/api/context"
	"github.com/julis-sh/mitgliederinfo/internal/logger"
	"github.com/julis-sh/mitgliederinfo/internal/model"
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RetryPolicy bounds retries of network failures.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
}

// Request describes one backend call.
type Request struct {
	Method string
	// Path is resolved against the client base URL. Ignored when URL is set.
	Path string
	// URL is an absolute URL, used for server-provided next links.
	URL   string
	Query url.Values
	Body  any
	// Token is sent as a bearer token when not empty.
	Token string
	// AdminOnly selects the admin-only message for 401 responses.
	AdminOnly bool
	// Accept overrides the default application/json Accept header.
	Accept string
}

// Client performs classified JSON requests against one base URL.
type Client struct {
	baseURL *url.URL
	doer    Doer
	retry   RetryPolicy
	ctxMgr  *apictx.Manager
	logger  *logger.Logger
}

// New creates a Client. baseURL must be absolute.
func New(baseURL string, doer Doer, retry RetryPolicy, logger *logger.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q is not absolute", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if doer == nil {
		doer = http.DefaultClient
	}

	return &Client{
		baseURL: u,
		doer:    doer,
		retry:   retry,
		ctxMgr:  apictx.NewManager(),
		logger:  logger,
	}, nil
}

// BaseURL returns the resolved base URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Do sends r and decodes a 2xx JSON body into out. out may be nil to
// discard the body, or *[]byte to receive it raw. Every failure is an
// *model.APIError, except an invalid request which is returned as is.
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	target, err := c.resolve(r)
	if err != nil {
		return err
	}

	var body []byte
	if r.Body != nil {
		body, err = json.Marshal(r.Body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	ctx, requestID := c.ctxMgr.EnsureRequestID(ctx)

	var payload []byte
	attempt := func() error {
		var err error
		payload, err = c.send(ctx, r, target, body, requestID)
		if err != nil && !(retryable(r.Method) && errors.Is(err, model.ErrNetwork) && ctx.Err() == nil) {
			return backoff.Permanent(err)
		}
		return err
	}

	if err := backoff.Retry(attempt, c.backoff(ctx)); err != nil {
		var apiErr *model.APIError
		if !errors.As(err, &apiErr) {
			err = model.NewErrNetwork(err)
		}
		return err
	}

	return decode(payload, out)
}

func (c *Client) backoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if c.retry.InitialInterval > 0 {
		b.InitialInterval = c.retry.InitialInterval
	}
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, c.retry.MaxRetries), ctx)
}

func (c *Client) send(ctx context.Context, r Request, target string, body []byte, requestID string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	accept := r.Accept
	if accept == "" {
		accept = "application/json"
	}
	req.Header.Set("Accept", accept)
	req.Header.Set(apictx.RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.Token != "" {
		(&oauth2.Token{AccessToken: r.Token, TokenType: "Bearer"}).SetAuthHeader(req)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, model.NewErrNetwork(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.NewErrNetwork(fmt.Errorf("failed to read response body: %w", err))
	}

	if err := classify(resp.StatusCode, r.AdminOnly); err != nil {
		c.logger.Debug("backend rejected request",
			"method", r.Method,
			"path", req.URL.Path,
			"status", resp.StatusCode,
			"request_id", requestID)
		return nil, err
	}

	return payload, nil
}

func (c *Client) resolve(r Request) (string, error) {
	var u *url.URL
	if r.URL != "" {
		parsed, err := url.Parse(r.URL)
		if err != nil {
			return "", fmt.Errorf("failed to parse request url: %w", err)
		}
		if !parsed.IsAbs() {
			return "", fmt.Errorf("request url %q is not absolute", r.URL)
		}
		u = parsed
	} else {
		ref, err := url.Parse(strings.TrimPrefix(r.Path, "/"))
		if err != nil {
			return "", fmt.Errorf("failed to parse request path: %w", err)
		}
		u = c.baseURL.ResolveReference(ref)
	}

	if len(r.Query) > 0 {
		q := u.Query()
		for key, values := range r.Query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// classify maps an HTTP status to the error taxonomy.
func classify(status int, adminOnly bool) error {
	switch {
	case status >= 200 && status <= 299:
		return nil
	case status == http.StatusUnauthorized:
		return model.NewErrUnauthorized(adminOnly)
	default:
		return model.NewErrServer(status)
	}
}

func decode(payload []byte, out any) error {
	switch dst := out.(type) {
	case nil:
		return nil
	case *[]byte:
		*dst = payload
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return model.NewErrDecode(err)
	}
	return nil
}

func retryable(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}
