package middleware

import (
	"net/http"
	"time"

	apictx "github.com/julis-sh/mitgliederinfo/internal/api/context"
	"github.com/julis-sh/mitgliederinfo/internal/logger"
	"github.com/julis-sh/mitgliederinfo/internal/model"
)

// Logging is an http.RoundTripper that logs outgoing requests and results.
type Logging struct {
	next   http.RoundTripper
	logger *logger.Logger
	ctxMgr model.RequestContextManager
}

// NewLogging wraps next. A nil next uses http.DefaultTransport.
func NewLogging(next http.RoundTripper, logger *logger.Logger) *Logging {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Logging{next: next, logger: logger, ctxMgr: apictx.NewManager()}
}

// RoundTrip logs method, host, path, duration and status for each request.
// Query strings and headers are left out of the records.
func (l *Logging) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	requestID, _ := l.ctxMgr.GetRequestIDFromContext(req.Context())

	l.logger.Debug("HTTP request started",
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
		"request_id", requestID)

	resp, err := l.next.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		l.logger.Warn("HTTP request failed",
			"method", req.Method,
			"host", req.URL.Host,
			"path", req.URL.Path,
			"duration_ms", duration.Milliseconds(),
			"request_id", requestID,
			"error", err.Error())
		return nil, err
	}

	l.logger.Debug("HTTP request completed",
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
		"duration_ms", duration.Milliseconds(),
		"status", resp.StatusCode,
		"request_id", requestID)

	return resp, nil
}
