package context

import (
	"context"

	"github.com/google/uuid"

	"github.com/julis-sh/mitgliederinfo/internal/model"
)

// requestIDKey is the context key holding the id of an outgoing request.
type requestIDKey struct{}

// RequestIDHeader carries the request id to the backends.
const RequestIDHeader = "X-Request-ID"

// Manager stores and retrieves request ids in a context.
type Manager struct{}

var _ model.RequestContextManager = (*Manager)(nil)

// NewManager creates a new request context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetRequestIDToContext returns a context carrying requestID. Callers that
// want to correlate or cancel a specific outstanding request set the id
// before issuing it.
func (m *Manager) SetRequestIDToContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestIDFromContext returns the request id stored in ctx.
func (m *Manager) GetRequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// EnsureRequestID returns ctx unchanged when it already carries a request
// id, otherwise a derived context with a fresh random id.
func (m *Manager) EnsureRequestID(ctx context.Context) (context.Context, string) {
	if id, ok := m.GetRequestIDFromContext(ctx); ok {
		return ctx, id
	}
	id := uuid.NewString()
	return m.SetRequestIDToContext(ctx, id), id
}
