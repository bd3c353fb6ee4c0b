package model

import "context"

// RequestContextManager attaches request ids to outgoing calls.
type RequestContextManager interface {
	SetRequestIDToContext(ctx context.Context, requestID string) context.Context
	GetRequestIDFromContext(ctx context.Context) (string, bool)
}
