package model

import "context"

// CredentialStore persists the single membership session token under a
// fixed key.
type CredentialStore interface {
	Put(ctx context.Context, token string) error
	// Get returns ErrNotFound when no token is stored.
	Get(ctx context.Context) (string, error)
	// Delete removes the token. Deleting an absent token is not an error.
	Delete(ctx context.Context) error
}
