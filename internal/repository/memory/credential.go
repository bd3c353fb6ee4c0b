// Package memory keeps the session token in process memory only.
package memory

import (
	"context"
	"sync"

	"github.com/julis-sh/mitgliederinfo/internal/model"
)

var _ model.CredentialStore = (*CredentialRepository)(nil)

type CredentialRepository struct {
	mu    sync.RWMutex
	token string
	set   bool
}

func NewCredentialRepository() *CredentialRepository {
	return &CredentialRepository{}
}

func (r *CredentialRepository) Put(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.token = token
	r.set = true
	return nil
}

func (r *CredentialRepository) Get(_ context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.set {
		return "", model.ErrNotFound
	}
	return r.token, nil
}

func (r *CredentialRepository) Delete(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.token = ""
	r.set = false
	return nil
}
