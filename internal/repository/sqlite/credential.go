package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julis-sh/mitgliederinfo/internal/model"
)

var _ model.CredentialStore = (*CredentialRepository)(nil)

// CredentialRepository stores one token under a fixed service and account.
type CredentialRepository struct {
	db      *Connection
	service string
	account string
}

func NewCredentialRepository(db *Connection, service, account string) *CredentialRepository {
	return &CredentialRepository{
		db:      db,
		service: service,
		account: account,
	}
}

func (r *CredentialRepository) Put(ctx context.Context, token string) error {
	query := `INSERT INTO credentials (service, account, secret, updated_at)
			  VALUES (?, ?, ?, ?)
			  ON CONFLICT (service, account) DO UPDATE SET secret = excluded.secret, updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query, r.service, r.account, token, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

func (r *CredentialRepository) Get(ctx context.Context) (string, error) {
	var token string
	query := `SELECT secret FROM credentials WHERE service = ? AND account = ?`

	err := r.db.QueryRowContext(ctx, query, r.service, r.account).Scan(&token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to get credential: %w", err)
	}
	return token, nil
}

func (r *CredentialRepository) Delete(ctx context.Context) error {
	query := `DELETE FROM credentials WHERE service = ? AND account = ?`

	if _, err := r.db.ExecContext(ctx, query, r.service, r.account); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}
