package sqlite

import (
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julis-sh/mitgliederinfo/internal/model"
	"github.com/julis-sh/mitgliederinfo/internal/testutil"
)

func newMockRepository(t *testing.T) (*CredentialRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewCredentialRepository(&Connection{DB: db}, "authToken", "user"), mock
}

func TestCredentialRepository_Put(t *testing.T) {
	tests := []struct {
		name    string
		execErr error
		wantErr bool
	}{
		{name: "successful upsert"},
		{name: "database error", execErr: errors.New("disk I/O error"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)

			exec := mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO credentials (service, account, secret, updated_at)`)).
				WithArgs("authToken", "user", "jwt-token", sqlmock.AnyArg())
			if tt.execErr != nil {
				exec.WillReturnError(tt.execErr)
			} else {
				exec.WillReturnResult(sqlmock.NewResult(1, 1))
			}

			err := repo.Put(t.Context(), "jwt-token")
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.execErr)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCredentialRepository_Get(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT secret FROM credentials WHERE service = ? AND account = ?`)

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		want    string
		wantErr error
	}{
		{
			name: "stored token",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs("authToken", "user").
					WillReturnRows(sqlmock.NewRows([]string{"secret"}).AddRow("jwt-token"))
			},
			want: "jwt-token",
		},
		{
			name: "no token",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs("authToken", "user").WillReturnError(sql.ErrNoRows)
			},
			wantErr: model.ErrNotFound,
		},
		{
			name: "database error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs("authToken", "user").WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setup(mock)

			got, err := repo.Get(t.Context())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCredentialRepository_Delete(t *testing.T) {
	query := regexp.QuoteMeta(`DELETE FROM credentials WHERE service = ? AND account = ?`)

	t.Run("absent row is not an error", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec(query).WithArgs("authToken", "user").WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, repo.Delete(t.Context()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec(query).WithArgs("authToken", "user").WillReturnError(sql.ErrTxDone)

		err := repo.Delete(t.Context())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete credential")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCredentialRepository_InMemoryDatabase(t *testing.T) {
	ctx := t.Context()
	conn, err := NewConnection(ctx, ":memory:", testutil.MakeNoopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.Ping(ctx))

	repo := NewCredentialRepository(conn, "authToken", "user")
	other := NewCredentialRepository(conn, "authToken", "someone-else")

	_, err = repo.Get(ctx)
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, repo.Put(ctx, "first"))
	require.NoError(t, repo.Put(ctx, "second"))
	require.NoError(t, other.Put(ctx, "other"))

	token, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", token)

	require.NoError(t, repo.Delete(ctx))
	require.NoError(t, repo.Delete(ctx))
	_, err = repo.Get(ctx)
	assert.ErrorIs(t, err, model.ErrNotFound)

	token, err = other.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "other", token)
}

func TestCredentialRepository_SurvivesReopen(t *testing.T) {
	ctx := t.Context()
	dsn := filepath.Join(t.TempDir(), "credentials.db")

	conn, err := NewConnection(ctx, dsn, testutil.MakeNoopLogger())
	require.NoError(t, err)
	require.NoError(t, NewCredentialRepository(conn, "authToken", "user").Put(ctx, "persisted"))
	require.NoError(t, conn.Close())

	conn, err = NewConnection(ctx, dsn, testutil.MakeNoopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	token, err := NewCredentialRepository(conn, "authToken", "user").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", token)
}

func TestConnection_NilDB(t *testing.T) {
	conn := &Connection{}
	assert.NoError(t, conn.Close())
	assert.Error(t, conn.Ping(t.Context()))
}
