package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julis-sh/mitgliederinfo/internal/model"
)

func TestCredentialRepository(t *testing.T) {
	ctx := t.Context()
	repo := NewCredentialRepository()

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, repo.Put(ctx, "first"))
	require.NoError(t, repo.Put(ctx, "second"))

	token, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", token)

	require.NoError(t, repo.Delete(ctx))
	require.NoError(t, repo.Delete(ctx))

	_, err = repo.Get(ctx)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCredentialRepository_Concurrent(t *testing.T) {
	ctx := t.Context()
	repo := NewCredentialRepository()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Put(ctx, "token"))
		}()
		go func() {
			defer wg.Done()
			if token, err := repo.Get(ctx); err == nil {
				assert.Equal(t, "token", token)
			}
		}()
	}
	wg.Wait()

	token, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token", token)
}
