package spotify

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStoreMissingFile(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "refresh_token"))

	token, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "", token)
}

func TestTokenStoreLoadsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refresh_token")
	require.NoError(t, os.WriteFile(path, []byte("first\n"), 0o600))

	store := NewTokenStore(path)

	token, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "first", token)

	require.NoError(t, os.WriteFile(path, []byte("changed on disk"), 0o600))

	token, err = store.Get()
	require.NoError(t, err)
	assert.Equal(t, "first", token)
}

func TestTokenStoreSetOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refresh_token")
	require.NoError(t, os.WriteFile(path, []byte("a much longer old token value"), 0o600))

	store := NewTokenStore(path)
	require.NoError(t, store.Set("new"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	token, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "new", token)

	reloaded, err := NewTokenStore(path).Get()
	require.NoError(t, err)
	assert.Equal(t, "new", reloaded)
}

func TestTokenStoreConcurrentAccess(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "refresh_token"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Get()
		}()
		go func() {
			defer wg.Done()
			store.Set("token")
		}()
	}
	wg.Wait()

	token, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "token", token)
}
