package session_test

import (
	"context"
	"errors"
	"testing"

	"kanbanBoard/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStorage struct {
	*session.MemoryStorage
	failSet    bool
	failDelete bool
}

func (f *failingStorage) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return f.MemoryStorage.Set(ctx, key, value)
}

func (f *failingStorage) Delete(ctx context.Context, key string) error {
	if f.failDelete {
		return errors.New("read-only")
	}
	return f.MemoryStorage.Delete(ctx, key)
}

// TestStore_New тестирует чтение сессии из хранилища при старте
func TestStore_New(t *testing.T) {
	ctx := context.Background()

	t.Run("empty storage", func(t *testing.T) {
		store, err := session.New(ctx, session.NewMemoryStorage())
		require.NoError(t, err)
		assert.False(t, store.Authenticated())
		assert.Empty(t, store.Token())
		assert.Empty(t, store.Username())
	})

	t.Run("stored token", func(t *testing.T) {
		storage := session.NewMemoryStorage()
		require.NoError(t, storage.Set(ctx, session.TokenKey, "abc"))
		require.NoError(t, storage.Set(ctx, session.UsernameKey, "alice"))

		store, err := session.New(ctx, storage)
		require.NoError(t, err)
		assert.True(t, store.Authenticated())
		assert.Equal(t, "abc", store.Token())
		assert.Equal(t, "alice", store.Username())
	})

	t.Run("username without token", func(t *testing.T) {
		storage := session.NewMemoryStorage()
		require.NoError(t, storage.Set(ctx, session.UsernameKey, "alice"))

		store, err := session.New(ctx, storage)
		require.NoError(t, err)
		assert.False(t, store.Authenticated())
		assert.Empty(t, store.Username())
	})
}

// TestStore_LoginLogout тестирует жизненный цикл сессии
func TestStore_LoginLogout(t *testing.T) {
	ctx := context.Background()
	storage := session.NewMemoryStorage()

	store, err := session.New(ctx, storage)
	require.NoError(t, err)

	require.NoError(t, store.Login(ctx, "token-1", "bob"))
	assert.True(t, store.Authenticated())
	assert.Equal(t, "token-1", store.Token())
	assert.Equal(t, "bob", store.Username())

	value, ok, err := storage.Get(ctx, session.TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "token-1", value)

	// новая сессия видит сохранённые значения
	reloaded, err := session.New(ctx, storage)
	require.NoError(t, err)
	assert.True(t, reloaded.Authenticated())

	require.NoError(t, store.Logout(ctx))
	assert.False(t, store.Authenticated())
	assert.Empty(t, store.Username())

	_, ok, err = storage.Get(ctx, session.TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = storage.Get(ctx, session.UsernameKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestStore_StorageErrors тестирует ошибки хранилища
func TestStore_StorageErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("login fails to persist", func(t *testing.T) {
		storage := &failingStorage{MemoryStorage: session.NewMemoryStorage(), failSet: true}
		store, err := session.New(ctx, storage)
		require.NoError(t, err)

		err = store.Login(ctx, "token", "carol")
		assert.Error(t, err)
		assert.False(t, store.Authenticated())
	})

	t.Run("logout clears memory even on storage error", func(t *testing.T) {
		storage := &failingStorage{MemoryStorage: session.NewMemoryStorage()}
		store, err := session.New(ctx, storage)
		require.NoError(t, err)
		require.NoError(t, store.Login(ctx, "token", "carol"))

		storage.failDelete = true
		err = store.Logout(ctx)
		assert.Error(t, err)
		assert.False(t, store.Authenticated())
	})
}
