package storage

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapmap-app/tapmap/internal/client/models"
	"github.com/tapmap-app/tapmap/internal/cryptox"
	"github.com/tapmap-app/tapmap/internal/logging"
)

func newSessionStore(t *testing.T) *SessionStore {
	t.Helper()
	db := setupDB(t)
	key, err := cryptox.LoadOrCreateDeviceKey(filepath.Join(t.TempDir(), "device.key"))
	require.NoError(t, err)
	return NewSessionStore(db, key, logging.New(io.Discard, "error"))
}

func sampleUser() *models.User {
	return &models.User{
		ID:    "u1",
		Name:  "Alice",
		Email: "alice@example.com",
		Kind:  models.AccountUser,
	}
}

func TestSessionStore_SaveThenLoad(t *testing.T) {
	s := newSessionStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "tok-abc", sampleUser()))

	token, user, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", token)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, models.AccountUser, user.Kind)
}

func TestSessionStore_LoadEmpty(t *testing.T) {
	s := newSessionStore(t)

	token, user, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
}

func TestSessionStore_HasToken(t *testing.T) {
	s := newSessionStore(t)
	ctx := context.Background()

	assert.False(t, s.HasToken(ctx))
	require.NoError(t, s.Save(ctx, "tok", sampleUser()))
	assert.True(t, s.HasToken(ctx))
}

func TestSessionStore_ClearRemovesBoth(t *testing.T) {
	s := newSessionStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "tok", sampleUser()))
	require.NoError(t, s.Clear(ctx))

	assert.False(t, s.HasToken(ctx))
	token, user, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
}

func TestSessionStore_SaveUserKeepsToken(t *testing.T) {
	s := newSessionStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "tok", sampleUser()))

	updated := sampleUser()
	updated.Name = "New Name"
	require.NoError(t, s.SaveUser(ctx, updated))

	token, user, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, "New Name", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestSessionStore_CorruptBlobDegradesToLoggedOut(t *testing.T) {
	s := newSessionStore(t)
	ctx := context.Background()

	repo := NewSQLiteRepository(s.db)
	require.NoError(t, repo.Set(ctx, "auth_token", []byte("garbage")))
	require.NoError(t, repo.Set(ctx, "auth_user", []byte("garbage")))

	token, user, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
}
