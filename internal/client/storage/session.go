package storage

import (
	"context"
	"database/sql"

	"github.com/tapmap-app/tapmap/internal/client/models"
	"github.com/tapmap-app/tapmap/internal/cryptox"
	"github.com/tapmap-app/tapmap/internal/dbx"
	"github.com/tapmap-app/tapmap/internal/logging"
)

// Fixed keys for the two persisted session entries.
const (
	keyToken = "auth_token"
	keyUser  = "auth_user"
)

// SessionStore owns the persisted (token, user) pair. Both values are
// sealed with the device key before hitting disk, and written or removed
// together inside one transaction so a partial session can never survive a
// restart.
//
// Read failures degrade to "no session" (fail-open to the logged-out
// state); corruption of either sealed value is treated the same way.
type SessionStore struct {
	db  *sql.DB
	key []byte
	log logging.Logger
}

func NewSessionStore(db *sql.DB, deviceKey []byte, log logging.Logger) *SessionStore {
	return &SessionStore{db: db, key: deviceKey, log: log}
}

// Load returns the stored session, or ("", nil, nil) when absent or
// unreadable.
func (s *SessionStore) Load(ctx context.Context) (string, *models.User, error) {
	repo := NewSQLiteRepository(s.db)

	tokenBlob, err := repo.Get(ctx, keyToken)
	if err != nil {
		s.log.Warn(ctx, "session read failed, treating as logged out", "error", err)
		return "", nil, nil
	}
	userBlob, err := repo.Get(ctx, keyUser)
	if err != nil {
		s.log.Warn(ctx, "session read failed, treating as logged out", "error", err)
		return "", nil, nil
	}
	if tokenBlob == nil || userBlob == nil {
		return "", nil, nil
	}

	var token string
	if err := cryptox.Open(tokenBlob, s.key, &token); err != nil {
		s.log.Warn(ctx, "stored token unreadable, treating as logged out", "error", err)
		return "", nil, nil
	}
	var user models.User
	if err := cryptox.Open(userBlob, s.key, &user); err != nil {
		s.log.Warn(ctx, "stored user unreadable, treating as logged out", "error", err)
		return "", nil, nil
	}

	return token, &user, nil
}

// Save persists token and user atomically.
func (s *SessionStore) Save(ctx context.Context, token string, user *models.User) error {
	tokenBlob, err := cryptox.Seal(token, s.key)
	if err != nil {
		return err
	}
	userBlob, err := cryptox.Seal(user, s.key)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyToken, tokenBlob); err != nil {
			return err
		}
		return repo.Set(ctx, keyUser, userBlob)
	})
}

// SaveUser replaces only the persisted user record; the token is untouched.
func (s *SessionStore) SaveUser(ctx context.Context, user *models.User) error {
	userBlob, err := cryptox.Seal(user, s.key)
	if err != nil {
		return err
	}
	return NewSQLiteRepository(s.db).Set(ctx, keyUser, userBlob)
}

// Clear removes both entries atomically.
func (s *SessionStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, keyToken); err != nil {
			return err
		}
		return repo.Delete(ctx, keyUser)
	})
}

// HasToken reports whether a token entry exists. No unsealing, no network.
func (s *SessionStore) HasToken(ctx context.Context) bool {
	blob, err := NewSQLiteRepository(s.db).Get(ctx, keyToken)
	if err != nil {
		s.log.Warn(ctx, "token existence check failed", "error", err)
		return false
	}
	return blob != nil
}
