// Package services contains application services for the TapMap client.
// This file defines the authentication service: register, login, logout,
// token validation, profile management and housekeeping of the locally
// persisted session.
package services

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/tapmap-app/tapmap/internal/client/api"
	"github.com/tapmap-app/tapmap/internal/client/models"
	"github.com/tapmap-app/tapmap/internal/client/storage"
	"github.com/tapmap-app/tapmap/internal/logging"
)

// RegisterRequest is the registration payload. Validation runs client-side
// before any network call.
type RegisterRequest struct {
	Name      string             `json:"name" validate:"required,min=2,max=100"`
	Email     string             `json:"email" validate:"required,email"`
	Password  string             `json:"password" validate:"required,min=8"`
	Phone     string             `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	BirthDate string             `json:"birthDate,omitempty"`
	Kind      models.AccountKind `json:"accountType" validate:"required,oneof=user business"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdate carries the mutable user fields. Email is deliberately
// absent: it is immutable in this flow and the server would reject it.
type ProfileUpdate struct {
	Name      string `json:"name" validate:"required,min=2,max=100"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	BirthDate string `json:"birthDate,omitempty"`
	PhotoURL  string `json:"photoUrl,omitempty"`
}

// PasswordChange rotates the account password.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,nefield=CurrentPassword"`
}

// authPayload is the data section returned by register/login.
type authPayload struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// AuthService orchestrates authentication against the API and the local
// session store. It is the sole writer of the in-memory (token, user)
// mirror; the mirror is replaced wholesale under the mutex so readers never
// observe a mix of old and new fields.
type AuthService struct {
	api   *api.Client
	store *storage.SessionStore
	log   logging.Logger

	mu    sync.RWMutex
	token string
	user  *models.User
}

// NewAuthService wires the service into the API client: it becomes the
// client's token source and its 401 hook.
func NewAuthService(apiClient *api.Client, store *storage.SessionStore, log logging.Logger) *AuthService {
	s := &AuthService{api: apiClient, store: store, log: log}
	apiClient.SetTokenSource(func(ctx context.Context) string { return s.Token() })
	apiClient.SetOnUnauthorized(s.invalidateLocal)
	return s
}

// Bootstrap loads the persisted session into the in-memory mirror. Call
// once at startup, before any other method.
func (s *AuthService) Bootstrap(ctx context.Context) {
	token, user, err := s.store.Load(ctx)
	if err != nil {
		s.log.Warn(ctx, "session bootstrap failed", "error", err)
		return
	}
	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
}

// Register creates an account and, on success, persists the returned
// token+user pair atomically and caches the user in memory.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	env, err := s.api.Do(ctx, http.MethodPost, "/auth/register", req, false)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, envelopeError(env)
	}

	var payload authPayload
	if err := env.Decode(&payload); err != nil {
		return nil, err
	}

	s.persistSession(ctx, payload.Token, payload.User)
	return payload.User.Clone(), nil
}

// Login authenticates and persists the session like Register.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (*models.User, error) {
	if err := Validate(creds); err != nil {
		return nil, err
	}

	env, err := s.api.Do(ctx, http.MethodPost, "/auth/login", creds, false)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, envelopeError(env)
	}

	var payload authPayload
	if err := env.Decode(&payload); err != nil {
		return nil, err
	}

	s.persistSession(ctx, payload.Token, payload.User)
	return payload.User.Clone(), nil
}

// Logout notifies the server best-effort, then unconditionally clears local
// credentials. From the caller's perspective logout cannot fail.
func (s *AuthService) Logout(ctx context.Context) {
	if s.Token() != "" {
		if _, err := s.api.Do(ctx, http.MethodPost, "/auth/logout", nil, true); err != nil {
			s.log.Debug(ctx, "server logout notification failed", "error", err)
		}
	}
	s.invalidateLocal()
}

// ValidateToken asks the server whether the current token is still good.
//
// The three outcomes matter to the session layer and are kept apart:
//   - (true, nil): token valid
//   - (false, nil): token explicitly invalid; local credentials were cleared
//   - (false, err): indeterminate (timeout, unreachable server, 5xx);
//     the stored session is left alone
func (s *AuthService) ValidateToken(ctx context.Context) (bool, error) {
	token := s.Token()
	if token == "" {
		return false, nil
	}
	if tokenExpired(token, time.Now()) {
		s.invalidateLocal()
		return false, nil
	}

	env, err := s.api.Do(ctx, http.MethodGet, "/auth/validate", nil, true)
	if err != nil {
		if isUnauthorized(err) {
			// The 401 hook has already cleared local state.
			return false, nil
		}
		return false, err
	}
	if !env.Success {
		s.invalidateLocal()
		return false, nil
	}
	return true, nil
}

// GetProfile fetches the current user and refreshes both the in-memory and
// the persisted user record. The token is never touched.
func (s *AuthService) GetProfile(ctx context.Context) (*models.User, error) {
	env, err := s.api.Do(ctx, http.MethodGet, "/auth/profile", nil, true)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, envelopeError(env)
	}

	var user models.User
	if err := env.Decode(&user); err != nil {
		return nil, err
	}

	s.cacheUser(ctx, &user)
	return user.Clone(), nil
}

// UpdateProfile sends the mutable fields and adopts the server's view of
// the updated user.
func (s *AuthService) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*models.User, error) {
	if err := Validate(upd); err != nil {
		return nil, err
	}

	env, err := s.api.Do(ctx, http.MethodPut, "/auth/profile", upd, true)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, envelopeError(env)
	}

	var user models.User
	if err := env.Decode(&user); err != nil {
		return nil, err
	}

	s.cacheUser(ctx, &user)
	return user.Clone(), nil
}

// ChangePassword rotates the password. Neither token nor cached user change.
func (s *AuthService) ChangePassword(ctx context.Context, chg PasswordChange) error {
	if err := Validate(chg); err != nil {
		return err
	}

	env, err := s.api.Do(ctx, http.MethodPut, "/auth/change-password", chg, true)
	if err != nil {
		return err
	}
	if !env.Success {
		return envelopeError(env)
	}
	return nil
}

// HasToken reports whether a token is cached. No network call.
func (s *AuthService) HasToken() bool {
	return s.Token() != ""
}

// Token returns the current bearer token, or "".
func (s *AuthService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CurrentUser returns a copy of the cached user, or nil when logged out.
func (s *AuthService) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

// persistSession replaces the in-memory mirror and writes both entries to
// storage in one transaction. A failed write is logged and swallowed: the
// in-memory session stays usable and the next successful write reconverges.
func (s *AuthService) persistSession(ctx context.Context, token string, user *models.User) {
	s.mu.Lock()
	s.token = token
	s.user = user.Clone()
	s.mu.Unlock()

	if err := s.store.Save(ctx, token, user); err != nil {
		s.log.Warn(ctx, "session write failed, memory and disk may diverge", "error", err)
	}
}

// cacheUser swaps the in-memory user pointer and refreshes the persisted
// record. The swap is whole-object: no partial field merges.
func (s *AuthService) cacheUser(ctx context.Context, user *models.User) {
	s.mu.Lock()
	s.user = user.Clone()
	s.mu.Unlock()

	if err := s.store.SaveUser(ctx, user); err != nil {
		s.log.Warn(ctx, "user write failed, memory and disk may diverge", "error", err)
	}
}

// invalidateLocal clears the in-memory mirror and the persisted pair.
// Used by logout, explicit invalid-token verdicts and the global 401 hook.
func (s *AuthService) invalidateLocal() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.store.Clear(ctx); err != nil {
		s.log.Warn(ctx, "session clear failed", "error", err)
	}
}
