// Package session drives the UI-visible authentication lifecycle:
// startup session recovery, the bounded validation race, background
// revalidation and profile refresh, and the login/logout/profile actions.
//
// The controller owns only derived state. Credentials live in the auth
// service and the session store; the controller rebuilds its view from
// service responses and is never the source of truth.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/tapmap-app/tapmap/internal/client/api"
	"github.com/tapmap-app/tapmap/internal/client/models"
	"github.com/tapmap-app/tapmap/internal/client/services"
	"github.com/tapmap-app/tapmap/internal/logging"
)

// AuthAPI is the slice of the auth service the controller needs.
// *services.AuthService satisfies it.
type AuthAPI interface {
	Bootstrap(ctx context.Context)
	HasToken() bool
	CurrentUser() *models.User
	ValidateToken(ctx context.Context) (bool, error)
	Login(ctx context.Context, creds services.Credentials) (*models.User, error)
	Register(ctx context.Context, req services.RegisterRequest) (*models.User, error)
	Logout(ctx context.Context)
	GetProfile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, upd services.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, chg services.PasswordChange) error
}

// Config holds the controller's timing knobs. The startup validation bound
// is deliberately separate from (and shorter than) the HTTP client's own
// request timeout, so a slow network cannot block app startup.
type Config struct {
	StartupValidateTimeout time.Duration
	RevalidateDelay        time.Duration
	RevalidateAttempts     uint64
}

func DefaultConfig() Config {
	return Config{
		StartupValidateTimeout: 5 * time.Second,
		RevalidateDelay:        3 * time.Second,
		RevalidateAttempts:     2,
	}
}

// Controller is the session state machine.
//
// Transitions: INITIALIZING → {AUTHENTICATED, UNAUTHENTICATED}; from
// AUTHENTICATED, an explicit logout or a failed background revalidation
// moves to UNAUTHENTICATED; profile refreshes self-transition without
// changing authentication status.
type Controller struct {
	auth AuthAPI
	cfg  Config
	log  logging.Logger

	mu        sync.Mutex
	state     State
	gen       uint64
	listeners []func(State)
}

func NewController(auth AuthAPI, cfg Config, log logging.Logger) *Controller {
	return &Controller{
		auth:  auth,
		cfg:   cfg,
		log:   log,
		state: State{Status: StatusInitializing, Loading: true},
	}
}

// State returns a snapshot of the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe registers fn to be called after every state change. Callbacks
// receive snapshots and run outside the controller lock.
func (c *Controller) Subscribe(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Start runs the startup recovery protocol. It returns once the session has
// resolved to AUTHENTICATED or UNAUTHENTICATED; background revalidation and
// profile refresh may continue on ctx afterwards.
func (c *Controller) Start(ctx context.Context) {
	c.auth.Bootstrap(ctx)

	gen := c.bump()

	if !c.auth.HasToken() {
		// No stored token: resolved without any network call.
		c.apply(gen, func(s *State) {
			s.Status = StatusUnauthenticated
			s.Loading = false
			s.User = nil
		})
		return
	}

	vctx, cancel := context.WithTimeout(ctx, c.cfg.StartupValidateTimeout)
	valid, err := c.auth.ValidateToken(vctx)
	cancel()

	switch {
	case err == nil && valid:
		c.becomeAuthenticated(gen)
		go c.refreshProfile(ctx, gen)

	case err == nil && !valid:
		// Explicit verdict: the server rejected the token and the service
		// has already cleared storage.
		c.apply(gen, func(s *State) {
			s.Status = StatusUnauthenticated
			s.Loading = false
			s.User = nil
		})

	default:
		// Indeterminate: timeout or transport failure says nothing about
		// the token. Adopt the cached user optimistically and settle the
		// question in the background.
		c.log.Warn(ctx, "startup validation inconclusive, adopting cached session", "error", err)
		c.becomeAuthenticated(gen)
		go c.revalidate(ctx, gen)
	}
}

// Login authenticates and, on success, transitions to AUTHENTICATED.
// The error is returned raw so screens can show field-specific messages.
func (c *Controller) Login(ctx context.Context, creds services.Credentials) error {
	gen := c.begin()

	user, err := c.auth.Login(ctx, creds)
	if err != nil {
		c.fail(gen, err)
		return err
	}

	c.apply(gen, func(s *State) {
		s.Status = StatusAuthenticated
		s.Loading = false
		s.User = user
		s.Err = ""
	})
	go c.refreshProfile(ctx, gen)
	return nil
}

// Register creates an account and signs the new user in.
func (c *Controller) Register(ctx context.Context, req services.RegisterRequest) error {
	gen := c.begin()

	user, err := c.auth.Register(ctx, req)
	if err != nil {
		c.fail(gen, err)
		return err
	}

	c.apply(gen, func(s *State) {
		s.Status = StatusAuthenticated
		s.Loading = false
		s.User = user
		s.Err = ""
	})
	return nil
}

// Logout always succeeds from the caller's perspective and always lands in
// UNAUTHENTICATED. Bumping the generation drops any in-flight background
// validation or refresh results.
func (c *Controller) Logout(ctx context.Context) {
	gen := c.bump()
	c.auth.Logout(ctx)
	c.apply(gen, func(s *State) {
		s.Status = StatusUnauthenticated
		s.Loading = false
		s.User = nil
		s.Err = ""
	})
}

// UpdateProfile saves the mutable fields and swaps the visible user record
// wholesale on success.
func (c *Controller) UpdateProfile(ctx context.Context, upd services.ProfileUpdate) error {
	gen := c.current()
	c.apply(gen, func(s *State) { s.Loading = true; s.Err = "" })

	user, err := c.auth.UpdateProfile(ctx, upd)
	if err != nil {
		c.fail(gen, err)
		return err
	}

	c.apply(gen, func(s *State) {
		s.Loading = false
		s.User = user
	})
	return nil
}

// ChangePassword rotates the password; session state is unaffected apart
// from the loading flag.
func (c *Controller) ChangePassword(ctx context.Context, chg services.PasswordChange) error {
	gen := c.current()
	c.apply(gen, func(s *State) { s.Loading = true; s.Err = "" })

	if err := c.auth.ChangePassword(ctx, chg); err != nil {
		c.fail(gen, err)
		return err
	}

	c.apply(gen, func(s *State) { s.Loading = false })
	return nil
}

// Refresh re-fetches the profile on demand.
func (c *Controller) Refresh(ctx context.Context) error {
	gen := c.current()

	user, err := c.auth.GetProfile(ctx)
	if err != nil {
		return err
	}

	c.apply(gen, func(s *State) { s.User = user })
	return nil
}

// revalidate retries the token check in the background after an
// inconclusive startup validation. Transient failures are retried with
// backoff; only an explicit invalid verdict tears the session down.
func (c *Controller) revalidate(ctx context.Context, gen uint64) {
	backoff := retry.WithMaxRetries(c.cfg.RevalidateAttempts, retry.NewExponential(c.cfg.RevalidateDelay))

	var valid bool
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		v, verr := c.auth.ValidateToken(ctx)
		if verr != nil {
			if api.IsTransient(verr) {
				return retry.RetryableError(verr)
			}
			return verr
		}
		valid = v
		return nil
	})

	if err != nil {
		// Still unreachable. Keep the optimistic session; a later 401 will
		// clear it through the client hook.
		c.log.Warn(ctx, "background revalidation gave up", "error", err)
		return
	}

	if !valid {
		c.log.Info(ctx, "background revalidation rejected stored token")
		c.apply(gen, func(s *State) {
			s.Status = StatusUnauthenticated
			s.Loading = false
			s.User = nil
		})
		return
	}

	c.refreshProfile(ctx, gen)
}

// refreshProfile updates the visible user from the server. Failures are
// ignored: the previously known user stays.
func (c *Controller) refreshProfile(ctx context.Context, gen uint64) {
	user, err := c.auth.GetProfile(ctx)
	if err != nil {
		c.log.Debug(ctx, "background profile refresh failed", "error", err)
		return
	}
	c.apply(gen, func(s *State) { s.User = user })
}

func (c *Controller) becomeAuthenticated(gen uint64) {
	user := c.auth.CurrentUser()
	c.apply(gen, func(s *State) {
		s.Status = StatusAuthenticated
		s.Loading = false
		s.User = user
		s.Err = ""
	})
}

// bump invalidates all outstanding async work and returns the new
// generation. Used by transitions that change authentication status.
func (c *Controller) bump() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return c.gen
}

func (c *Controller) current() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *Controller) begin() uint64 {
	gen := c.bump()
	c.apply(gen, func(s *State) { s.Loading = true; s.Err = "" })
	return gen
}

func (c *Controller) fail(gen uint64, err error) {
	c.apply(gen, func(s *State) {
		s.Loading = false
		s.Err = api.UserMessage(err)
	})
}

// apply mutates state and notifies listeners, but only if gen is still the
// current generation. Late results from abandoned async branches are
// silently dropped instead of clobbering a newer state.
func (c *Controller) apply(gen uint64, mutate func(*State)) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	mutate(&c.state)
	snapshot := c.state.clone()
	listeners := make([]func(State), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}
