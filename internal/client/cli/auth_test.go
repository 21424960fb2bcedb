package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapmap-app/tapmap/internal/client/api"
	"github.com/tapmap-app/tapmap/internal/client/models"
	"github.com/tapmap-app/tapmap/internal/client/services"
	"github.com/tapmap-app/tapmap/internal/client/session"
	"github.com/tapmap-app/tapmap/internal/logging"
)

// stubAuth is a minimal session.AuthAPI for command tests.
type stubAuth struct {
	loginUser    *models.User
	loginErr     error
	registerUser *models.User
	registerErr  error
}

func (s *stubAuth) Bootstrap(ctx context.Context)                    {}
func (s *stubAuth) HasToken() bool                                   { return false }
func (s *stubAuth) CurrentUser() *models.User                        { return nil }
func (s *stubAuth) ValidateToken(ctx context.Context) (bool, error)  { return false, nil }
func (s *stubAuth) Logout(ctx context.Context)                       {}
func (s *stubAuth) GetProfile(ctx context.Context) (*models.User, error) {
	return s.loginUser, nil
}
func (s *stubAuth) Login(ctx context.Context, creds services.Credentials) (*models.User, error) {
	return s.loginUser, s.loginErr
}
func (s *stubAuth) Register(ctx context.Context, req services.RegisterRequest) (*models.User, error) {
	return s.registerUser, s.registerErr
}
func (s *stubAuth) UpdateProfile(ctx context.Context, upd services.ProfileUpdate) (*models.User, error) {
	return s.loginUser, nil
}
func (s *stubAuth) ChangePassword(ctx context.Context, chg services.PasswordChange) error {
	return nil
}

func newTestApp(t *testing.T, auth session.AuthAPI, input string) (*App, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	controller := session.NewController(auth, session.DefaultConfig(), logging.New(io.Discard, "error"))
	controller.Start(context.Background())

	return &App{
		session: controller,
		reader:  bufio.NewReader(strings.NewReader(input)),
		out:     out,
	}, out
}

func stubInputs(t *testing.T, password string) {
	t.Helper()
	origPassword := getPassword
	getPassword = func(w io.Writer, prompt string) ([]byte, error) {
		return []byte(password), nil
	}
	t.Cleanup(func() { getPassword = origPassword })
}

func TestLoginCommand_Success(t *testing.T) {
	stubInputs(t, "secret123")
	user := &models.User{ID: "u1", Name: "Alice", Email: "alice@example.com"}
	app, out := newTestApp(t, &stubAuth{loginUser: user}, "alice@example.com\n")

	require.NoError(t, app.Login(context.Background()))

	assert.True(t, app.isLoggedIn())
	assert.Contains(t, out.String(), "Signed in as Alice")
}

func TestLoginCommand_FailurePrintsServerMessage(t *testing.T) {
	stubInputs(t, "wrong")
	authErr := &api.Error{Status: 401, Message: "invalid email or password"}
	app, out := newTestApp(t, &stubAuth{loginErr: authErr}, "alice@example.com\n")

	err := app.Login(context.Background())
	require.Error(t, err)

	assert.False(t, app.isLoggedIn())
	assert.Contains(t, out.String(), "invalid email or password")
}

func TestRegisterCommand_Success(t *testing.T) {
	stubInputs(t, "secret123")
	user := &models.User{ID: "u2", Name: "Bob", Email: "bob@example.com"}
	app, out := newTestApp(t, &stubAuth{registerUser: user}, "Bob\nbob@example.com\n\n")

	require.NoError(t, app.Register(context.Background()))

	assert.True(t, app.isLoggedIn())
	assert.Contains(t, out.String(), "Welcome to TapMap, Bob!")
}

func TestLogoutCommand_AlwaysSignsOut(t *testing.T) {
	stubInputs(t, "secret123")
	user := &models.User{ID: "u1", Name: "Alice"}
	app, out := newTestApp(t, &stubAuth{loginUser: user}, "alice@example.com\n")
	require.NoError(t, app.Login(context.Background()))

	require.NoError(t, app.Logout(context.Background()))

	assert.False(t, app.isLoggedIn())
	assert.Contains(t, out.String(), "Signed out")
}

func TestProfileCommand_NotSignedIn(t *testing.T) {
	app, out := newTestApp(t, &stubAuth{}, "")

	require.NoError(t, app.Profile(context.Background()))

	assert.Contains(t, out.String(), "Not signed in")
}
