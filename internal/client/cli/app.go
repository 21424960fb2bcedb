package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/tapmap-app/tapmap/internal/client/api"
	"github.com/tapmap-app/tapmap/internal/client/config"
	"github.com/tapmap-app/tapmap/internal/client/services"
	"github.com/tapmap-app/tapmap/internal/client/session"
	"github.com/tapmap-app/tapmap/internal/client/storage"
	"github.com/tapmap-app/tapmap/internal/cryptox"
	"github.com/tapmap-app/tapmap/internal/logging"

	_ "modernc.org/sqlite"
)

// App is the assembled CLI client.
type App struct {
	config    *config.Config
	log       logging.Logger
	session   *session.Controller
	discovery *services.DiscoveryService
	reader    *bufio.Reader
	out       io.Writer
}

// NewApp builds the full client stack: local database, device key, HTTP
// client, services and the session controller.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := storage.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	deviceKey, err := cryptox.LoadOrCreateDeviceKey(c.DeviceKeyPath)
	if err != nil {
		log.Error(ctx, "error loading device key", "error", err)
		return nil, err
	}

	store := storage.NewSessionStore(db, deviceKey, log)

	apiCfg := api.DefaultConfig(c.BaseURL)
	apiCfg.Timeout = c.RequestTimeout
	apiClient := api.New(apiCfg, log)

	auth := services.NewAuthService(apiClient, store, log)
	discovery := services.NewDiscoveryService(apiClient, log)

	sessionCfg := session.DefaultConfig()
	sessionCfg.StartupValidateTimeout = c.StartupValidateTimeout
	sessionCfg.RevalidateDelay = c.RevalidateDelay
	controller := session.NewController(auth, sessionCfg, log)

	return &App{
		config:    c,
		log:       log,
		session:   controller,
		discovery: discovery,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}, nil
}

// Run recovers the persisted session and enters the REPL.
func (a *App) Run(ctx context.Context) {
	a.session.Start(ctx)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.State().Authenticated()
}
