package config

import "time"

// Platform classes select the default API endpoint when BaseURL is not set
// explicitly, mirroring how the mobile builds pick their dev endpoints.
const (
	PlatformAndroidEmulator = "android-emulator"
	PlatformIOSSimulator    = "ios-simulator"
	PlatformDevice          = "device"
)

// baseURLFor maps a platform class to its default endpoint. The Android
// emulator cannot reach the host's localhost directly and uses the special
// 10.0.2.2 alias instead.
func baseURLFor(platform string) string {
	switch platform {
	case PlatformAndroidEmulator:
		return "http://10.0.2.2:3000/api"
	case PlatformDevice:
		return "https://api.tapmap.app/api"
	default:
		return "http://localhost:3000/api"
	}
}

// Config holds runtime settings for the TapMap CLI.
//
// Fields:
//   - BaseURL: root of the TapMap REST API, including the /api prefix.
//     When empty, it is derived from Platform.
//   - Platform: android-emulator, ios-simulator or device.
//   - DatabaseDSN: sqlite DSN for the local session database.
//   - DeviceKeyPath: file holding the at-rest encryption key.
//   - LogLevel: debug, info, warn or error.
//   - RequestTimeout: per-request HTTP deadline.
//   - StartupValidateTimeout: how long startup waits for token validation
//     before adopting the cached session.
//   - RevalidateDelay: initial backoff between background revalidation
//     attempts.
type Config struct {
	BaseURL                string
	Platform               string
	DatabaseDSN            string
	DeviceKeyPath          string
	LogLevel               string
	RequestTimeout         time.Duration
	StartupValidateTimeout time.Duration
	RevalidateDelay        time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = ""
	c.Platform = PlatformIOSSimulator
	c.DatabaseDSN = "tapmap.db"
	c.DeviceKeyPath = "tapmap.key"
	c.LogLevel = "info"
	c.RequestTimeout = 15 * time.Second
	c.StartupValidateTimeout = 5 * time.Second
	c.RevalidateDelay = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), environment variables and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	if cfg.BaseURL == "" {
		cfg.BaseURL = baseURLFor(cfg.Platform)
	}
	return cfg
}
