package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// envConfig maps TAPMAP_* environment variables. Pointer fields distinguish
// "unset" from "set to the zero value" so absent variables never clobber
// values from earlier sources.
type envConfig struct {
	BaseURL                *string        `env:"TAPMAP_BASE_URL"`
	Platform               *string        `env:"TAPMAP_PLATFORM"`
	DatabaseDSN            *string        `env:"TAPMAP_DATABASE_DSN"`
	DeviceKeyPath          *string        `env:"TAPMAP_DEVICE_KEY_PATH"`
	LogLevel               *string        `env:"TAPMAP_LOG_LEVEL"`
	RequestTimeout         *time.Duration `env:"TAPMAP_REQUEST_TIMEOUT"`
	StartupValidateTimeout *time.Duration `env:"TAPMAP_STARTUP_VALIDATE_TIMEOUT"`
	RevalidateDelay        *time.Duration `env:"TAPMAP_REVALIDATE_DELAY"`
}

// parseEnv overlays Config with values from the environment. Parse errors
// panic, matching the JSON loader.
func parseEnv(cfg *Config) {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		panic(err)
	}

	if ec.BaseURL != nil {
		cfg.BaseURL = *ec.BaseURL
	}
	if ec.Platform != nil {
		cfg.Platform = *ec.Platform
	}
	if ec.DatabaseDSN != nil {
		cfg.DatabaseDSN = *ec.DatabaseDSN
	}
	if ec.DeviceKeyPath != nil {
		cfg.DeviceKeyPath = *ec.DeviceKeyPath
	}
	if ec.LogLevel != nil {
		cfg.LogLevel = *ec.LogLevel
	}
	if ec.RequestTimeout != nil {
		cfg.RequestTimeout = *ec.RequestTimeout
	}
	if ec.StartupValidateTimeout != nil {
		cfg.StartupValidateTimeout = *ec.StartupValidateTimeout
	}
	if ec.RevalidateDelay != nil {
		cfg.RevalidateDelay = *ec.RevalidateDelay
	}
}
