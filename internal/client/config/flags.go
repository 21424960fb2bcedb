package config

import (
	"flag"
	"os"
	"time"

	"github.com/tapmap-app/tapmap/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the TapMap API (default from Config)
//	-p string   platform class resolving the default base URL
//	-d string   sqlite DSN for the local session database
//	-k string   path to the device key file
//	-l string   log level
//	-t int      request timeout in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-p", "-d", "-k", "-l", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the TapMap API")
	fs.StringVar(&cfg.Platform, "p", cfg.Platform, "platform class (android-emulator, ios-simulator, device)")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "sqlite DSN for the local session database")
	fs.StringVar(&cfg.DeviceKeyPath, "k", cfg.DeviceKeyPath, "path to the device key file")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
