// Package config loads runtime configuration for the TapMap CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables with the TAPMAP_ prefix (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// When no base URL is given by any source, the platform class picks one:
// android-emulator maps to http://10.0.2.2:3000/api, ios-simulator to
// http://localhost:3000/api and device to the production endpoint.
//
// Supported flags
//
//	-a string   base URL of the TapMap API
//	-p string   platform class (android-emulator, ios-simulator, device)
//	-d string   sqlite DSN for the local session database
//	-k string   path to the device key file
//	-l string   log level (debug, info, warn, error)
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "15s" or integer nanoseconds:
//
//	{
//	  "base_url": "https://api.tapmap.app/api",
//	  "platform": "device",
//	  "database_dsn": "tapmap.db",
//	  "device_key_path": "tapmap.key",
//	  "log_level": "info",
//	  "request_timeout": "15s",
//	  "startup_validate_timeout": "5s",
//	  "revalidate_delay": "3s"
//	}
//
// Primary API
//
//   - type Config                     — holds the API endpoint, local storage paths and timing knobs
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, env, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
package config
