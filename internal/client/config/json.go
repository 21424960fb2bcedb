package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/tapmap-app/tapmap/internal/flagx"
	"github.com/tapmap-app/tapmap/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "15s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	BaseURL                string         `json:"base_url"`
	Platform               string         `json:"platform"`
	DatabaseDSN            string         `json:"database_dsn"`
	DeviceKeyPath          string         `json:"device_key_path"`
	LogLevel               string         `json:"log_level"`
	RequestTimeout         timex.Duration `json:"request_timeout"`
	StartupValidateTimeout timex.Duration `json:"startup_validate_timeout"`
	RevalidateDelay        timex.Duration `json:"revalidate_delay"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config flags via
// flagx.JsonConfigFlags(); when neither is given, no JSON is loaded. Only
// fields present in the file override the existing Config values. Read or
// unmarshal errors panic (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.Platform != "" {
		cfg.Platform = jc.Platform
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.DeviceKeyPath != "" {
		cfg.DeviceKeyPath = jc.DeviceKeyPath
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.StartupValidateTimeout.Duration != 0 {
		cfg.StartupValidateTimeout = time.Duration(jc.StartupValidateTimeout.Duration)
	}
	if jc.RevalidateDelay.Duration != 0 {
		cfg.RevalidateDelay = time.Duration(jc.RevalidateDelay.Duration)
	}
}
