// Package config defines service configuration structures and loading hooks.
//
// Values are layered: defaults from New, then an optional YAML file named
// by TASTE_CONFIG, then TASTE_* environment variables.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataPath is the catalog snapshot loaded at startup.
	DataPath string `koanf:"data_path"`

	// WriteBack persists the catalog to DataPath after every added artist.
	WriteBack bool `koanf:"write_back"`

	// Locale is the BCP 47 tag used to collate names; "und" is the root order.
	Locale string `koanf:"locale"`

	// MetricsIntervalSec is the period of the background gauge updaters.
	MetricsIntervalSec int `koanf:"metrics_interval_sec"`

	// ShutdownTimeoutSec bounds graceful HTTP shutdown.
	ShutdownTimeoutSec int `koanf:"shutdown_timeout_sec"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":3000",
		DataPath:           "data.json",
		WriteBack:          false,
		Locale:             "und",
		MetricsIntervalSec: 10,
		ShutdownTimeoutSec: 30,
	}
}
