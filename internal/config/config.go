// Package config defines tool configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DatabasePath locates the SQLite database file.
	DatabasePath string `koanf:"database_path"`

	// APIBaseURL is the root of the catalog XML API.
	APIBaseURL string `koanf:"api_base_url"`

	// Username is the default user for collection, play, and report commands.
	Username string `koanf:"username"`

	// Guild is the default guild id for guild commands.
	Guild int64 `koanf:"guild"`

	// RequestTimeoutMS bounds a single catalog API request.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// QueueRetries and QueueRetryDelayMS control polling after the catalog
	// answers 202 (export queued).
	QueueRetries      int `koanf:"queue_retries"`
	QueueRetryDelayMS int `koanf:"queue_retry_delay_ms"`

	// ThingChunkSize caps how many game ids one catalog request carries.
	ThingChunkSize int `koanf:"thing_chunk_size"`

	// MetricsAddr exposes Prometheus metrics during long syncs when set,
	// e.g. ":9091". Empty disables the listener.
	MetricsAddr string `koanf:"metrics_addr"`

	// OutputDir is where rendered reports are written.
	OutputDir string `koanf:"output_dir"`

	// StartYear anchors the through-the-years report range.
	StartYear int `koanf:"start_year"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		DatabasePath:      "bgg.db",
		APIBaseURL:        "https://boardgamegeek.com/xmlapi2",
		Username:          "NormandyWept",
		Guild:             901,
		RequestTimeoutMS:  30_000,
		QueueRetries:      10,
		QueueRetryDelayMS: 5_000,
		ThingChunkSize:    20,
		MetricsAddr:       "",
		OutputDir:         ".",
		StartYear:         1990,
	}
}
