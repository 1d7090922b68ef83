package config

import "time"

// Default values for configuration fields.
const (
	DefaultRemote       = "origin"
	DefaultBackend      = BackendExec
	DefaultGitTimeout   = 30 * time.Second
	DefaultFetchTimeout = 2 * time.Minute

	DefaultPathPrefix  = "/github"
	DefaultLanding     = "/"
	DefaultMinInterval = 2 * time.Second

	DefaultListen          = "127.0.0.1:8080"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 3 * time.Minute
	DefaultShutdownTimeout = 30 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields. Optional settings with no
// sensible default (repository path, secret, browser URL, schedule) stay
// empty.
func ApplyDefaults(cfg *Config) {
	if cfg.Repository.Remote == "" {
		cfg.Repository.Remote = DefaultRemote
	}
	if cfg.Repository.Backend == "" {
		cfg.Repository.Backend = DefaultBackend
	}
	if cfg.Repository.GitTimeout == 0 {
		cfg.Repository.GitTimeout = DefaultGitTimeout
	}
	if cfg.Repository.FetchTimeout == 0 {
		cfg.Repository.FetchTimeout = DefaultFetchTimeout
	}

	if cfg.Sync.PathPrefix == "" {
		cfg.Sync.PathPrefix = DefaultPathPrefix
	}
	if cfg.Sync.Landing == "" {
		cfg.Sync.Landing = DefaultLanding
	}
	if cfg.Sync.MinInterval == 0 {
		cfg.Sync.MinInterval = DefaultMinInterval
	}

	if cfg.Server.Listen == "" {
		cfg.Server.Listen = DefaultListen
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
