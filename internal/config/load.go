package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the configuration at path, applies defaults and GITFEED_*
// environment overrides, and validates the result.
//
// An empty path means DefaultPath. A missing file at the default path is
// not an error: every setting is optional. A missing file at an explicit
// path is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	ApplyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies GITFEED_SECTION_FIELD variables. Values that do
// not parse are ignored.
func applyEnvOverrides(cfg *Config) {
	envString("GITFEED_REPOSITORY_PATH", &cfg.Repository.Path)
	envString("GITFEED_REPOSITORY_REMOTE", &cfg.Repository.Remote)
	envString("GITFEED_REPOSITORY_BACKEND", &cfg.Repository.Backend)
	envDuration("GITFEED_REPOSITORY_GIT_TIMEOUT", &cfg.Repository.GitTimeout)
	envDuration("GITFEED_REPOSITORY_FETCH_TIMEOUT", &cfg.Repository.FetchTimeout)

	envString("GITFEED_TIMELINE_BROWSER_URL", &cfg.Timeline.BrowserURL)
	envBool("GITFEED_TIMELINE_SUPPRESS_NATIVE", &cfg.Timeline.SuppressNative)

	envString("GITFEED_SYNC_SECRET", &cfg.Sync.Secret)
	envString("GITFEED_SYNC_PATH_PREFIX", &cfg.Sync.PathPrefix)
	envString("GITFEED_SYNC_LANDING", &cfg.Sync.Landing)
	envDuration("GITFEED_SYNC_MIN_INTERVAL", &cfg.Sync.MinInterval)
	envString("GITFEED_SYNC_SCHEDULE", &cfg.Sync.Schedule)

	envString("GITFEED_SERVER_LISTEN", &cfg.Server.Listen)
	envDuration("GITFEED_SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	envDuration("GITFEED_SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	envDuration("GITFEED_SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	envString("GITFEED_LOG_LEVEL", &cfg.Log.Level)
	envString("GITFEED_LOG_FORMAT", &cfg.Log.Format)
}

func envString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func envDuration(key string, dst *time.Duration) {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}
