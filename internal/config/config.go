package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrConfigurationMissing means an optional setting a feature needs is
// absent. Callers fall back to degraded behaviour instead of failing.
var ErrConfigurationMissing = errors.New("configuration missing")

// Reference reader backends.
const (
	BackendExec  = "exec"
	BackendGoGit = "go-git"
)

// Config is the complete gitfeed configuration.
type Config struct {
	Repository RepositoryConfig `yaml:"repository" json:"repository"`
	Timeline   TimelineConfig   `yaml:"timeline" json:"timeline"`
	Sync       SyncConfig       `yaml:"sync" json:"sync"`
	Server     ServerConfig     `yaml:"server" json:"server"`
	Log        LogConfig        `yaml:"log" json:"log"`
}

// RepositoryConfig locates the local mirror.
type RepositoryConfig struct {
	// Path is the mirror's directory. Optional: without it the timeline
	// shows a placeholder event.
	Path string `yaml:"path" json:"path"`

	// Remote is the remote whose tracking branches are reported and fetched.
	Remote string `yaml:"remote" json:"remote"`

	// Backend reads refs with "exec" (git show-ref) or "go-git".
	Backend string `yaml:"backend" json:"backend"`

	GitTimeout   time.Duration `yaml:"git_timeout" json:"git_timeout"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" json:"fetch_timeout"`
}

// TimelineConfig controls event rendering.
type TimelineConfig struct {
	// BrowserURL is the repository browser, e.g.
	// https://github.com/org/project/tree/master.
	BrowserURL string `yaml:"browser_url" json:"browser_url"`

	// SuppressNative leaves the host's native changeset sources out of the
	// timeline.
	SuppressNative bool `yaml:"suppress_native" json:"suppress_native"`
}

// SyncConfig controls the webhook endpoint and scheduled fetches.
type SyncConfig struct {
	// Secret is the path token of the endpoint. Optional: without it the
	// endpoint never matches.
	Secret string `yaml:"secret" json:"secret"`

	PathPrefix  string        `yaml:"path_prefix" json:"path_prefix"`
	Landing     string        `yaml:"landing" json:"landing"`
	MinInterval time.Duration `yaml:"min_interval" json:"min_interval"`

	// Schedule is a standard cron expression for periodic fetches.
	Schedule string `yaml:"schedule" json:"schedule"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Listen          string        `yaml:"listen" json:"listen"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Require returns ErrConfigurationMissing unless a repository path is set.
func (c RepositoryConfig) Require() error {
	if c.Path == "" {
		return fmt.Errorf("repository.path: %w", ErrConfigurationMissing)
	}
	return nil
}

// RequireSecret returns ErrConfigurationMissing unless a secret is set.
func (c SyncConfig) RequireSecret() error {
	if c.Secret == "" {
		return fmt.Errorf("sync.secret: %w", ErrConfigurationMissing)
	}
	return nil
}
