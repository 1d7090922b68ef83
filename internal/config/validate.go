package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError is a validation failure for one configuration field.
type FieldError struct {
	// Field is the dotted path, e.g. "repository.backend".
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationError collects every FieldError found.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "invalid configuration: " + e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "invalid configuration (%d errors):", len(e.Errors))
	for _, fe := range e.Errors {
		sb.WriteString("\n  - ")
		sb.WriteString(fe.Error())
	}
	return sb.String()
}

// Validate checks cfg and returns a ValidationError listing every problem.
// Absent optional settings are valid.
func Validate(cfg *Config) error {
	var errs []FieldError
	add := func(field, format string, args ...any) {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	switch cfg.Repository.Backend {
	case BackendExec, BackendGoGit:
	default:
		add("repository.backend", "must be %q or %q, got %q", BackendExec, BackendGoGit, cfg.Repository.Backend)
	}
	if strings.TrimSpace(cfg.Repository.Remote) == "" {
		add("repository.remote", "must not be blank")
	}
	if cfg.Repository.GitTimeout < 0 {
		add("repository.git_timeout", "must not be negative")
	}
	if cfg.Repository.FetchTimeout < 0 {
		add("repository.fetch_timeout", "must not be negative")
	}

	if cfg.Timeline.BrowserURL != "" {
		if u, err := url.Parse(cfg.Timeline.BrowserURL); err != nil || u.Scheme == "" || u.Host == "" {
			add("timeline.browser_url", "must be an absolute URL")
		}
	}

	if strings.ContainsAny(cfg.Sync.Secret, "/?#") {
		add("sync.secret", "must be a single path segment")
	}
	if !strings.HasPrefix(cfg.Sync.PathPrefix, "/") {
		add("sync.path_prefix", "must start with /")
	}
	if cfg.Sync.MinInterval < 0 {
		add("sync.min_interval", "must not be negative")
	}
	if cfg.Sync.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Sync.Schedule); err != nil {
			add("sync.schedule", "invalid cron expression: %v", err)
		}
	}

	if cfg.Server.Listen == "" {
		add("server.listen", "must not be empty")
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		add("log.level", "must be debug, info, warn or error, got %q", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		add("log.format", "must be text or json, got %q", cfg.Log.Format)
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}
