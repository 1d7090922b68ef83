package output

import (
	"errors"
	"fmt"

	"github.com/gorewood/gitfeed/internal/config"
	"github.com/gorewood/gitfeed/internal/git"
)

// Exit codes:
// 0 = Success
// 1 = User error (bad flags, bad config, missing repository or secret)
// 2 = System error (git failed or timed out, I/O error)
// 3 = Conflict (a fetch was already running and this one only joined it)
const (
	ExitSuccess     = 0
	ExitUserError   = 1
	ExitSystemError = 2
	ExitConflict    = 3
)

// ExitError is an error that carries an exit code for the CLI.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/errors.As support.
func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewUserError creates an error for user-caused issues (exit code 1).
func NewUserError(message string) *ExitError {
	return &ExitError{Code: ExitUserError, Message: message}
}

// NewSystemError creates an error for system failures (exit code 2).
func NewSystemError(message string) *ExitError {
	return &ExitError{Code: ExitSystemError, Message: message}
}

// NewSystemErrorWithCause creates a system error wrapping an underlying cause.
func NewSystemErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{Code: ExitSystemError, Message: message, Cause: cause}
}

// NewConflictError creates an error for conflict situations (exit code 3).
func NewConflictError(message string) *ExitError {
	return &ExitError{Code: ExitConflict, Message: message}
}

// FromError classifies err for the CLI. Existing ExitErrors pass through;
// missing or invalid configuration is a user error; git failures are
// system errors, with a hint when git gave a recognizable reason.
func FromError(err error) *ExitError {
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	var verr config.ValidationError
	if errors.Is(err, config.ErrConfigurationMissing) || errors.As(err, &verr) {
		return &ExitError{Code: ExitUserError, Message: err.Error(), Cause: err}
	}

	var failure *git.ProcessFailure
	if errors.As(err, &failure) {
		msg := err.Error()
		if hint := reasonHint(failure.Reason); hint != "" {
			msg = fmt.Sprintf("%s (%s)", msg, hint)
		}
		return &ExitError{Code: ExitSystemError, Message: msg, Cause: err}
	}

	return &ExitError{Code: ExitUserError, Message: err.Error(), Cause: err}
}

func reasonHint(r git.FailureReason) string {
	switch r {
	case git.ReasonNotARepository:
		return "check repository.path"
	case git.ReasonAuthRequired:
		return "the remote needs credentials git can use non-interactively"
	case git.ReasonRepositoryNotFound:
		return "check the remote URL"
	case git.ReasonRepositoryUnavailable:
		return "the remote could not be reached"
	}
	return ""
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and classifies everything else with FromError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	return FromError(err).Code
}
