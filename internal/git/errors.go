package git

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// FailureKind says how a git invocation failed.
type FailureKind int

const (
	// KindExited means git ran and exited with a non-zero status.
	KindExited FailureKind = iota
	// KindTimeout means the invocation hit its deadline and was killed.
	KindTimeout
	// KindCanceled means the caller's context was canceled.
	KindCanceled
	// KindNotStarted means the process could not be started at all.
	KindNotStarted
)

func (k FailureKind) String() string {
	switch k {
	case KindExited:
		return "exited"
	case KindTimeout:
		return "timeout"
	case KindCanceled:
		return "canceled"
	case KindNotStarted:
		return "not-started"
	default:
		return "unknown"
	}
}

// FailureReason classifies a failure from git's stderr.
type FailureReason int

const (
	// ReasonUnknown means stderr matched no known pattern.
	ReasonUnknown FailureReason = iota
	// ReasonUnknownReference means a named revision or ref does not exist.
	ReasonUnknownReference
	// ReasonAuthRequired means the remote rejected or asked for credentials.
	ReasonAuthRequired
	// ReasonRepositoryNotFound means the remote has no such repository.
	ReasonRepositoryNotFound
	// ReasonRepositoryUnavailable means the remote could not be reached.
	ReasonRepositoryUnavailable
	// ReasonNotARepository means the working directory is not a git repository.
	ReasonNotARepository
)

func (r FailureReason) String() string {
	switch r {
	case ReasonUnknownReference:
		return "unknown-reference"
	case ReasonAuthRequired:
		return "auth-required"
	case ReasonRepositoryNotFound:
		return "repository-not-found"
	case ReasonRepositoryUnavailable:
		return "repository-unavailable"
	case ReasonNotARepository:
		return "not-a-repository"
	default:
		return "unknown"
	}
}

// ProcessFailure is returned when a git invocation that was expected to
// succeed did not exit 0, timed out, or could not be started.
type ProcessFailure struct {
	Args     []string
	Kind     FailureKind
	ExitCode int
	Stderr   string
	Reason   FailureReason
	Err      error
}

func (e *ProcessFailure) Error() string {
	b := new(strings.Builder)
	b.WriteString("git")
	if len(e.Args) > 0 {
		b.WriteString(" ")
		b.WriteString(e.Args[0])
	}
	switch e.Kind {
	case KindTimeout:
		b.WriteString(": timed out")
	case KindCanceled:
		b.WriteString(": canceled")
	case KindNotStarted:
		b.WriteString(": could not start")
	default:
		b.WriteString(": exit status ")
		b.WriteString(strconv.Itoa(e.ExitCode))
	}
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	} else if e.Err != nil && e.Kind != KindExited {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ProcessFailure) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is a ProcessFailure caused by a timeout.
func IsTimeout(err error) bool {
	var pf *ProcessFailure
	return errors.As(err, &pf) && pf.Kind == KindTimeout
}

// ExitCodeOf returns the git exit code carried by err, or -1.
func ExitCodeOf(err error) int {
	var pf *ProcessFailure
	if errors.As(err, &pf) {
		return pf.ExitCode
	}
	return -1
}

var repoNotFoundPattern = regexp.MustCompile(`fatal: repository '.*' not found`)

func classifyStderr(stderr string) FailureReason {
	switch {
	case strings.Contains(stderr, "unknown revision or path not in the working tree"),
		strings.Contains(stderr, "couldn't find remote ref"):
		return ReasonUnknownReference
	case strings.Contains(stderr, "could not read Username"),
		strings.Contains(stderr, "Authentication failed"),
		strings.Contains(stderr, "Permission denied (publickey)"):
		return ReasonAuthRequired
	case strings.Contains(stderr, "Could not resolve host"),
		strings.Contains(stderr, "Connection timed out"),
		strings.Contains(stderr, "Connection refused"):
		return ReasonRepositoryUnavailable
	case repoNotFoundPattern.MatchString(stderr),
		strings.Contains(stderr, "does not appear to be a git repository"):
		return ReasonRepositoryNotFound
	case strings.Contains(stderr, "not a git repository"):
		return ReasonNotARepository
	}
	return ReasonUnknown
}
