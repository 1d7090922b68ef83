package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxLogEntries caps every log window. Branch attribution only sees commits
// inside the window, so a branch whose tip falls outside it is not reported
// on the older commits it contains.
const MaxLogEntries = 100

// FieldSeparator splits the fields of one log record. The ASCII unit
// separator does not occur in names or subjects.
const FieldSeparator = "\x1f"

// LogFieldCount is the number of fields in each log record.
const LogFieldCount = 6

// logFormat yields: hash, parents, committer name, author name,
// committer Unix time, subject.
var logFormat = strings.Join([]string{"%H", "%P", "%cn", "%an", "%ct", "%s"}, "%x1f")

// Window bounds a log query. Either bound may be nil; both are inclusive.
type Window struct {
	Since *time.Time
	Until *time.Time
}

// LogReader reads the raw commit log for a window.
type LogReader interface {
	Log(ctx context.Context, window Window) ([]byte, error)
}

// LogArgs returns the git arguments for reading window across all refs.
// --date-order keeps every child ahead of its parents.
func LogArgs(window Window) []string {
	args := []string{
		"log",
		"--all",
		"--date-order",
		"--max-count=" + strconv.Itoa(MaxLogEntries),
		"--pretty=format:" + logFormat,
	}
	if window.Since != nil {
		args = append(args, "--since=@"+strconv.FormatInt(window.Since.Unix(), 10))
	}
	if window.Until != nil {
		args = append(args, "--until=@"+strconv.FormatInt(window.Until.Unix(), 10))
	}
	return args
}

// Log returns raw log output for window, one record per line.
func (r *Runner) Log(ctx context.Context, window Window) ([]byte, error) {
	args := LogArgs(window)
	res, err := r.Exec(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("reading log: %w", exitFailure(args, res))
	}
	return res.Stdout, nil
}
