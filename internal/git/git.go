package git

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds every invocation unless overridden with WithTimeout.
const DefaultTimeout = 30 * time.Second

// Observer is notified after every invocation. Outcome is "ok", "exit",
// or a FailureKind string.
type Observer interface {
	ObserveCommand(subcommand, outcome string, elapsed time.Duration)
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout sets the per-invocation deadline. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observer = o }
}

// WithLogger logs every invocation at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithExecutable replaces the git binary. Used by tests.
func WithExecutable(path string) Option {
	return func(r *Runner) { r.gitPath = path }
}

// Runner runs git commands inside one repository directory. The directory
// is handed to each child process; the current process never changes its
// own working directory, so a Runner is safe for concurrent use.
type Runner struct {
	gitPath  string
	dir      string
	timeout  time.Duration
	observer Observer
	logger   *slog.Logger
}

// Result holds the captured output of an invocation.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// NewRunner returns a Runner for the repository at dir.
// Returns a *ProcessFailure with KindNotStarted if git is not on PATH.
func NewRunner(dir string, opts ...Option) (*Runner, error) {
	r := &Runner{dir: dir, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(r)
	}
	if r.gitPath == "" {
		path, err := exec.LookPath("git")
		if err != nil {
			return nil, &ProcessFailure{Kind: KindNotStarted, ExitCode: -1, Err: err}
		}
		r.gitPath = path
	}
	return r, nil
}

// Dir returns the repository directory.
func (r *Runner) Dir() string {
	return r.dir
}

// Clone returns a copy of r with opts applied.
func (r *Runner) Clone(opts ...Option) *Runner {
	c := *r
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// Exec runs git with args and captures stdout and stderr separately.
// A non-zero exit is reported through Result.ExitCode, not as an error;
// an error is returned only when git could not be started, timed out,
// or the context was canceled.
func (r *Runner) Exec(ctx context.Context, args ...string) (Result, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.gitPath, args...)
	cmd.Dir = r.dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "LC_ALL=C")
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	if err == nil {
		r.observe(args, "ok", start)
		return res, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		kind := KindCanceled
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			kind = KindTimeout
		}
		r.observe(args, kind.String(), start)
		return res, &ProcessFailure{
			Args: args, Kind: kind, ExitCode: -1,
			Stderr: stderr.String(), Err: ctxErr,
		}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		r.observe(args, "exit", start)
		return res, nil
	}

	r.observe(args, KindNotStarted.String(), start)
	return res, &ProcessFailure{Args: args, Kind: KindNotStarted, ExitCode: -1, Err: err}
}

// Run runs git with args and expects it to exit 0.
// Returns trimmed stdout, or a *ProcessFailure carrying exit code and stderr.
func (r *Runner) Run(ctx context.Context, args ...string) (string, error) {
	res, err := r.Exec(ctx, args...)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", exitFailure(args, res)
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}

// IsRepo reports whether the runner's directory is inside a git repository
// (bare or not).
func (r *Runner) IsRepo(ctx context.Context) bool {
	_, err := r.Run(ctx, "rev-parse", "--git-dir")
	return err == nil
}

// HEAD returns the full SHA HEAD points to.
func (r *Runner) HEAD(ctx context.Context) (string, error) {
	return r.Run(ctx, "rev-parse", "HEAD")
}

func exitFailure(args []string, res Result) *ProcessFailure {
	stderr := string(res.Stderr)
	return &ProcessFailure{
		Args:     args,
		Kind:     KindExited,
		ExitCode: res.ExitCode,
		Stderr:   stderr,
		Reason:   classifyStderr(stderr),
	}
}

func (r *Runner) observe(args []string, outcome string, start time.Time) {
	elapsed := time.Since(start)
	if r.logger != nil {
		r.logger.Debug("git command finished", "args", args, "outcome", outcome, "elapsed", elapsed)
	}
	if r.observer == nil {
		return
	}
	sub := ""
	if len(args) > 0 {
		sub = args[0]
	}
	r.observer.ObserveCommand(sub, outcome, elapsed)
}
