// Package gittest builds throwaway git repositories for tests.
package gittest

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

// Epoch is the committer time of the first fixture commit. Later commits
// advance by a minute each unless given an explicit time.
var Epoch = time.Date(2026, 1, 17, 12, 0, 0, 0, time.UTC)

// Repo is a repository in a temp directory.
type Repo struct {
	t    testing.TB
	Dir  string
	next time.Time
}

// Require skips the test when git is not installed.
func Require(t testing.TB) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// New initializes a repository whose initial branch is master.
func New(t testing.TB) *Repo {
	t.Helper()
	Require(t)
	return Init(t, t.TempDir())
}

// Init initializes a repository at dir.
func Init(t testing.TB, dir string) *Repo {
	t.Helper()
	r := &Repo{t: t, Dir: dir, next: Epoch}
	r.Git("init", "--quiet", "--initial-branch=master")
	r.Git("config", "user.email", "test@example.com")
	r.Git("config", "user.name", "Test User")
	r.Git("config", "commit.gpgsign", "false")
	return r
}

// Clone clones r into a new temp directory.
func (r *Repo) Clone() *Repo {
	r.t.Helper()
	dir := filepath.Join(r.t.TempDir(), "clone")
	run(r.t, "", nil, "clone", "--quiet", r.Dir, dir)
	c := &Repo{t: r.t, Dir: dir, next: r.next}
	c.Git("config", "user.email", "test@example.com")
	c.Git("config", "user.name", "Test User")
	return c
}

// Git runs git in the repository and returns trimmed stdout.
func (r *Repo) Git(args ...string) string {
	r.t.Helper()
	return run(r.t, r.Dir, nil, args...)
}

// Commit commits a change with subject at the next fixture time and
// returns the commit hash.
func (r *Repo) Commit(subject string) string {
	r.t.Helper()
	when := r.next
	r.next = r.next.Add(time.Minute)
	return r.CommitAt(subject, when)
}

// CommitAt commits a change with subject at when.
func (r *Repo) CommitAt(subject string, when time.Time) string {
	r.t.Helper()
	return r.CommitAs(subject, when, "Test User", "Test User")
}

// CommitAs commits with explicit author and committer names.
func (r *Repo) CommitAs(subject string, when time.Time, author, committer string) string {
	r.t.Helper()
	name := filepath.Join(r.Dir, "changes.txt")
	f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		r.t.Fatalf("opening %s: %v", name, err)
	}
	if _, err := f.WriteString(subject + "\n"); err != nil {
		r.t.Fatalf("writing %s: %v", name, err)
	}
	if err := f.Close(); err != nil {
		r.t.Fatalf("closing %s: %v", name, err)
	}

	stamp := "@" + strconv.FormatInt(when.Unix(), 10) + " +0000"
	env := []string{
		"GIT_AUTHOR_NAME=" + author,
		"GIT_COMMITTER_NAME=" + committer,
		"GIT_AUTHOR_DATE=" + stamp,
		"GIT_COMMITTER_DATE=" + stamp,
	}
	run(r.t, r.Dir, nil, "add", "-A")
	run(r.t, r.Dir, env, "commit", "--quiet", "-m", subject)
	return r.Git("rev-parse", "HEAD")
}

// Branch creates and checks out name at the current HEAD.
func (r *Repo) Branch(name string) {
	r.t.Helper()
	r.Git("checkout", "--quiet", "-b", name)
}

// Checkout switches to an existing branch.
func (r *Repo) Checkout(name string) {
	r.t.Helper()
	r.Git("checkout", "--quiet", name)
}

// UpdateRef points ref at hash.
func (r *Repo) UpdateRef(ref, hash string) {
	r.t.Helper()
	r.Git("update-ref", ref, hash)
}

func run(t testing.TB, dir string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "LC_ALL=C"), env...)
	out, err := cmd.Output()
	if err != nil {
		stderr := ""
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr = string(exitErr.Stderr)
		}
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, stderr)
	}
	return strings.TrimSpace(string(out))
}
