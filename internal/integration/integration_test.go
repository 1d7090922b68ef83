//go:build integration

// Package integration provides end-to-end tests for the gitfeed CLI.
// These tests build the binary, create real upstream and mirror
// repositories, and run full command workflows against them.
//
// Run with: go test -tags=integration ./internal/integration/...
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorewood/gitfeed/internal/gittest"
)

// env is an upstream repository, a mirror cloned from it, and a gitfeed
// binary configured to read the mirror.
type env struct {
	t        *testing.T
	upstream *gittest.Repo
	mirror   *gittest.Repo
	binary   string
	config   string
}

// newEnv builds gitfeed and clones a mirror of a fresh upstream that
// already has one commit.
func newEnv(t *testing.T, extraConfig string) *env {
	t.Helper()

	dir := t.TempDir()
	binary := filepath.Join(dir, "gitfeed")
	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/gitfeed")
	buildCmd.Dir = findProjectRoot(t)
	buildCmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build gitfeed: %v\n%s", err, output)
	}

	upstream := gittest.New(t)
	upstream.Commit("Initial import")
	mirror := upstream.Clone()

	config := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("repository:\n  path: %s\nlog:\n  level: warn\n%s", mirror.Dir, extraConfig)
	if err := os.WriteFile(config, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &env{t: t, upstream: upstream, mirror: mirror, binary: binary, config: config}
}

// findProjectRoot locates the project root by finding go.mod.
func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

func (e *env) command(args ...string) *exec.Cmd {
	cmd := exec.Command(e.binary, append([]string{"--config", e.config}, args...)...)
	cmd.Dir = e.t.TempDir()
	cmd.Env = append(os.Environ(), "GITFEED_CONFIG_HOME="+filepath.Dir(e.config))
	return cmd
}

// gitfeed runs the binary and returns stdout, stderr and the error.
func (e *env) gitfeed(args ...string) (string, string, error) {
	e.t.Helper()
	cmd := e.command(args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// gitfeedOK runs gitfeed and expects success.
func (e *env) gitfeedOK(args ...string) string {
	e.t.Helper()
	stdout, stderr, err := e.gitfeed(args...)
	if err != nil {
		e.t.Fatalf("gitfeed %v failed: %v\nstdout: %s\nstderr: %s", args, err, stdout, stderr)
	}
	return stdout
}

type event struct {
	Kind        string `json:"kind"`
	Key         string `json:"key"`
	Hash        string `json:"hash"`
	Author      string `json:"author"`
	Description string `json:"description"`
}

func (e *env) timeline(args ...string) []event {
	e.t.Helper()
	out := e.gitfeedOK(append([]string{"--json", "timeline"}, args...)...)
	var events []event
	if err := json.Unmarshal([]byte(out), &events); err != nil {
		e.t.Fatalf("timeline output is not JSON: %v\n%s", err, out)
	}
	return events
}

func descriptions(events []event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Description)
	}
	return out
}

// TestFetchThenTimeline tests the full workflow:
// upstream commits -> timeline misses them -> fetch -> timeline shows them
// with branch decorations.
func TestFetchThenTimeline(t *testing.T) {
	e := newEnv(t, "")

	e.upstream.Branch("feature")
	feature := e.upstream.Commit("Add feature")
	e.upstream.Checkout("master")

	before := e.timeline()
	if len(before) != 1 {
		t.Fatalf("before fetch: got %v, want only the initial commit", descriptions(before))
	}

	e.gitfeedOK("fetch")

	after := e.timeline()
	want := []string{"[feature] Add feature", "[feature, master] Initial import"}
	if strings.Join(descriptions(after), "|") != strings.Join(want, "|") {
		t.Errorf("after fetch: got %v, want %v", descriptions(after), want)
	}
	if after[0].Hash != feature || after[0].Key != feature[:7] {
		t.Errorf("newest event = %+v, want commit %s", after[0], feature)
	}
}

// TestMergedBranchAttribution tests that commits reachable from several
// branches after a merge carry every branch name.
func TestMergedBranchAttribution(t *testing.T) {
	e := newEnv(t, "")

	e.upstream.Branch("topic")
	e.upstream.Commit("Topic work")
	e.upstream.Checkout("master")
	e.upstream.Git("merge", "--no-ff", "--no-edit", "topic")
	e.upstream.Branch("hotfix")
	e.upstream.Commit("Hotfix")
	e.upstream.Checkout("master")

	e.gitfeedOK("fetch")

	got := map[string]string{}
	for _, ev := range e.timeline() {
		got[ev.Description[strings.Index(ev.Description, "] ")+2:]] = ev.Description
	}
	if d := got["Hotfix"]; d != "[hotfix] Hotfix" {
		t.Errorf("hotfix commit = %q", d)
	}
	if d := got["Topic work"]; d != "[hotfix, master, topic] Topic work" {
		t.Errorf("topic commit = %q", d)
	}
	if d := got["Initial import"]; d != "[hotfix, master, topic] Initial import" {
		t.Errorf("root commit = %q", d)
	}
}

// TestDeletedBranchIsPruned tests that fetch prunes branches deleted
// upstream, so they stop decorating commits.
func TestDeletedBranchIsPruned(t *testing.T) {
	e := newEnv(t, "")

	e.upstream.Branch("short-lived")
	e.upstream.Commit("Experiment")
	e.upstream.Checkout("master")
	e.gitfeedOK("fetch")

	refs := e.gitfeedOK("--json", "refs")
	if !strings.Contains(refs, "short-lived") {
		t.Fatalf("refs should list the new branch: %s", refs)
	}

	e.upstream.Git("branch", "-D", "short-lived")
	e.gitfeedOK("fetch")

	if refs := e.gitfeedOK("--json", "refs"); strings.Contains(refs, "short-lived") {
		t.Errorf("refs still list the deleted branch: %s", refs)
	}
}

// TestAuthorAndCommitterDiffer tests the combined author display.
func TestAuthorAndCommitterDiffer(t *testing.T) {
	e := newEnv(t, "")
	e.upstream.CommitAs("Applied patch", gittest.Epoch.Add(time.Hour), "Alice", "Bob")
	e.gitfeedOK("fetch")

	events := e.timeline("--limit", "1")
	if len(events) != 1 || events[0].Author != "Alice [Bob]" {
		t.Errorf("events = %+v, want author Alice [Bob]", events)
	}
}

// TestErrorNotARepository tests that a bad repository path reports a
// git failure with exit code 2.
func TestErrorNotARepository(t *testing.T) {
	e := newEnv(t, "")
	notRepo := t.TempDir()
	content := fmt.Sprintf("repository:\n  path: %s\nlog:\n  level: error\n", notRepo)
	if err := os.WriteFile(e.config, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	cmd := e.command("--json", "refs")
	cmd.Env = append(cmd.Env, "GIT_CEILING_DIRECTORIES="+filepath.Dir(notRepo))
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 2 {
		t.Fatalf("refs exit = %v, want code 2\n%s", err, out)
	}
	if !strings.Contains(string(out), "check repository.path") {
		t.Errorf("error should carry a hint: %s", out)
	}
}

// TestServeWebhookSync tests the served sync endpoint: a push webhook
// fetches the mirror and redirects, and the served timeline shows the
// pushed commit.
func TestServeWebhookSync(t *testing.T) {
	port := freePort(t)
	e := newEnv(t, fmt.Sprintf("sync:\n  secret: s3cret\n  min_interval: 1ms\nserver:\n  listen: 127.0.0.1:%d\n", port))
	base := fmt.Sprintf("http://127.0.0.1:%d", port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmd := exec.CommandContext(ctx, e.binary, "--config", e.config, "serve")
	cmd.Env = append(os.Environ(), "GITFEED_CONFIG_HOME="+filepath.Dir(e.config))
	stderr, err := cmd.StderrPipe()
	if err != nil {
		t.Fatalf("stderr pipe: %v", err)
	}
	if err := cmd.Start(); err != nil {
		t.Fatalf("starting serve: %v", err)
	}
	go drain(stderr)
	t.Cleanup(func() {
		_ = cmd.Process.Signal(os.Interrupt)
		_ = cmd.Wait()
	})
	waitHealthy(t, base)

	pushed := e.upstream.Commit("Pushed upstream")

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.PostForm(base+"/github/s3cret/", map[string][]string{"payload": {"{}"}})
	if err != nil {
		t.Fatalf("POST sync: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("sync status = %d, want 303", resp.StatusCode)
	}

	resp, err = http.Get(base + "/timeline")
	if err != nil {
		t.Fatalf("GET timeline: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // test cleanup
	var body struct {
		Events []event `json:"events"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding timeline: %v", err)
	}
	if len(body.Events) == 0 || body.Events[0].Hash != pushed {
		t.Errorf("timeline should start with the pushed commit %s: %+v", pushed, body.Events)
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close() //nolint:errcheck // released for the server
	return ln.Addr().(*net.TCPAddr).Port
}

func waitHealthy(t *testing.T, base string) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(base + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("server did not become healthy")
}

func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, r)
}
