package git

import "testing"

func TestClassifyStderr(t *testing.T) {
	tests := []struct {
		stderr string
		want   FailureReason
	}{
		{"fatal: ambiguous argument 'x': unknown revision or path not in the working tree.", ReasonUnknownReference},
		{"fatal: couldn't find remote ref refs/heads/gone", ReasonUnknownReference},
		{"fatal: could not read Username for 'https://github.com': terminal prompts disabled", ReasonAuthRequired},
		{"remote: Invalid username or password.\nfatal: Authentication failed for 'https://example.com/'", ReasonAuthRequired},
		{"git@github.com: Permission denied (publickey).", ReasonAuthRequired},
		{"fatal: unable to access 'https://nowhere/': Could not resolve host: nowhere", ReasonRepositoryUnavailable},
		{"ssh: connect to host example.com port 22: Connection refused", ReasonRepositoryUnavailable},
		{"remote: Repository not found.\nfatal: repository 'https://github.com/x/y/' not found", ReasonRepositoryNotFound},
		{"fatal: 'upstream' does not appear to be a git repository", ReasonRepositoryNotFound},
		{"fatal: not a git repository (or any of the parent directories): .git", ReasonNotARepository},
		{"error: something else", ReasonUnknown},
		{"", ReasonUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			if got := classifyStderr(tt.stderr); got != tt.want {
				t.Errorf("classifyStderr(%q) = %v, want %v", tt.stderr, got, tt.want)
			}
		})
	}
}

func TestFailureKind_String(t *testing.T) {
	kinds := map[FailureKind]string{
		KindExited:      "exited",
		KindTimeout:     "timeout",
		KindCanceled:    "canceled",
		KindNotStarted:  "not-started",
		FailureKind(99): "unknown",
	}
	for kind, want := range kinds {
		if got := kind.String(); got != want {
			t.Errorf("FailureKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
