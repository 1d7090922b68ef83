package webhook

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// DefaultPathPrefix is where the endpoint lives: POST /github/<secret>.
const DefaultPathPrefix = "/github"

// Matcher recognizes sync requests: a write-style request to
// <prefix>/<secret>, with or without a trailing slash.
type Matcher struct {
	prefix string
	secret string
}

// NewMatcher returns a Matcher. An empty secret disables the endpoint.
func NewMatcher(prefix, secret string) Matcher {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		prefix = DefaultPathPrefix
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return Matcher{prefix: prefix, secret: secret}
}

// Enabled reports whether a secret is configured.
func (m Matcher) Enabled() bool {
	return m.secret != ""
}

// Match reports whether r is a sync request.
func (m Matcher) Match(r *http.Request) bool {
	if !m.Enabled() || !isWriteMethod(r.Method) {
		return false
	}
	return m.MatchPath(r.URL.Path)
}

// MatchPath reports whether path carries the configured secret.
func (m Matcher) MatchPath(path string) bool {
	token, ok := m.token(path)
	if !ok || !m.Enabled() {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(m.secret)) == 1
}

// Redact hides the token segment of a path under the endpoint prefix so
// the secret never reaches the logs.
func (m Matcher) Redact(path string) string {
	if _, ok := m.token(path); !ok {
		return path
	}
	redacted := m.prefix + "/[redacted]"
	if strings.HasSuffix(path, "/") {
		redacted += "/"
	}
	return redacted
}

func (m Matcher) token(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, m.prefix+"/")
	if !ok {
		return "", false
	}
	rest = strings.TrimSuffix(rest, "/")
	if rest == "" {
		return "", false
	}
	return rest, true
}

func isWriteMethod(method string) bool {
	return method == http.MethodPost || method == http.MethodPut
}
