package timeline

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const browserURL = "https://github.com/org/project/tree/master"

func TestNewRenderer_CommitURL(t *testing.T) {
	tests := []struct {
		name    string
		browser string
		target  string
		want    string
	}{
		{"tree master rewritten", browserURL, "abc1234", "https://github.com/org/project/commit/abc1234"},
		{"other browser appends commit", "https://git.example.com/project/", "abc1234", "https://git.example.com/project/commit/abc1234"},
		{"ref is escaped", browserURL, "feature/x", "https://github.com/org/project/commit/feature%2Fx"},
		{"no browser", "", "abc1234", ""},
		{"empty target links browser", browserURL, "", browserURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewRenderer(tt.browser).CommitURL(tt.target); got != tt.want {
				t.Errorf("CommitURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderer_ResolveLink(t *testing.T) {
	r := NewRenderer(browserURL)
	tests := []struct {
		link   string
		want   string
		wantOK bool
	}{
		{"git:abc1234", "https://github.com/org/project/commit/abc1234", true},
		{"git:", "", false},
		{"ticket:12", "", false},
		{"https://example.com", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			got, ok := r.ResolveLink(tt.link)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ResolveLink(%q) = %q, %v, want %q, %v", tt.link, got, ok, tt.want, tt.wantOK)
			}
		})
	}

	if _, ok := NewRenderer("").ResolveLink("git:abc1234"); ok {
		t.Error("ResolveLink() without a browser URL should not resolve")
	}
}

func TestRenderer_View(t *testing.T) {
	at := time.Unix(1700000000, 0).UTC()
	r := NewRenderer(browserURL)

	tests := []struct {
		name  string
		event Event
		want  View
	}{
		{
			name: "commit",
			event: Event{
				Category: CategoryChangeset, Time: at, Author: "alice [bob]",
				Payload: CommitEvent{Hash: "abc1234567890", Subject: "[master] Fix"},
			},
			want: View{
				Category: CategoryChangeset, Time: at, Author: "alice [bob]",
				Kind: "commit", Key: "abc1234", Hash: "abc1234567890",
				Title: "Commit abc1234", Description: "[master] Fix",
				URL: "https://github.com/org/project/commit/abc1234",
			},
		},
		{
			name:  "placeholder",
			event: Event{Category: CategoryChangeset, Time: at, Payload: PlaceholderEvent{}},
			want: View{
				Category: CategoryChangeset, Time: at,
				Kind: "placeholder", Key: PlaceholderKey,
				Title: "Git commit log", Description: PlaceholderText,
				URL: browserURL,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, r.View(tt.event)); diff != "" {
				t.Errorf("View() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderer_Views_NeverNil(t *testing.T) {
	views := NewRenderer("").Views(Empty())
	if views == nil || len(views) != 0 {
		t.Errorf("Views() = %#v, want an empty slice", views)
	}
}
