package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorewood/gitfeed/internal/timeline"
)

func TestFormatMarkdown_WithBrowser(t *testing.T) {
	renderer := timeline.NewRenderer("https://github.com/org/project/tree/master")
	got := FormatMarkdown(sampleViews(), renderer)

	want := `---
schema: gitfeed.export/v1
events: 2
from: 2026-01-14
to: 2026-01-15
---

## 2026-01-15

- [abc1234](https://github.com/org/project/commit/abc1234000000000000000000000000000000000) [main] Fix parser (Alice)

## 2026-01-14

- [def5678](https://github.com/org/project/commit/def5678000000000000000000000000000000000) Add \*fast\* flag (Bob [Carol])
`
	if got != want {
		t.Errorf("FormatMarkdown() =\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatMarkdown_WithoutBrowserKeepsShortLinks(t *testing.T) {
	got := FormatMarkdown(sampleViews(), timeline.NewRenderer(""))

	if !strings.Contains(got, "- `git:abc1234` [main] Fix parser (Alice)\n") {
		t.Errorf("missing short link line:\n%s", got)
	}
}

func TestFormatMarkdown_Placeholder(t *testing.T) {
	views := []timeline.View{{
		Category: timeline.CategoryChangeset, Kind: "placeholder",
		Key: timeline.PlaceholderKey, Title: "Git commit log",
		URL: "https://github.com/org/project/tree/master",
	}}
	got := FormatMarkdown(views, timeline.NewRenderer(""))

	if !strings.Contains(got, "- [Git commit log](https://github.com/org/project/tree/master)\n") {
		t.Errorf("placeholder not linked:\n%s", got)
	}
}

func TestFormatMarkdown_Empty(t *testing.T) {
	got := FormatMarkdown(nil, timeline.NewRenderer(""))
	want := "---\nschema: gitfeed.export/v1\nevents: 0\n---\n"
	if got != want {
		t.Errorf("FormatMarkdown(nil) = %q, want %q", got, want)
	}
}

func TestWriteMarkdownFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CHANGES.md")
	if err := WriteMarkdownFile(sampleViews(), timeline.NewRenderer(""), path); err != nil {
		t.Fatalf("WriteMarkdownFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "---\nschema: gitfeed.export/v1\n") {
		t.Errorf("unexpected file content:\n%s", data)
	}
}
