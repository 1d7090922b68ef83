package timeline

import (
	"net/url"
	"strings"
	"time"
)

// TitleLabel prefixes the short hash in commit titles.
const TitleLabel = "Commit"

// placeholderTitle is the title of the placeholder event.
const placeholderTitle = "Git commit log"

// Renderer produces the on-demand fields of an event: link, title and
// description.
type Renderer struct {
	browserURL string
	commitBase string
}

// NewRenderer builds a Renderer from the repository browser URL, e.g.
// https://github.com/org/project/tree/master. Commit links replace
// /tree/master with /commit/.
func NewRenderer(browserURL string) Renderer {
	browserURL = strings.TrimSpace(browserURL)
	commitBase := ""
	switch {
	case browserURL == "":
	case strings.Contains(browserURL, "/tree/master"):
		commitBase = strings.Replace(browserURL, "/tree/master", "/commit/", 1)
	default:
		commitBase = strings.TrimRight(browserURL, "/") + "/commit/"
	}
	return Renderer{browserURL: browserURL, commitBase: commitBase}
}

// CommitURL links target (a hash or ref) in the repository browser. An
// empty target links the browser itself. Returns "" when no browser URL is
// configured.
func (r Renderer) CommitURL(target string) string {
	if r.commitBase == "" {
		return ""
	}
	if target == "" {
		return r.browserURL
	}
	return r.commitBase + url.PathEscape(target)
}

// LinkScheme prefixes short links to commits, e.g. git:abc1234.
const LinkScheme = "git:"

// ResolveLink turns a git:<hash-or-ref> short link into a browser URL.
// It reports false for other links and when no browser URL is configured.
func (r Renderer) ResolveLink(link string) (string, bool) {
	target, ok := strings.CutPrefix(link, LinkScheme)
	if !ok || target == "" {
		return "", false
	}
	u := r.CommitURL(target)
	return u, u != ""
}

// URL returns the event's link.
func (r Renderer) URL(e Event) string {
	switch p := e.Payload.(type) {
	case CommitEvent:
		key, _ := p.Pair()
		return r.CommitURL(key)
	case PlaceholderEvent:
		return r.browserURL
	}
	return ""
}

// Title returns the display title: the label and the short hash.
func (r Renderer) Title(e Event) string {
	switch p := e.Payload.(type) {
	case CommitEvent:
		key, _ := p.Pair()
		return TitleLabel + " " + key
	case PlaceholderEvent:
		return placeholderTitle
	}
	return ""
}

// Description returns the plain-text description, the (decorated) subject.
func (r Renderer) Description(e Event) string {
	if e.Payload == nil {
		return ""
	}
	_, text := e.Payload.Pair()
	return text
}

// View is the rendered, serializable form of an Event.
type View struct {
	Category    string    `json:"category"`
	Time        time.Time `json:"time"`
	Author      string    `json:"author,omitempty"`
	Kind        string    `json:"kind"`
	Key         string    `json:"key"`
	Hash        string    `json:"hash,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url,omitempty"`
}

// View renders every field of e.
func (r Renderer) View(e Event) View {
	view := View{
		Category:    e.Category,
		Time:        e.Time,
		Author:      e.Author,
		Title:       r.Title(e),
		Description: r.Description(e),
		URL:         r.URL(e),
	}
	switch p := e.Payload.(type) {
	case CommitEvent:
		view.Kind = "commit"
		view.Key, _ = p.Pair()
		view.Hash = p.Hash
	case PlaceholderEvent:
		view.Kind = "placeholder"
		view.Key, _ = p.Pair()
	}
	return view
}

// Views drains stream and renders each event.
func (r Renderer) Views(stream *Stream) []View {
	views := []View{}
	for event := range stream.All() {
		views = append(views, r.View(event))
	}
	return views
}
