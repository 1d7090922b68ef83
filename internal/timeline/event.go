// Package timeline turns repository history into changeset events for an
// activity feed.
package timeline

import (
	"time"

	"github.com/gorewood/gitfeed/internal/history"
)

// CategoryChangeset is the category of every event this package produces.
const CategoryChangeset = "changeset"

// Placeholder payload values, shown when no repository is configured.
const (
	PlaceholderKey  = "master-commits"
	PlaceholderText = "See Git commit log"
)

// Event is one timeline entry.
type Event struct {
	Category string
	Time     time.Time
	Author   string
	Payload  Payload
}

// Payload is either PlaceholderEvent or CommitEvent.
type Payload interface {
	// Pair returns the (key, text) payload pair.
	Pair() (string, string)
	isPayload()
}

// PlaceholderEvent stands in for the commit log when there is no
// repository to read.
type PlaceholderEvent struct{}

// Pair implements Payload.
func (PlaceholderEvent) Pair() (string, string) {
	return PlaceholderKey, PlaceholderText
}

func (PlaceholderEvent) isPayload() {}

// CommitEvent is a single commit. Subject already carries the branch
// decoration.
type CommitEvent struct {
	Hash    string
	Subject string
}

// Pair implements Payload: (short hash, decorated subject).
func (c CommitEvent) Pair() (string, string) {
	return history.ShortHash(c.Hash), c.Subject
}

func (CommitEvent) isPayload() {}

// commitEvent builds the event for record decorated with branches.
func commitEvent(record history.CommitRecord, branches []string) Event {
	return Event{
		Category: CategoryChangeset,
		Time:     record.Time,
		Author:   record.DisplayAuthor(),
		Payload: CommitEvent{
			Hash:    record.Hash,
			Subject: history.Decorate(record.Subject, branches),
		},
	}
}
