// Package timeline turns repository history into changeset events for an
// activity feed.
//
// A GitSource lists the repository's branch refs, reads at most
// git.MaxLogEntries commits inside the query window, and yields one Event
// per commit in log order (newest first). Each event's subject is prefixed
// with the branches the commit belongs to:
//
//	[dev, master] Fix the frobnicator
//
// Event payloads are a closed sum type: CommitEvent or PlaceholderEvent.
// PlaceholderSource yields the single ("master-commits", "See Git commit
// log") event shown when no repository is configured.
//
// Streams are lazy and single use. The refs and log are read when Events is
// called; parsing and attribution run while the caller ranges over
// Stream.All. Use Stream.Collect to materialize.
//
// Renderer produces the link, title and description of an event from the
// repository browser URL.
package timeline
