// Package history parses git log output into commit records and attributes
// each commit to the branches it belongs to.
package history

import (
	"strings"
	"time"
)

// ShortHashLen is the display length of a commit hash.
const ShortHashLen = 7

// CommitRecord is one commit as read from the log.
type CommitRecord struct {
	Hash      string    // Full SHA
	Parents   []string  // Parent SHAs; none for a root, two or more for a merge
	Committer string    // Committer name
	Author    string    // Author name
	Time      time.Time // Commit time
	Subject   string    // First line of the message
}

// Short returns the abbreviated hash.
func (c CommitRecord) Short() string {
	return ShortHash(c.Hash)
}

// DisplayAuthor returns the author, followed by the committer in brackets
// when the two differ: "alice [bob]".
func (c CommitRecord) DisplayAuthor() string {
	if c.Committer == c.Author {
		return c.Author
	}
	return c.Author + " [" + c.Committer + "]"
}

// ShortHash truncates hash to ShortHashLen characters.
func ShortHash(hash string) string {
	if len(hash) > ShortHashLen {
		return hash[:ShortHashLen]
	}
	return hash
}

// Decorate prefixes subject with the sorted branch names in brackets.
// With no branches the subject is returned unchanged.
func Decorate(subject string, branches []string) string {
	if len(branches) == 0 {
		return subject
	}
	return "[" + strings.Join(branches, ", ") + "] " + subject
}
