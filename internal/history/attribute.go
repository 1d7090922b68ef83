package history

import "github.com/gorewood/gitfeed/internal/git"

// Attributor assigns branch names to commits in one pass over a log window.
// Tip commits are seeded from the ref table; every visited commit that
// carries names hands them on to its direct parents. Commits must be
// visited children first (git log --date-order guarantees this).
//
// Only the window takes part: a branch whose tip is older than the window,
// or whose path to a commit leaves the window, is not attributed.
type Attributor struct {
	branches map[string]git.BranchSet
}

// NewAttributor seeds an Attributor from refs. refs is not modified.
func NewAttributor(refs git.RefTable) *Attributor {
	branches := make(map[string]git.BranchSet, len(refs))
	for hash, names := range refs {
		set := make(git.BranchSet, len(names))
		set.Union(names)
		branches[hash] = set
	}
	return &Attributor{branches: branches}
}

// Visit returns the sorted branch names of c and propagates them to its
// parents.
func (a *Attributor) Visit(c CommitRecord) []string {
	set := a.branches[c.Hash]
	if len(set) == 0 {
		return nil
	}
	for _, parent := range c.Parents {
		parentSet, ok := a.branches[parent]
		if !ok {
			parentSet = git.BranchSet{}
			a.branches[parent] = parentSet
		}
		parentSet.Union(set)
	}
	return set.Sorted()
}

// Branches returns the names accumulated for hash so far.
func (a *Attributor) Branches(hash string) git.BranchSet {
	return a.branches[hash]
}

// Attribute visits commits in order and returns the branch set of every
// commit in the window that carries at least one name.
func Attribute(refs git.RefTable, commits []CommitRecord) map[string]git.BranchSet {
	attributor := NewAttributor(refs)
	result := make(map[string]git.BranchSet)
	for _, c := range commits {
		if names := attributor.Visit(c); len(names) > 0 {
			result[c.Hash] = git.NewBranchSet(names...)
		}
	}
	return result
}
