package git

import (
	"bufio"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// DefaultRemote is the remote whose tracking branches are reported.
const DefaultRemote = "origin"

// BranchSet is a set of branch names.
type BranchSet map[string]struct{}

// NewBranchSet returns a set holding names.
func NewBranchSet(names ...string) BranchSet {
	s := make(BranchSet, len(names))
	s.Add(names...)
	return s
}

// Add inserts names into the set.
func (s BranchSet) Add(names ...string) {
	for _, name := range names {
		s[name] = struct{}{}
	}
}

// Union adds every member of other to s.
func (s BranchSet) Union(other BranchSet) {
	for name := range other {
		s[name] = struct{}{}
	}
}

// Has reports whether name is in the set.
func (s BranchSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the members in lexical order.
func (s BranchSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RefTable maps a commit hash to the branches pointing at it.
type RefTable map[string]BranchSet

// Add records that branch name points at hash.
func (t RefTable) Add(hash, name string) {
	set, ok := t[hash]
	if !ok {
		set = BranchSet{}
		t[hash] = set
	}
	set.Add(name)
}

// RefReader lists the branch refs of a repository.
type RefReader interface {
	ListRefs(ctx context.Context, remote string) (RefTable, error)
}

// showRefLine matches "<hash> <refname>" as printed by git show-ref.
var showRefLine = regexp.MustCompile(`^([0-9a-f]+)\s+(refs/\S+)$`)

// ParseRefs parses git show-ref output into a RefTable. Only local branch
// heads and tracking branches of remote are kept, with the prefix stripped.
// Tags, notes, HEAD and malformed lines are skipped.
func ParseRefs(out, remote string) RefTable {
	table := RefTable{}
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		match := showRefLine.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if match == nil {
			continue
		}
		if name, ok := BranchName(match[2], remote); ok {
			table.Add(match[1], name)
		}
	}
	return table
}

// BranchName maps a full ref name to the branch name gitfeed reports.
// refs/heads/<name> and refs/remotes/<remote>/<name> yield <name>;
// everything else, and any name that is empty or exactly HEAD, is rejected.
func BranchName(ref, remote string) (string, bool) {
	var name string
	switch {
	case strings.HasPrefix(ref, "refs/heads/"):
		name = strings.TrimPrefix(ref, "refs/heads/")
	case remote != "" && strings.HasPrefix(ref, "refs/remotes/"+remote+"/"):
		name = strings.TrimPrefix(ref, "refs/remotes/"+remote+"/")
	default:
		return "", false
	}
	if name == "" || name == "HEAD" {
		return "", false
	}
	return name, true
}

// ListRefs runs git show-ref and returns the branch table.
// A repository with no refs yields an empty table.
func (r *Runner) ListRefs(ctx context.Context, remote string) (RefTable, error) {
	args := []string{"show-ref"}
	res, err := r.Exec(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("listing refs: %w", err)
	}
	switch {
	case res.ExitCode == 0:
	case res.ExitCode == 1 && len(strings.TrimSpace(string(res.Stdout))) == 0 &&
		len(strings.TrimSpace(string(res.Stderr))) == 0:
		// show-ref exits 1 when there is nothing to show
		return RefTable{}, nil
	default:
		return nil, fmt.Errorf("listing refs: %w", exitFailure(args, res))
	}
	return ParseRefs(string(res.Stdout), remote), nil
}
