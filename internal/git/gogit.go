package git

import (
	"context"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GoGitRefs reads branch refs straight from the repository's ref storage
// (loose and packed) with go-git, without spawning git.
type GoGitRefs struct {
	path string
}

// NewGoGitRefs returns a RefReader for the repository at path.
func NewGoGitRefs(path string) *GoGitRefs {
	return &GoGitRefs{path: path}
}

// ListRefs returns the same table Runner.ListRefs would.
func (g *GoGitRefs) ListRefs(ctx context.Context, remote string) (RefTable, error) {
	repo, err := gogit.PlainOpen(g.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", g.path, err)
	}

	refs, err := repo.References()
	if err != nil {
		return nil, fmt.Errorf("listing refs: %w", err)
	}
	defer refs.Close()

	table := RefTable{}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		if name, ok := BranchName(ref.Name().String(), remote); ok {
			table.Add(ref.Hash().String(), name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing refs: %w", err)
	}
	return table, nil
}
