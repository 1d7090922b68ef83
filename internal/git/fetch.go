package git

import (
	"context"
	"fmt"
	"time"
)

// DefaultFetchTimeout bounds a fetch, which talks to the network and is
// slower than local reads.
const DefaultFetchTimeout = 2 * time.Minute

// Fetch updates the mirror from remote, pruning deleted branches.
func (r *Runner) Fetch(ctx context.Context, remote string) error {
	if remote == "" {
		remote = DefaultRemote
	}
	if _, err := r.Run(ctx, "fetch", "--prune", "--quiet", remote); err != nil {
		return fmt.Errorf("fetching %s: %w", remote, err)
	}
	return nil
}
