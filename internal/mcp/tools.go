package mcp

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/gitfeed/internal/timeline"
)

// --- Timeline tool ---

// TimelineInput is the input for the timeline tool.
type TimelineInput struct {
	Start string `json:"start,omitempty" jsonschema:"window start: duration back from now (24h, 7d), ISO date, RFC 3339 or @unix"`
	Stop  string `json:"stop,omitempty"  jsonschema:"window end: duration back from now (24h, 7d), ISO date, RFC 3339 or @unix"`
	Limit int    `json:"limit,omitempty" jsonschema:"return at most N events"`
}

// TimelineOutput is the output for the timeline tool.
type TimelineOutput struct {
	Count    int             `json:"count"              jsonschema:"number of events returned"`
	Events   []timeline.View `json:"events"             jsonschema:"timeline events, newest first"`
	Warnings []string        `json:"warnings,omitempty" jsonschema:"sources that failed; their events are missing"`
}

func handleTimeline(svc Service, now func() time.Time) mcp.ToolHandlerFor[TimelineInput, TimelineOutput] {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TimelineInput) (*mcp.CallToolResult, TimelineOutput, error) {
		if input.Limit < 0 {
			return nil, TimelineOutput{}, fmt.Errorf("limit must not be negative")
		}
		q, err := timeline.ParseQuery(input.Start, input.Stop, nil, now())
		if err != nil {
			return nil, TimelineOutput{}, err
		}

		views, err := svc.Timeline(ctx, q)
		out := TimelineOutput{Events: views}
		if err != nil {
			if len(views) == 0 {
				return nil, TimelineOutput{}, fmt.Errorf("reading timeline: %w", err)
			}
			out.Warnings = []string{err.Error()}
		}
		if input.Limit > 0 && len(out.Events) > input.Limit {
			out.Events = out.Events[:input.Limit]
		}
		out.Count = len(out.Events)
		return nil, out, nil
	}
}

// --- Refs tool ---

// RefsInput is the input for the refs tool (no parameters needed).
type RefsInput struct{}

// BranchTip is one commit with the branches pointing at it.
type BranchTip struct {
	Hash     string   `json:"hash"     jsonschema:"full commit hash"`
	Branches []string `json:"branches" jsonschema:"branch names, sorted"`
}

// RefsOutput is the output for the refs tool.
type RefsOutput struct {
	Count int         `json:"count" jsonschema:"number of distinct tip commits"`
	Tips  []BranchTip `json:"tips"  jsonschema:"tip commits sorted by first branch name, then hash"`
}

func handleRefs(svc Service) mcp.ToolHandlerFor[RefsInput, RefsOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ RefsInput) (*mcp.CallToolResult, RefsOutput, error) {
		table, err := svc.Refs(ctx)
		if err != nil {
			return nil, RefsOutput{}, fmt.Errorf("reading refs: %w", err)
		}

		tips := make([]BranchTip, 0, len(table))
		for hash, set := range table {
			tips = append(tips, BranchTip{Hash: hash, Branches: set.Sorted()})
		}
		// Ties on the first branch name break by hash so that map order
		// never leaks into the output.
		slices.SortFunc(tips, func(a, b BranchTip) int {
			return cmp.Or(cmp.Compare(a.Branches[0], b.Branches[0]), cmp.Compare(a.Hash, b.Hash))
		})
		return nil, RefsOutput{Count: len(tips), Tips: tips}, nil
	}
}

// --- Sync tool ---

// SyncInput is the input for the sync tool (no parameters needed).
type SyncInput struct{}

// SyncOutput is the output for the sync tool.
type SyncOutput struct {
	Outcome string `json:"outcome" jsonschema:"fetched, or coalesced when a fetch was already running"`
}

func handleSync(svc Service) mcp.ToolHandlerFor[SyncInput, SyncOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ SyncInput) (*mcp.CallToolResult, SyncOutput, error) {
		outcome, err := svc.Fetch(ctx)
		if err != nil {
			return nil, SyncOutput{}, fmt.Errorf("fetching: %w", err)
		}
		return nil, SyncOutput{Outcome: outcome.String()}, nil
	}
}
