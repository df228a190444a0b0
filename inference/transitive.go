package inference

import (
	"context"
	"time"

	"github.com/linagraph/linagraph/edgetype"
	"github.com/linagraph/linagraph/store"
)

// DefaultMaxDepth is the transitive query's default traversal depth.
const DefaultMaxDepth = 10

// MaxDepthCeiling is the hard ceiling no transitive query may exceed,
// regardless of the caller-requested maxDepth.
const MaxDepthCeiling = 10

// DefaultQueryTimeout is the timeout applied when ctx carries no
// earlier deadline.
const DefaultQueryTimeout = 30 * time.Second

// Reachable is one node in a transitive closure, at the depth it was
// first reached.
type Reachable struct {
	NodeID int64
	Depth  int
}

// Transitive computes the reflexive-transitive closure of sourceID over
// edgeType (or any descendant of edgeType in the catalogue's tree),
// capped at maxDepth hops. Pass a negative maxDepth to use
// DefaultMaxDepth; any value above MaxDepthCeiling is clamped to it.
// maxDepth=0 returns only the source's direct edges of the requested
// type (depth 1), per the documented boundary convention.
//
// A visited-set guards cycles: each node is reported at most once, at
// the depth it was first reached. If ctx's deadline elapses mid-walk,
// Transitive returns the nodes found so far alongside a QueryError
// with Kind=Timeout and Partial=true.
func Transitive(ctx context.Context, snap store.Snapshot, cat *edgetype.Catalogue, sourceID int64, edgeType string, maxDepth int) ([]Reachable, error) {
	if _, ok := cat.Get(edgeType); !ok {
		return nil, &QueryError{Kind: UnknownEdgeType, Message: edgeType}
	}
	if maxDepth < 0 {
		maxDepth = DefaultMaxDepth
	}
	if maxDepth > MaxDepthCeiling {
		maxDepth = MaxDepthCeiling
	}
	// maxDepth=0 is a documented special case: it still performs one
	// hop (the source's direct edges), reported at depth 1.
	hops := maxDepth
	if hops < 1 {
		hops = 1
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultQueryTimeout)
		defer cancel()
	}

	types := cat.Expand(edgeType)
	// expanded marks nodes whose out-edges have already been queried,
	// guaranteeing each node is visited (expanded) at most once.
	expanded := map[int64]bool{sourceID: true}
	emitted := map[int64]bool{}
	var out []Reachable

	frontier := []int64{sourceID}
	for depth := 1; depth <= hops && len(frontier) > 0; depth++ {
		select {
		case <-ctx.Done():
			return out, &QueryError{Kind: Timeout, Message: ctx.Err().Error(), Partial: true}
		default:
		}

		var next []int64
		for _, nodeID := range frontier {
			edges, err := snap.Neighbors(nodeID, store.Out, types)
			if err != nil {
				return out, err
			}
			for _, e := range edges {
				if e.ToID != sourceID && expanded[e.ToID] {
					continue
				}
				if !emitted[e.ToID] {
					emitted[e.ToID] = true
					out = append(out, Reachable{NodeID: e.ToID, Depth: depth})
				}
				if e.ToID == sourceID {
					continue // already expanded at the start; a true cycle, not re-walked
				}
				expanded[e.ToID] = true
				next = append(next, e.ToID)
			}
		}
		frontier = next
	}

	return out, nil
}
