package inference

import (
	"context"

	"github.com/linagraph/linagraph/edgetype"
	"github.com/linagraph/linagraph/store"
)

// DefaultInheritableDepth is the inheritable query's default ceiling.
const DefaultInheritableDepth = 5

// Propagated reports a relation of relationType attached to one
// endpoint of a containment chain, reported against the other endpoint
// at the given depth along that chain.
type Propagated struct {
	NodeID int64
	EdgeID int64
	Depth  int
}

// Inheritable propagates relationType edges through the containment
// chain (ancestors and descendants connected by isInheritable edge
// types) rooted at nodeID, up to maxDepth hops. Pass a negative
// maxDepth for DefaultInheritableDepth; values above MaxDepthCeiling
// are clamped.
//
// For every ancestor/descendant pair along an inheritable containment
// chain, a relationType edge attached to one endpoint is reported
// against the other: a node's containing directory's semantic tags, or
// a class's `implements` commitment propagating to its nested types,
// are both expressible this way.
func Inheritable(ctx context.Context, snap store.Snapshot, cat *edgetype.Catalogue, nodeID int64, relationType string, maxDepth int) ([]Propagated, error) {
	if _, ok := cat.Get(relationType); !ok {
		return nil, &QueryError{Kind: UnknownEdgeType, Message: relationType}
	}
	if maxDepth < 0 {
		maxDepth = DefaultInheritableDepth
	}
	if maxDepth > MaxDepthCeiling {
		maxDepth = MaxDepthCeiling
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultQueryTimeout)
		defer cancel()
	}

	inheritableTypes := inheritableEdgeTypes(cat)

	chain, err := containmentChain(ctx, snap, nodeID, inheritableTypes, maxDepth)
	if err != nil {
		return nil, err
	}

	var out []Propagated
	for _, member := range chain {
		if member.NodeID == nodeID {
			continue
		}
		edges, err := snap.Neighbors(member.NodeID, store.Both, []string{relationType})
		if err != nil {
			return out, err
		}
		for _, e := range edges {
			out = append(out, Propagated{NodeID: member.NodeID, EdgeID: e.ID, Depth: member.Depth})
		}
	}
	return out, nil
}

type chainMember struct {
	NodeID int64
	Depth  int
}

// containmentChain walks both directions (contained-by and contains)
// over the inheritable edge types, returning every node reached within
// maxDepth, deduplicated.
func containmentChain(ctx context.Context, snap store.Snapshot, nodeID int64, types []string, maxDepth int) ([]chainMember, error) {
	visited := map[int64]bool{nodeID: true}
	var out []chainMember
	frontier := []int64{nodeID}
	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		select {
		case <-ctx.Done():
			return out, &QueryError{Kind: Timeout, Message: ctx.Err().Error(), Partial: true}
		default:
		}
		var next []int64
		for _, id := range frontier {
			edges, err := snap.Neighbors(id, store.Both, types)
			if err != nil {
				return out, err
			}
			for _, e := range edges {
				other := e.ToID
				if other == id {
					other = e.FromID
				}
				if visited[other] {
					continue
				}
				visited[other] = true
				out = append(out, chainMember{NodeID: other, Depth: depth})
				next = append(next, other)
			}
		}
		frontier = next
	}
	return out, nil
}

func inheritableEdgeTypes(cat *edgetype.Catalogue) []string {
	var out []string
	for _, name := range cat.Names() {
		if cat.IsInheritable(name) {
			out = append(out, name)
		}
	}
	return out
}
