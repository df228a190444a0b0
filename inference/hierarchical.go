package inference

import (
	"github.com/linagraph/linagraph/edgetype"
	"github.com/linagraph/linagraph/store"
)

// HierarchicalOptions configures the edge-type-tree expansion direction.
type HierarchicalOptions struct {
	IncludeChildren bool
	IncludeParents  bool
}

// Hierarchical expands edgeType over the catalogue's tree per Options
// and returns the union of edges whose type falls in the expansion.
// The expansion order is deterministic (self first, then descendants
// in BFS order by priority then name, then ascending parents), but the
// returned edge set itself is not an ordering guarantee beyond that.
func Hierarchical(snap store.Snapshot, cat *edgetype.Catalogue, edgeType string, opts HierarchicalOptions) ([]store.Edge, error) {
	if _, ok := cat.Get(edgeType); !ok {
		return nil, &QueryError{Kind: UnknownEdgeType, Message: edgeType}
	}

	types := []string{edgeType}
	if opts.IncludeChildren {
		types = cat.Expand(edgeType)
	}
	if opts.IncludeParents {
		parents := cat.ParentChain(edgeType)
		types = mergeTypeNames(types, parents)
	}

	return snap.FindEdges(store.EdgeCriteria{EdgeTypes: types})
}

func mergeTypeNames(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, t := range a {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, t := range b {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
