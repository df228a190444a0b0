package memstore

import (
	"context"

	"github.com/linagraph/linagraph/rdf"
	"github.com/linagraph/linagraph/store"
)

// snapshot is an immutable, point-in-time copy of the store's maps,
// safe to query concurrently with further writes to the live Store.
type snapshot struct {
	nodesByID map[int64]*store.Node
	byAddress map[string]int64

	byNodeType   map[rdf.NodeType]map[int64]bool
	bySourceFile map[string]map[int64]bool

	edgesByID map[int64]*store.Edge
	byEdgeType map[string]map[int64]bool
	outIndex   map[int64]map[string]map[int64]bool
	inIndex    map[int64]map[string]map[int64]bool
}

// Snapshot returns a consistent read view for the Inference Engine.
func (s *Store) Snapshot(ctx context.Context) (store.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &snapshot{
		nodesByID:    make(map[int64]*store.Node, len(s.nodesByID)),
		byAddress:    make(map[string]int64, len(s.byAddress)),
		byNodeType:   copyInt64SetMap(s.byNodeType),
		bySourceFile: copyStringSetMap(s.bySourceFile),
		edgesByID:    make(map[int64]*store.Edge, len(s.edgesByID)),
		byEdgeType:   copyStringSetMap(s.byEdgeType),
		outIndex:     copyNestedIndex(s.outIndex),
		inIndex:      copyNestedIndex(s.inIndex),
	}
	for id, n := range s.nodesByID {
		cp := *n
		snap.nodesByID[id] = &cp
	}
	for k, v := range s.byAddress {
		snap.byAddress[k] = v
	}
	for id, e := range s.edgesByID {
		cp := *e
		snap.edgesByID[id] = &cp
	}
	return snap, nil
}

func copyInt64SetMap[K comparable](src map[K]map[int64]bool) map[K]map[int64]bool {
	out := make(map[K]map[int64]bool, len(src))
	for k, set := range src {
		cp := make(map[int64]bool, len(set))
		for id := range set {
			cp[id] = true
		}
		out[k] = cp
	}
	return out
}

func copyStringSetMap(src map[string]map[int64]bool) map[string]map[int64]bool {
	return copyInt64SetMap(src)
}

func copyNestedIndex(src map[int64]map[string]map[int64]bool) map[int64]map[string]map[int64]bool {
	out := make(map[int64]map[string]map[int64]bool, len(src))
	for k, byType := range src {
		out[k] = copyInt64SetMap(byType)
	}
	return out
}

func (sn *snapshot) NodeByID(id int64) (store.Node, bool) {
	n, ok := sn.nodesByID[id]
	if !ok {
		return store.Node{}, false
	}
	return *n, true
}

func (sn *snapshot) FindNodes(criteria store.NodeCriteria) ([]store.Node, error) {
	shim := &Store{
		nodesByID:    sn.nodesByID,
		byAddress:    sn.byAddress,
		byNodeType:   sn.byNodeType,
		bySourceFile: sn.bySourceFile,
	}
	return findNodesLocked(shim, criteria), nil
}

func (sn *snapshot) FindEdges(criteria store.EdgeCriteria) ([]store.Edge, error) {
	shim := &Store{edgesByID: sn.edgesByID}
	return findEdgesLocked(shim, criteria), nil
}

func (sn *snapshot) Neighbors(nodeID int64, dir store.Direction, edgeTypes []string) ([]store.Edge, error) {
	shim := &Store{edgesByID: sn.edgesByID, outIndex: sn.outIndex, inIndex: sn.inIndex}
	return neighborsLocked(shim, nodeID, dir, edgeTypes), nil
}
