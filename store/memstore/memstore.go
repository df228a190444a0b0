// Package memstore is the default in-memory Graph Store implementation
// backing store.Store, modeled on the array-plus-index-map lookup
// idiom used throughout the teacher's inspector/graph types.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/linagraph/linagraph/rdf"
	"github.com/linagraph/linagraph/store"
)

// Store is a RWMutex-guarded, in-memory Store. It is safe for
// concurrent use; Transaction serializes all writes behind a single
// write lock, which is the store's contention primitive referenced by
// the concurrency model.
type Store struct {
	mu sync.RWMutex

	nodesByID map[int64]*store.Node
	byAddress map[string]int64 // address string -> node id

	byNodeType   map[rdf.NodeType]map[int64]bool
	bySourceFile map[string]map[int64]bool

	edgesByID map[int64]*store.Edge
	byEdgeKey map[string]int64 // "fromID|toID|edgeType" -> edge id

	byEdgeType map[string]map[int64]bool
	outIndex   map[int64]map[string]map[int64]bool // fromID -> edgeType -> edgeIDs
	inIndex    map[int64]map[string]map[int64]bool // toID -> edgeType -> edgeIDs

	nextNodeID int64
	nextEdgeID int64
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		nodesByID:    make(map[int64]*store.Node),
		byAddress:    make(map[string]int64),
		byNodeType:   make(map[rdf.NodeType]map[int64]bool),
		bySourceFile: make(map[string]map[int64]bool),
		edgesByID:    make(map[int64]*store.Edge),
		byEdgeKey:    make(map[string]int64),
		byEdgeType:   make(map[string]map[int64]bool),
		outIndex:     make(map[int64]map[string]map[int64]bool),
		inIndex:      make(map[int64]map[string]map[int64]bool),
	}
}

func edgeKey(fromID, toID int64, edgeType string) string {
	return fmt.Sprintf("%d|%d|%s", fromID, toID, edgeType)
}

// txImpl stages writes for one Transaction call; nothing is visible to
// other readers/writers until Commit applies the stage under the
// store's write lock.
type txImpl struct {
	source string
	s      *Store

	stagedNodes map[string]*store.Node // by address string
	nodeOrder   []string
	stagedEdges map[string]*store.Edge // by edgeKey
	edgeOrder   []string
}

func (t *txImpl) sourceFile() string { return t.source }

// Transaction runs fn within one serializable, per-file write scope.
// fn stages writes against provisional, tx-local node/edge ids with no
// visibility into the shared store; Transaction itself resolves every
// staged address/edge-key against the committed store and applies the
// result while holding the write lock for the whole apply phase, so
// two transactions touching the same address serialize on the store's
// contention primitive instead of racing between a check and a write.
func (s *Store) Transaction(ctx context.Context, sourceFile string, fn func(tx store.Tx) error) error {
	tx := &txImpl{
		source:      sourceFile,
		s:           s,
		stagedNodes: make(map[string]*store.Node),
		stagedEdges: make(map[string]*store.Edge),
	}

	if err := fn(tx); err != nil {
		return err // nothing staged is ever applied: rollback is implicit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	// resolvedNode pairs a staged node with the id it finally commits
	// under, which is the existing node's id if one was already
	// registered at this address (whether from before this transaction
	// started or from a transaction that committed first), or the
	// staged node's own provisional id otherwise.
	type resolvedNode struct {
		key  string
		id   int64
		node *store.Node
	}
	resolved := make([]resolvedNode, 0, len(tx.nodeOrder))
	remap := make(map[int64]int64) // tx-local id -> final committed id

	for _, key := range tx.nodeOrder {
		staged := tx.stagedNodes[key]
		if existingID, ok := s.byAddress[key]; ok {
			existing := s.nodesByID[existingID]
			merged, err := mergeNode(existing, *staged, now)
			if err != nil {
				return err
			}
			merged.ID = existingID
			if staged.ID != existingID {
				remap[staged.ID] = existingID
			}
			resolved = append(resolved, resolvedNode{key: key, id: existingID, node: merged})
			continue
		}
		resolved = append(resolved, resolvedNode{key: key, id: staged.ID, node: staged})
	}

	for _, r := range resolved {
		s.nodesByID[r.id] = r.node
		s.byAddress[r.key] = r.id
		if s.byNodeType[r.node.NodeType] == nil {
			s.byNodeType[r.node.NodeType] = make(map[int64]bool)
		}
		s.byNodeType[r.node.NodeType][r.id] = true
		if r.node.SourceFile != "" {
			if s.bySourceFile[r.node.SourceFile] == nil {
				s.bySourceFile[r.node.SourceFile] = make(map[int64]bool)
			}
			s.bySourceFile[r.node.SourceFile][r.id] = true
		}
	}

	for _, key := range tx.edgeOrder {
		staged := tx.stagedEdges[key]
		fromID, toID := staged.FromID, staged.ToID
		if r, ok := remap[fromID]; ok {
			fromID = r
		}
		if r, ok := remap[toID]; ok {
			toID = r
		}
		finalKey := edgeKey(fromID, toID, staged.EdgeType)

		if existingID, ok := s.byEdgeKey[finalKey]; ok {
			merged := mergeEdge(s.edgesByID[existingID], *staged)
			merged.ID = existingID
			merged.FromID = fromID
			merged.ToID = toID
			s.edgesByID[existingID] = merged
			continue
		}

		fresh := *staged
		fresh.FromID = fromID
		fresh.ToID = toID
		s.edgesByID[fresh.ID] = &fresh
		s.byEdgeKey[finalKey] = fresh.ID
		if s.byEdgeType[fresh.EdgeType] == nil {
			s.byEdgeType[fresh.EdgeType] = make(map[int64]bool)
		}
		s.byEdgeType[fresh.EdgeType][fresh.ID] = true
		if s.outIndex[fresh.FromID] == nil {
			s.outIndex[fresh.FromID] = make(map[string]map[int64]bool)
		}
		if s.outIndex[fresh.FromID][fresh.EdgeType] == nil {
			s.outIndex[fresh.FromID][fresh.EdgeType] = make(map[int64]bool)
		}
		s.outIndex[fresh.FromID][fresh.EdgeType][fresh.ID] = true
		if s.inIndex[fresh.ToID] == nil {
			s.inIndex[fresh.ToID] = make(map[string]map[int64]bool)
		}
		if s.inIndex[fresh.ToID][fresh.EdgeType] == nil {
			s.inIndex[fresh.ToID][fresh.EdgeType] = make(map[int64]bool)
		}
		s.inIndex[fresh.ToID][fresh.EdgeType][fresh.ID] = true
	}

	return nil
}

// UpsertNode stages node under tx, keyed by Address. It never consults
// the shared store: a node at this address may already exist there
// (created before this transaction started, or by a transaction that
// commits first), but resolving that is Transaction's job, done once
// under the write lock at commit time, so the existence check and the
// write happen atomically instead of racing across transactions. The
// id returned here is only a tx-local handle, stable for the rest of
// this transaction and remapped to the final committed id if an
// existing node turns out to own this address. A NodeType mismatch
// against an already-staged node at the same address is a MergeError
// and the caller's transaction should return it so the whole file
// rolls back; a mismatch against an already-committed node is instead
// caught by Transaction at commit time.
func (s *Store) UpsertNode(tx store.Tx, node store.Node) (int64, error) {
	t, ok := tx.(*txImpl)
	if !ok {
		return 0, fmt.Errorf("memstore: tx not created by this store")
	}
	key := node.Address.String()
	now := time.Now()

	if staged, ok := t.stagedNodes[key]; ok {
		merged, err := mergeNode(staged, node, now)
		if err != nil {
			return 0, err
		}
		t.stagedNodes[key] = merged
		return merged.ID, nil
	}

	id := atomic.AddInt64(&s.nextNodeID, 1)
	fresh := node
	fresh.ID = id
	fresh.CreatedAt = now
	fresh.UpdatedAt = now
	if fresh.Properties == nil {
		fresh.Properties = map[string]any{}
	}
	t.stagedNodes[key] = &fresh
	t.nodeOrder = append(t.nodeOrder, key)
	return id, nil
}

// mergeNode implements §4.3's merge semantics: shallow property merge
// (new keys overwrite), semantic-tag union, updatedAt bump. NodeType is
// locked: a mismatch is a fatal MergeError for the file.
func mergeNode(existing *store.Node, incoming store.Node, now time.Time) (*store.Node, error) {
	if existing.NodeType != incoming.NodeType {
		return nil, &store.MergeError{
			Kind:    store.NodeTypeLockViolation,
			Address: incoming.Address.String(),
			Message: fmt.Sprintf("nodeType locked as %q, got %q", existing.NodeType, incoming.NodeType),
		}
	}
	merged := *existing
	merged.Name = incoming.Name
	if incoming.SourceFile != "" {
		merged.SourceFile = incoming.SourceFile
	}
	if incoming.Language != "" {
		merged.Language = incoming.Language
	}
	// Merge into a fresh map so existing (committed, or held by a
	// Snapshot) is left untouched if the transaction later fails.
	props := make(map[string]any, len(existing.Properties)+len(incoming.Properties))
	for k, v := range existing.Properties {
		props[k] = v
	}
	for k, v := range incoming.Properties {
		props[k] = v
	}
	merged.Properties = props
	merged.SemanticTags = unionStrings(existing.SemanticTags, incoming.SemanticTags)
	merged.UpdatedAt = now
	return &merged, nil
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// UpsertEdge stages edge under tx, keyed by (FromID, ToID, EdgeType).
// Like UpsertNode, it never consults the shared store: FromID/ToID are
// themselves tx-local handles at this point and may be remapped before
// the true edge key is known, so any existing-edge resolution is done
// by Transaction at commit time, under the write lock, once final ids
// are resolved.
func (s *Store) UpsertEdge(tx store.Tx, edge store.Edge) (int64, error) {
	t, ok := tx.(*txImpl)
	if !ok {
		return 0, fmt.Errorf("memstore: tx not created by this store")
	}
	key := edgeKey(edge.FromID, edge.ToID, edge.EdgeType)

	if staged, ok := t.stagedEdges[key]; ok {
		merged := mergeEdge(staged, edge)
		t.stagedEdges[key] = merged
		return merged.ID, nil
	}

	id := atomic.AddInt64(&s.nextEdgeID, 1)
	fresh := edge
	fresh.ID = id
	if fresh.Properties == nil {
		fresh.Properties = map[string]any{}
	}
	t.stagedEdges[key] = &fresh
	t.edgeOrder = append(t.edgeOrder, key)
	return id, nil
}

func mergeEdge(existing *store.Edge, incoming store.Edge) *store.Edge {
	merged := *existing
	props := make(map[string]any, len(existing.Properties)+len(incoming.Properties))
	for k, v := range existing.Properties {
		props[k] = v
	}
	for k, v := range incoming.Properties {
		props[k] = v
	}
	merged.Properties = props
	if incoming.SourceFile != "" {
		merged.SourceFile = incoming.SourceFile
	}
	return &merged
}

// NodeByAddress resolves address to its surrogate id.
func (s *Store) NodeByAddress(ctx context.Context, address rdf.Address) (store.Node, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byAddress[address.String()]
	if !ok {
		return store.Node{}, false, nil
	}
	return *s.nodesByID[id], true, nil
}

func (s *Store) FindNodes(ctx context.Context, criteria store.NodeCriteria) ([]store.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findNodesLocked(s, criteria), nil
}

func findNodesLocked(s *Store, criteria store.NodeCriteria) []store.Node {
	candidates := candidateNodeIDs(s, criteria)
	var out []store.Node
	for id := range candidates {
		n := s.nodesByID[id]
		if n == nil {
			continue
		}
		if !matchesNodeCriteria(n, criteria) {
			continue
		}
		out = append(out, *n)
	}
	sortNodesByID(out)
	return out
}

func candidateNodeIDs(s *Store, criteria store.NodeCriteria) map[int64]bool {
	if len(criteria.Addresses) > 0 {
		ids := make(map[int64]bool)
		for _, a := range criteria.Addresses {
			if id, ok := s.byAddress[a.String()]; ok {
				ids[id] = true
			}
		}
		return ids
	}
	if len(criteria.NodeTypes) > 0 {
		ids := make(map[int64]bool)
		for _, nt := range criteria.NodeTypes {
			for id := range s.byNodeType[nt] {
				ids[id] = true
			}
		}
		return ids
	}
	if len(criteria.SourceFiles) > 0 {
		ids := make(map[int64]bool)
		for _, sf := range criteria.SourceFiles {
			for id := range s.bySourceFile[sf] {
				ids[id] = true
			}
		}
		return ids
	}
	ids := make(map[int64]bool, len(s.nodesByID))
	for id := range s.nodesByID {
		ids[id] = true
	}
	return ids
}

func matchesNodeCriteria(n *store.Node, criteria store.NodeCriteria) bool {
	if len(criteria.NodeTypes) > 0 && !containsNodeType(criteria.NodeTypes, n.NodeType) {
		return false
	}
	if len(criteria.SourceFiles) > 0 && !containsString(criteria.SourceFiles, n.SourceFile) {
		return false
	}
	for _, tag := range criteria.SemanticTags {
		if !containsString(n.SemanticTags, tag) {
			return false
		}
	}
	return true
}

func containsNodeType(list []rdf.NodeType, v rdf.NodeType) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func (s *Store) FindEdges(ctx context.Context, criteria store.EdgeCriteria) ([]store.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findEdgesLocked(s, criteria), nil
}

func findEdgesLocked(s *Store, criteria store.EdgeCriteria) []store.Edge {
	var out []store.Edge
	for _, e := range s.edgesByID {
		if len(criteria.FromIDs) > 0 && !containsInt64(criteria.FromIDs, e.FromID) {
			continue
		}
		if len(criteria.ToIDs) > 0 && !containsInt64(criteria.ToIDs, e.ToID) {
			continue
		}
		if len(criteria.EdgeTypes) > 0 && !containsString(criteria.EdgeTypes, e.EdgeType) {
			continue
		}
		out = append(out, *e)
	}
	sortEdgesByID(out)
	return out
}

func containsInt64(list []int64, v int64) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func (s *Store) Neighbors(ctx context.Context, nodeID int64, dir store.Direction, edgeTypes []string) ([]store.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return neighborsLocked(s, nodeID, dir, edgeTypes), nil
}

func neighborsLocked(s *Store, nodeID int64, dir store.Direction, edgeTypes []string) []store.Edge {
	var out []store.Edge
	collect := func(index map[int64]map[string]map[int64]bool) {
		byType := index[nodeID]
		for et, ids := range byType {
			if len(edgeTypes) > 0 && !containsString(edgeTypes, et) {
				continue
			}
			for id := range ids {
				out = append(out, *s.edgesByID[id])
			}
		}
	}
	if dir == store.Out || dir == store.Both {
		collect(s.outIndex)
	}
	if dir == store.In || dir == store.Both {
		collect(s.inIndex)
	}
	sortEdgesByID(out)
	return out
}

func (s *Store) Stats(ctx context.Context) (store.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return store.Stats{
		Nodes:                len(s.nodesByID),
		Edges:                len(s.edgesByID),
		CircularDependencies: countCircularDependencies(s),
	}, nil
}
