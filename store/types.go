// Package store defines the Graph Store contract (C3): idempotent
// upsert of nodes and edges, indexed lookup by identifier/type/tag/
// endpoint, and per-file transactional merge. Concrete implementations
// live in subpackages (store/memstore is the default, in-memory one).
package store

import (
	"context"
	"time"

	"github.com/linagraph/linagraph/rdf"
)

// Node is a store-local record of a dependency-graph entity. Id is a
// monotonic surrogate; Address is the external identity and the
// uniqueness key.
type Node struct {
	ID           int64
	Address      rdf.Address
	NodeType     rdf.NodeType
	Name         string
	SourceFile   string
	Language     string
	SemanticTags []string
	Properties   map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Edge is a store-local record of a typed relation between two nodes.
// Its uniqueness key is (FromID, ToID, EdgeType).
type Edge struct {
	ID         int64
	FromID     int64
	ToID       int64
	EdgeType   string
	Properties map[string]any
	SourceFile string
}

// NodeCriteria selects nodes for FindNodes. Zero-value fields are
// unconstrained; non-empty slice fields are ANDed with each other and
// ORed within themselves (address IN (...), nodeType IN (...), etc.),
// except SemanticTags, whose members are ANDed (a node must carry all
// listed tags).
type NodeCriteria struct {
	Addresses    []rdf.Address
	NodeTypes    []rdf.NodeType
	SemanticTags []string
	SourceFiles  []string
}

// EdgeCriteria selects edges for FindEdges.
type EdgeCriteria struct {
	FromIDs   []int64
	ToIDs     []int64
	EdgeTypes []string
}

// Direction constrains Neighbors traversal.
type Direction int

const (
	Out Direction = iota
	In
	Both
)

// Store is the Graph Store contract. Implementations must be safe for
// concurrent use: writes serialize per file scope via Transaction;
// reads may observe a snapshot concurrently with in-flight writes.
type Store interface {
	// UpsertNode inserts or merges a node, keyed by Address, enforcing
	// the NodeType lock (a NodeType mismatch on an existing address is
	// a MergeError). Must be called within a Transaction.
	UpsertNode(tx Tx, node Node) (int64, error)

	// UpsertEdge inserts or merges an edge keyed by
	// (FromID, ToID, EdgeType). Must be called within a Transaction.
	UpsertEdge(tx Tx, edge Edge) (int64, error)

	FindNodes(ctx context.Context, criteria NodeCriteria) ([]Node, error)
	FindEdges(ctx context.Context, criteria EdgeCriteria) ([]Edge, error)
	Neighbors(ctx context.Context, nodeID int64, dir Direction, edgeTypes []string) ([]Edge, error)

	// NodeByAddress is a convenience lookup used by the runner's merge
	// step and the CLI to resolve an address to its stored node.
	NodeByAddress(ctx context.Context, address rdf.Address) (Node, bool, error)

	// Transaction runs fn within one serializable, per-file write
	// scope. A returned error rolls back every write fn performed.
	Transaction(ctx context.Context, sourceFile string, fn func(tx Tx) error) error

	// Snapshot returns a consistent read view for the Inference
	// Engine, safe to query concurrently with further writes.
	Snapshot(ctx context.Context) (Snapshot, error)

	// Stats reports aggregate counters for the result summary.
	Stats(ctx context.Context) (Stats, error)
}

// Tx scopes the upsert calls performed within one Transaction.
type Tx interface {
	sourceFile() string
}

// Snapshot is a read-only, point-in-time view of the store.
type Snapshot interface {
	FindNodes(criteria NodeCriteria) ([]Node, error)
	FindEdges(criteria EdgeCriteria) ([]Edge, error)
	Neighbors(nodeID int64, dir Direction, edgeTypes []string) ([]Edge, error)
	NodeByID(id int64) (Node, bool)
}

// Stats is the graphStats portion of the namespace result summary.
type Stats struct {
	Nodes                int
	Edges                int
	CircularDependencies int
}
