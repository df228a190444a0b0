package inference_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linagraph/linagraph/edgetype"
	"github.com/linagraph/linagraph/inference"
	"github.com/linagraph/linagraph/rdf"
	"github.com/linagraph/linagraph/store"
	"github.com/linagraph/linagraph/store/memstore"
)

func addr(t *testing.T, name string) rdf.Address {
	t.Helper()
	a, err := rdf.Build("proj", name, "", "")
	require.NoError(t, err)
	return a
}

func upsertChain(t *testing.T, s *memstore.Store, edgeType string, names ...string) []int64 {
	t.Helper()
	ctx := context.Background()
	ids := make([]int64, len(names))
	for i, n := range names {
		err := s.Transaction(ctx, n, func(tx store.Tx) error {
			id, err := s.UpsertNode(tx, store.Node{Address: addr(t, n), NodeType: rdf.File, SourceFile: n})
			ids[i] = id
			return err
		})
		require.NoError(t, err)
	}
	for i := 0; i < len(names)-1; i++ {
		err := s.Transaction(ctx, names[i], func(tx store.Tx) error {
			_, err := s.UpsertEdge(tx, store.Edge{FromID: ids[i], ToID: ids[i+1], EdgeType: edgeType})
			return err
		})
		require.NoError(t, err)
	}
	return ids
}

func TestHierarchicalExpandsChildren(t *testing.T) {
	s := memstore.New()
	reg, err := edgetype.NewStandardRegistry()
	require.NoError(t, err)
	cat := reg.Snapshot()

	ids := upsertChain(t, s, edgetype.ImportsFile, "a.go", "b.go")
	ctx := context.Background()
	err = s.Transaction(ctx, "c.go", func(tx store.Tx) error {
		cID, err := s.UpsertNode(tx, store.Node{Address: addr(t, "c.go"), NodeType: rdf.File, SourceFile: "c.go"})
		if err != nil {
			return err
		}
		_, err = s.UpsertEdge(tx, store.Edge{FromID: ids[0], ToID: cID, EdgeType: edgetype.ImportsLibrary})
		return err
	})
	require.NoError(t, err)

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)

	edges, err := inference.Hierarchical(snap, cat, edgetype.Imports, inference.HierarchicalOptions{IncludeChildren: true})
	require.NoError(t, err)
	require.Len(t, edges, 2)
}

func TestTransitiveReachability(t *testing.T) {
	s := memstore.New()
	reg, err := edgetype.NewStandardRegistry()
	require.NoError(t, err)
	cat := reg.Snapshot()

	ids := upsertChain(t, s, edgetype.DependsOn, "a.go", "b.go", "c.go")
	ctx := context.Background()
	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)

	full, err := inference.Transitive(ctx, snap, cat, ids[0], edgetype.DependsOn, 10)
	require.NoError(t, err)
	require.Len(t, full, 2)

	shallow, err := inference.Transitive(ctx, snap, cat, ids[0], edgetype.DependsOn, 1)
	require.NoError(t, err)
	require.Len(t, shallow, 1)
	require.Equal(t, ids[1], shallow[0].NodeID)
}

func TestTransitiveMaxDepthZeroIsOneHop(t *testing.T) {
	s := memstore.New()
	reg, err := edgetype.NewStandardRegistry()
	require.NoError(t, err)
	cat := reg.Snapshot()

	ids := upsertChain(t, s, edgetype.DependsOn, "a.go", "b.go", "c.go")
	ctx := context.Background()
	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)

	result, err := inference.Transitive(ctx, snap, cat, ids[0], edgetype.DependsOn, 0)
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Equal(t, ids[1], result[0].NodeID)
}

func TestTransitiveCycleTerminates(t *testing.T) {
	s := memstore.New()
	reg, err := edgetype.NewStandardRegistry()
	require.NoError(t, err)
	cat := reg.Snapshot()

	ids := upsertChain(t, s, edgetype.DependsOn, "a.go", "b.go")
	ctx := context.Background()
	err = s.Transaction(ctx, "b.go", func(tx store.Tx) error {
		_, err := s.UpsertEdge(tx, store.Edge{FromID: ids[1], ToID: ids[0], EdgeType: edgetype.DependsOn})
		return err
	})
	require.NoError(t, err)

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)

	result, err := inference.Transitive(ctx, snap, cat, ids[0], edgetype.DependsOn, 10)
	require.NoError(t, err)
	require.Len(t, result, 2) // {B, A}, one path each
}

func TestInheritablePropagatesThroughContainment(t *testing.T) {
	s := memstore.New()
	reg, err := edgetype.NewStandardRegistry()
	require.NoError(t, err)
	cat := reg.Snapshot()

	ctx := context.Background()
	var dirID, fileID int64
	err = s.Transaction(ctx, "pkg", func(tx store.Tx) error {
		var err error
		dirID, err = s.UpsertNode(tx, store.Node{Address: addr(t, "pkg"), NodeType: rdf.Directory})
		if err != nil {
			return err
		}
		fileID, err = s.UpsertNode(tx, store.Node{Address: addr(t, "pkg/file.go"), NodeType: rdf.File, SourceFile: "pkg/file.go"})
		if err != nil {
			return err
		}
		_, err = s.UpsertEdge(tx, store.Edge{FromID: dirID, ToID: fileID, EdgeType: edgetype.Contains})
		return err
	})
	require.NoError(t, err)

	var tagSourceID int64
	err = s.Transaction(ctx, "pkg", func(tx store.Tx) error {
		var err error
		tagSourceID, err = s.UpsertNode(tx, store.Node{Address: addr(t, "pkg/owner.go"), NodeType: rdf.File})
		if err != nil {
			return err
		}
		_, err = s.UpsertEdge(tx, store.Edge{FromID: dirID, ToID: tagSourceID, EdgeType: edgetype.References})
		return err
	})
	require.NoError(t, err)

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)

	propagated, err := inference.Inheritable(ctx, snap, cat, fileID, edgetype.References, -1)
	require.NoError(t, err)
	require.NotEmpty(t, propagated)
}
