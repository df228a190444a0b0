package memstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linagraph/linagraph/rdf"
	"github.com/linagraph/linagraph/store"
)

func mustAddr(t *testing.T, project, filePath string, nodeType rdf.NodeType, symbol string) rdf.Address {
	t.Helper()
	addr, err := rdf.Build(project, filePath, nodeType, symbol)
	require.NoError(t, err)
	return addr
}

func TestUpsertNodeIsIdempotent(t *testing.T) {
	s := New()
	addr := mustAddr(t, "proj", "src/a.ts", "", "")
	ctx := context.Background()

	err := s.Transaction(ctx, "src/a.ts", func(tx store.Tx) error {
		id1, err := s.UpsertNode(tx, store.Node{Address: addr, NodeType: rdf.File, SourceFile: "src/a.ts"})
		require.NoError(t, err)
		id2, err := s.UpsertNode(tx, store.Node{Address: addr, NodeType: rdf.File, SourceFile: "src/a.ts"})
		require.NoError(t, err)
		assert.Equal(t, id1, id2)
		return nil
	})
	require.NoError(t, err)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Nodes)
}

func TestUpsertNodeMergesPropertiesAndTags(t *testing.T) {
	s := New()
	addr := mustAddr(t, "proj", "src/a.ts", "", "")
	ctx := context.Background()

	require.NoError(t, s.Transaction(ctx, "src/a.ts", func(tx store.Tx) error {
		_, err := s.UpsertNode(tx, store.Node{
			Address: addr, NodeType: rdf.File, SourceFile: "src/a.ts",
			SemanticTags: []string{"source"},
			Properties:   map[string]any{"a": 1},
		})
		return err
	}))

	require.NoError(t, s.Transaction(ctx, "src/a.ts", func(tx store.Tx) error {
		_, err := s.UpsertNode(tx, store.Node{
			Address: addr, NodeType: rdf.File, SourceFile: "src/a.ts",
			SemanticTags: []string{"test"},
			Properties:   map[string]any{"b": 2},
		})
		return err
	}))

	node, ok, err := s.NodeByAddress(ctx, addr)
	require.NoError(t, err)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"source", "test"}, node.SemanticTags)
	assert.Equal(t, 1, node.Properties["a"])
	assert.Equal(t, 2, node.Properties["b"])
}

func TestUpsertNodeRejectsNodeTypeChange(t *testing.T) {
	s := New()
	addr := mustAddr(t, "proj", "src/a.ts", "", "")
	ctx := context.Background()

	require.NoError(t, s.Transaction(ctx, "src/a.ts", func(tx store.Tx) error {
		_, err := s.UpsertNode(tx, store.Node{Address: addr, NodeType: rdf.File})
		return err
	}))

	err := s.Transaction(ctx, "src/a.ts", func(tx store.Tx) error {
		_, err := s.UpsertNode(tx, store.Node{Address: addr, NodeType: rdf.Directory})
		return err
	})
	require.Error(t, err)
	var me *store.MergeError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, store.NodeTypeLockViolation, me.Kind)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	s := New()
	addr := mustAddr(t, "proj", "src/a.ts", "", "")
	ctx := context.Background()

	err := s.Transaction(ctx, "src/a.ts", func(tx store.Tx) error {
		_, err := s.UpsertNode(tx, store.Node{Address: addr, NodeType: rdf.File})
		require.NoError(t, err)
		return assert.AnError
	})
	require.Error(t, err)

	_, ok, err := s.NodeByAddress(ctx, addr)
	require.NoError(t, err)
	assert.False(t, ok, "rolled back transaction must not commit partial writes")
}

func TestFindNodesByTypeAndTag(t *testing.T) {
	s := New()
	ctx := context.Background()
	a := mustAddr(t, "proj", "src/a.ts", "", "")
	b := mustAddr(t, "proj", "src/b.ts", "", "")

	require.NoError(t, s.Transaction(ctx, "src/a.ts", func(tx store.Tx) error {
		if _, err := s.UpsertNode(tx, store.Node{Address: a, NodeType: rdf.File, SemanticTags: []string{"source"}}); err != nil {
			return err
		}
		_, err := s.UpsertNode(tx, store.Node{Address: b, NodeType: rdf.File, SemanticTags: []string{"test"}})
		return err
	}))

	found, err := s.FindNodes(ctx, store.NodeCriteria{NodeTypes: []rdf.NodeType{rdf.File}, SemanticTags: []string{"test"}})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.True(t, found[0].Address.Equal(b))
}

func TestNeighborsRespectsDirectionAndEdgeType(t *testing.T) {
	s := New()
	ctx := context.Background()
	a := mustAddr(t, "proj", "src/a.ts", "", "")
	b := mustAddr(t, "proj", "src/b.ts", "", "")

	var aID, bID int64
	require.NoError(t, s.Transaction(ctx, "src/a.ts", func(tx store.Tx) error {
		var err error
		aID, err = s.UpsertNode(tx, store.Node{Address: a, NodeType: rdf.File})
		if err != nil {
			return err
		}
		bID, err = s.UpsertNode(tx, store.Node{Address: b, NodeType: rdf.File})
		if err != nil {
			return err
		}
		_, err = s.UpsertEdge(tx, store.Edge{FromID: aID, ToID: bID, EdgeType: "imports_file"})
		return err
	}))

	out, err := s.Neighbors(ctx, aID, store.Out, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, bID, out[0].ToID)

	in, err := s.Neighbors(ctx, bID, store.In, nil)
	require.NoError(t, err)
	require.Len(t, in, 1)

	none, err := s.Neighbors(ctx, aID, store.In, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStatsCountsCircularDependencies(t *testing.T) {
	s := New()
	ctx := context.Background()
	a := mustAddr(t, "proj", "src/a.ts", "", "")
	b := mustAddr(t, "proj", "src/b.ts", "", "")

	require.NoError(t, s.Transaction(ctx, "src/a.ts", func(tx store.Tx) error {
		aID, err := s.UpsertNode(tx, store.Node{Address: a, NodeType: rdf.File})
		if err != nil {
			return err
		}
		bID, err := s.UpsertNode(tx, store.Node{Address: b, NodeType: rdf.File})
		if err != nil {
			return err
		}
		if _, err := s.UpsertEdge(tx, store.Edge{FromID: aID, ToID: bID, EdgeType: "depends_on"}); err != nil {
			return err
		}
		_, err = s.UpsertEdge(tx, store.Edge{FromID: bID, ToID: aID, EdgeType: "depends_on"})
		return err
	}))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CircularDependencies)
}

func TestConcurrentTransactionsToSameAddressDoNotDuplicate(t *testing.T) {
	s := New()
	ctx := context.Background()
	dirAddr := mustAddr(t, "proj", "src", "", "")

	const files = 8
	var wg sync.WaitGroup
	wg.Add(files)
	for i := 0; i < files; i++ {
		i := i
		go func() {
			defer wg.Done()
			file := fmt.Sprintf("src/f%d.ts", i)
			_ = s.Transaction(ctx, file, func(tx store.Tx) error {
				_, err := s.UpsertNode(tx, store.Node{Address: dirAddr, NodeType: rdf.Directory, SourceFile: file})
				return err
			})
		}()
	}
	wg.Wait()

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Nodes, "every file's Directory node must resolve to the same address")
}

func TestSnapshotIsIsolatedFromLaterWrites(t *testing.T) {
	s := New()
	ctx := context.Background()
	a := mustAddr(t, "proj", "src/a.ts", "", "")

	require.NoError(t, s.Transaction(ctx, "src/a.ts", func(tx store.Tx) error {
		_, err := s.UpsertNode(tx, store.Node{Address: a, NodeType: rdf.File})
		return err
	}))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)

	b := mustAddr(t, "proj", "src/b.ts", "", "")
	require.NoError(t, s.Transaction(ctx, "src/b.ts", func(tx store.Tx) error {
		_, err := s.UpsertNode(tx, store.Node{Address: b, NodeType: rdf.File})
		return err
	}))

	nodes, err := snap.FindNodes(store.NodeCriteria{})
	require.NoError(t, err)
	assert.Len(t, nodes, 1, "snapshot must not observe writes that committed after it was taken")
}
