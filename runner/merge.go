package runner

import (
	"context"
	"path"

	"github.com/linagraph/linagraph/rdf"
	"github.com/linagraph/linagraph/scenario"
	"github.com/linagraph/linagraph/store"
)

// mergeResult writes one analyzer invocation's proposed nodes and edges
// into st within tx. Edge endpoints not already created by this result
// (a reference to a node some other, not-yet-processed file owns) are
// upserted as stub nodes so the edge always has somewhere to point;
// the owning file's later pass fills the stub in via the same
// NodeType-locked merge semantics UpsertNode already enforces.
func mergeResult(ctx context.Context, tx store.Tx, st store.Store, filePath string, result scenario.AnalysisResult) error {
	ids := make(map[string]int64, len(result.Nodes))

	for _, nd := range result.Nodes {
		id, err := st.UpsertNode(tx, store.Node{
			Address:      nd.Address,
			NodeType:     nd.NodeType,
			Name:         nd.Name,
			SourceFile:   filePath,
			Language:     nd.Language,
			SemanticTags: nd.SemanticTags,
			Properties:   nd.Properties,
		})
		if err != nil {
			return err
		}
		ids[nd.Address.String()] = id
	}

	resolve := func(addr rdf.Address) (int64, error) {
		key := addr.String()
		if id, ok := ids[key]; ok {
			return id, nil
		}
		if n, found, err := st.NodeByAddress(ctx, addr); err != nil {
			return 0, err
		} else if found {
			ids[key] = n.ID
			return n.ID, nil
		}
		id, err := st.UpsertNode(tx, store.Node{
			Address:    addr,
			NodeType:   stubNodeType(addr),
			Name:       stubName(addr),
			SourceFile: filePath,
		})
		if err != nil {
			return 0, err
		}
		ids[key] = id
		return id, nil
	}

	for _, ed := range result.Edges {
		fromID, err := resolve(ed.From)
		if err != nil {
			return err
		}
		toID, err := resolve(ed.To)
		if err != nil {
			return err
		}
		if _, err := st.UpsertEdge(tx, store.Edge{
			FromID:     fromID,
			ToID:       toID,
			EdgeType:   ed.EdgeType,
			Properties: ed.Properties,
			SourceFile: filePath,
		}); err != nil {
			return err
		}
	}
	return nil
}

// stubNodeType guesses the NodeType for an edge endpoint this result
// did not itself declare as a node.
func stubNodeType(addr rdf.Address) rdf.NodeType {
	if addr.IsSymbol() {
		return addr.NodeType()
	}
	if addr.IsLibrary() {
		return rdf.Namespace
	}
	return rdf.File
}

func stubName(addr rdf.Address) string {
	switch {
	case addr.IsSymbol():
		return addr.SymbolName()
	case addr.IsLibrary():
		return addr.Project()
	default:
		return path.Base(addr.FilePath())
	}
}
