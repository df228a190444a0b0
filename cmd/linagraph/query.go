package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linagraph/linagraph/inference"
	"github.com/linagraph/linagraph/rdf"
	"github.com/linagraph/linagraph/store"
	"github.com/linagraph/linagraph/store/memstore"
)

var (
	queryNamespace string
	queryEdgeType  string
	queryAddress   string
	queryMaxDepth  int
	queryIncludeUp bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "run an inference query against a namespace's graph",
}

var queryHierarchicalCmd = &cobra.Command{
	Use:   "hierarchical",
	Short: "expand an edge type over the edge-type tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, cat, err := runNamespace(cmd, queryNamespace, memstore.New(), logger)
		if err != nil {
			return fail(err)
		}
		snap, err := st.Snapshot(cmd.Context())
		if err != nil {
			return fail(err)
		}
		edges, err := inference.Hierarchical(snap, cat, queryEdgeType, inference.HierarchicalOptions{
			IncludeChildren: true,
			IncludeParents:  queryIncludeUp,
		})
		if err != nil {
			return fail(err)
		}
		return printJSON(cmd, edges)
	},
}

var queryTransitiveCmd = &cobra.Command{
	Use:   "transitive",
	Short: "compute the reflexive-transitive closure of an edge type from a source address",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, cat, err := runNamespace(cmd, queryNamespace, memstore.New(), logger)
		if err != nil {
			return fail(err)
		}
		sourceID, err := resolveNodeID(cmd, st, queryAddress)
		if err != nil {
			return fail(err)
		}
		snap, err := st.Snapshot(cmd.Context())
		if err != nil {
			return fail(err)
		}
		reached, err := inference.Transitive(cmd.Context(), snap, cat, sourceID, queryEdgeType, queryMaxDepth)
		if err != nil {
			return fail(err)
		}
		return printJSON(cmd, reached)
	},
}

var queryInheritableCmd = &cobra.Command{
	Use:   "inheritable",
	Short: "propagate an edge type through a node's containment chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, cat, err := runNamespace(cmd, queryNamespace, memstore.New(), logger)
		if err != nil {
			return fail(err)
		}
		nodeID, err := resolveNodeID(cmd, st, queryAddress)
		if err != nil {
			return fail(err)
		}
		snap, err := st.Snapshot(cmd.Context())
		if err != nil {
			return fail(err)
		}
		propagated, err := inference.Inheritable(cmd.Context(), snap, cat, nodeID, queryEdgeType, queryMaxDepth)
		if err != nil {
			return fail(err)
		}
		return printJSON(cmd, propagated)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.AddCommand(queryHierarchicalCmd, queryTransitiveCmd, queryInheritableCmd)

	queryCmd.PersistentFlags().StringVar(&queryNamespace, "namespace", "", "namespace to run before querying (defaults to the config's default)")
	queryCmd.PersistentFlags().StringVar(&queryEdgeType, "edge-type", "", "edge type to query")
	queryCmd.PersistentFlags().StringVar(&queryAddress, "address", "", "source/subject node address")
	queryCmd.PersistentFlags().IntVar(&queryMaxDepth, "max-depth", -1, "maximum traversal depth (-1 uses the query's default)")
	queryHierarchicalCmd.Flags().BoolVar(&queryIncludeUp, "include-parents", false, "also include ancestor edge types")
}

func resolveNodeID(cmd *cobra.Command, st store.Store, raw string) (int64, error) {
	addr, err := rdf.Parse(raw)
	if err != nil {
		return 0, fmt.Errorf("parse address: %w", err)
	}
	node, ok, err := st.NodeByAddress(cmd.Context(), addr)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("no node found for address %q", raw)
	}
	return node.ID, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
