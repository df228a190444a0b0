package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"go.uber.org/zap"

	"github.com/linagraph/linagraph/edgetype"
	"github.com/linagraph/linagraph/nsconfig"
	"github.com/linagraph/linagraph/runner"
	"github.com/linagraph/linagraph/store"
	"github.com/linagraph/linagraph/store/memstore"
)

var runCmd = &cobra.Command{
	Use:   "run [namespace]",
	Short: "execute a namespace's scenarios and print the result summary",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) == 1 {
			name = args[0]
		}
		summary, _, _, err := runNamespace(cmd, name, memstore.New(), logger)
		if err != nil {
			return fail(err)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// runNamespace loads configPath, resolves name (falling back to the
// document default), validates it against the built-in scenario
// registry, and runs it against st. It also returns the edge type
// catalogue the run's scenarios registered against, since query.go
// needs both the populated store and the catalogue to run an
// inference query immediately afterward — the in-memory store and
// registry have no existence beyond this process, so a query always
// re-runs the namespace first.
func runNamespace(cmd *cobra.Command, name string, st store.Store, log *zap.Logger) (runner.Summary, store.Store, *edgetype.Catalogue, error) {
	ctx := cmd.Context()
	fs := afs.New()

	doc, err := nsconfig.Load(ctx, fs, configPath)
	if err != nil {
		return runner.Summary{}, nil, nil, fmt.Errorf("load config: %w", err)
	}

	registry, err := builtinRegistry()
	if err != nil {
		return runner.Summary{}, nil, nil, fmt.Errorf("bootstrap scenarios: %w", err)
	}
	if err := doc.Validate(registry); err != nil {
		return runner.Summary{}, nil, nil, fmt.Errorf("validate config: %w", err)
	}

	resolvedName, ns, err := doc.Resolve(name)
	if err != nil {
		return runner.Summary{}, nil, nil, fmt.Errorf("resolve namespace: %w", err)
	}

	edgeTypes, err := edgetype.NewStandardRegistry()
	if err != nil {
		return runner.Summary{}, nil, nil, fmt.Errorf("bootstrap edge types: %w", err)
	}
	if err := registerCustomEdgeTypes(registry, edgeTypes); err != nil {
		return runner.Summary{}, nil, nil, fmt.Errorf("bootstrap edge types: %w", err)
	}

	r := runner.New(st, registry, runner.WithLogger(log), runner.WithFS(fs), runner.WithMaxConcurrency(ns.MaxConcurrency))
	summary, err := r.Run(ctx, runner.Config{
		Namespace:      resolvedName,
		ProjectName:    ns.ProjectName,
		Root:           ".",
		Include:        ns.FilePatterns,
		Exclude:        ns.ExcludePatterns,
		ScenarioIDs:    ns.Scenarios,
		ScenarioConfig: ns.ScenarioConfig,
	})
	if err != nil {
		return runner.Summary{}, nil, nil, err
	}
	return summary, st, edgeTypes.Snapshot(), nil
}
