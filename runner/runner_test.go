package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/linagraph/linagraph/analyzer"
	"github.com/linagraph/linagraph/runner"
	"github.com/linagraph/linagraph/scenario"
	"github.com/linagraph/linagraph/store"
	"github.com/linagraph/linagraph/store/memstore"
)

func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte(`package demo

import "github.com/linagraph/linagraph/runner/fixtures/greeter"

func main() {
	greeter.Hello()
}
`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "greeter"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "greeter", "greeter.go"), []byte(`package greeter

func Hello() string {
	return "hi"
}
`), 0o644))
	return root
}

func newRegistry(t *testing.T) *scenario.Registry {
	t.Helper()
	reg := scenario.NewRegistry()
	require.NoError(t, reg.Register(&scenario.Spec{
		ID:       analyzer.BasicStructureID,
		Analyzer: analyzer.NewBasicStructure(),
	}))
	require.NoError(t, reg.Register(&scenario.Spec{
		ID:       analyzer.FileDependencyID,
		Extends:  []string{analyzer.BasicStructureID},
		Analyzer: analyzer.NewFileDependency(),
	}))
	return reg
}

func TestRunnerProcessesNamespaceAndMergesIntoStore(t *testing.T) {
	root := writeProject(t)
	reg := newRegistry(t)
	st := memstore.New()

	r := runner.New(st, reg, runner.WithLogger(zap.NewNop()))

	summary, err := r.Run(context.Background(), runner.Config{
		Namespace:   "src",
		ProjectName: "demo",
		Root:        root,
		Include:     []string{"**/*.go"},
		ScenarioIDs: []string{analyzer.FileDependencyID, analyzer.BasicStructureID},
	})
	require.NoError(t, err)

	require.Equal(t, 2, summary.TotalFiles)
	require.Equal(t, 2, summary.AnalyzedFiles)
	require.Empty(t, summary.FailedFiles)
	require.False(t, summary.Cancelled)
	require.NotEmpty(t, summary.RunID)

	// basic-structure must run before file-dependency regardless of the
	// order the caller listed the scenario ids in.
	require.Equal(t, []string{analyzer.BasicStructureID, analyzer.FileDependencyID}, summary.ScenariosExecuted)

	require.Greater(t, summary.GraphStats.Nodes, 0)
	require.Greater(t, summary.GraphStats.Edges, 0)

	nodes, err := st.FindNodes(context.Background(), store.NodeCriteria{})
	require.NoError(t, err)
	var sawMain bool
	for _, n := range nodes {
		if n.Address.String() == "demo/main.go" {
			sawMain = true
		}
	}
	require.True(t, sawMain)
}

func TestRunnerProcessesEmptyFileWithoutAbortingRun(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "ok.go"), []byte("package demo\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "empty.go"), []byte(""), 0o644))

	reg := newRegistry(t)
	st := memstore.New()
	r := runner.New(st, reg)

	summary, err := r.Run(context.Background(), runner.Config{
		Namespace:   "src",
		ProjectName: "demo",
		Root:        root,
		Include:     []string{"**/*.go"},
		ScenarioIDs: []string{analyzer.BasicStructureID},
	})
	require.NoError(t, err)
	require.Equal(t, 2, summary.TotalFiles)
	require.Equal(t, []string{analyzer.BasicStructureID}, summary.ScenariosExecuted)
}

func TestRunnerRespectsScenarioOrderWhenOnlyDescendantRequested(t *testing.T) {
	root := writeProject(t)
	reg := newRegistry(t)
	st := memstore.New()
	r := runner.New(st, reg)

	// The runner only executes ids explicitly listed, so requesting
	// only file-dependency does not run basic-structure. The run still
	// produces valid (if thinner) results: the runner's merge step
	// creates stub nodes for the file endpoints file-dependency's edges
	// point at.
	summary, err := r.Run(context.Background(), runner.Config{
		Namespace:   "src",
		ProjectName: "demo",
		Root:        root,
		Include:     []string{"**/*.go"},
		ScenarioIDs: []string{analyzer.FileDependencyID},
	})
	require.NoError(t, err)
	require.Equal(t, []string{analyzer.FileDependencyID}, summary.ScenariosExecuted)
}
