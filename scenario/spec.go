// Package scenario holds the Scenario Registry & Runner data model
// (C4): declarative ScenarioSpec composition via extends/requires, and
// the deterministic topological execution order that composition
// implies.
package scenario

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/linagraph/linagraph/rdf"
)

// NodeTypeDecl declares a node type a scenario may emit, standard or
// scenario-defined.
type NodeTypeDecl struct {
	Name rdf.NodeType
}

// EdgeTypeDecl declares an edge type a scenario may emit or extend the
// catalogue with.
type EdgeTypeDecl struct {
	Name           string
	Parent         string
	IsTransitive   bool
	IsInheritable  bool
	IsHierarchical bool
	IsDirected     bool
	Priority       int
}

// SemanticTagDecl declares a tag category a scenario's analyzer may
// attach to nodes.
type SemanticTagDecl struct {
	Name string
}

// Spec is a declarative analysis recipe: the types it may emit, the
// analyzer that emits them, and its composition relationship to other
// scenarios.
type Spec struct {
	ID      string
	Version string

	// Extends implies type inheritance and ordering: B declares
	// extends=[A] inherits A's NodeTypes/EdgeTypes/SemanticTags
	// declarations, in addition to B's own. Register stores the spec
	// as given; Registry.Resolved flattens the inherited declarations
	// on demand. Requires implies ordering only.
	Extends  []string
	Requires []string

	NodeTypes    []NodeTypeDecl
	EdgeTypes    []EdgeTypeDecl
	SemanticTags []SemanticTagDecl

	AnalyzerRef string
	Config      map[string]any

	// Analyzer is the concrete implementation bound to AnalyzerRef.
	// The caller sets it (directly or via BindAnalyzer); Register does
	// not resolve AnalyzerRef.
	Analyzer Analyzer
}

// AnalysisContext is the read-only input handed to an analyzer for one
// file within one scenario's execution.
type AnalysisContext struct {
	Context     context.Context
	FilePath    string
	Language    string
	ProjectName string
	AST         *sitter.Node
	Source      []byte

	ScenarioConfig map[string]any

	// RunOutputs carries the AnalysisResult of every scenario that has
	// already executed against this file earlier in the topological
	// order, keyed by scenario id.
	RunOutputs map[string]AnalysisResult
}

// NodeDraft is a node an analyzer proposes; addresses must be built via
// the rdf package so normalization is uniform.
type NodeDraft struct {
	Address      rdf.Address
	NodeType     rdf.NodeType
	Name         string
	Language     string
	SemanticTags []string
	Properties   map[string]any
}

// EdgeDraft is an edge an analyzer proposes, addressed by endpoint
// addresses rather than store surrogate ids (the runner resolves ids
// at merge time).
type EdgeDraft struct {
	From       rdf.Address
	To         rdf.Address
	EdgeType   string
	Properties map[string]any
}

// AnalysisResult is everything one analyzer invocation contributes for
// one file.
type AnalysisResult struct {
	Nodes        []NodeDraft
	Edges        []EdgeDraft
	SemanticTags []string
}

// Analyzer is a pure function AnalysisContext -> AnalysisResult. It
// must not read or write the Graph Store directly; all mutation flows
// through the returned AnalysisResult.
type Analyzer interface {
	Analyze(ctx AnalysisContext) (AnalysisResult, error)
}

// AnalyzerFunc adapts a plain function to the Analyzer interface.
type AnalyzerFunc func(ctx AnalysisContext) (AnalysisResult, error)

func (f AnalyzerFunc) Analyze(ctx AnalysisContext) (AnalysisResult, error) { return f(ctx) }
