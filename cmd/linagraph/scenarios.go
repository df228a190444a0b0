package main

import (
	"fmt"

	"github.com/linagraph/linagraph/analyzer"
	"github.com/linagraph/linagraph/edgetype"
	"github.com/linagraph/linagraph/scenario"
)

// builtinRegistry returns a Scenario Registry pre-seeded with the five
// built-in analyzers and the extends composition spec.md §4.5
// documents (file-dependency/symbol-dependency/markdown-linking extend
// basic-structure; method-analysis extends symbol-dependency). Every
// custom edge type an analyzer emits is declared on its spec's
// EdgeTypes so registerCustomEdgeTypes can pre-register it before a
// run starts.
func builtinRegistry() (*scenario.Registry, error) {
	reg := scenario.NewRegistry()
	specs := []*scenario.Spec{
		{ID: analyzer.BasicStructureID, Analyzer: analyzer.NewBasicStructure()},
		{ID: analyzer.FileDependencyID, Extends: []string{analyzer.BasicStructureID}, Analyzer: analyzer.NewFileDependency()},
		{
			ID:      analyzer.SymbolDependencyID,
			Extends: []string{analyzer.BasicStructureID},
			EdgeTypes: []scenario.EdgeTypeDecl{
				{Name: "extends-class", Parent: edgetype.Extends, IsTransitive: true, IsDirected: true, Priority: 2},
				{Name: "instantiates", Parent: edgetype.Uses, IsDirected: true, Priority: 3},
				{Name: "type-references", Parent: edgetype.References, IsDirected: true, Priority: 3},
			},
			Analyzer: analyzer.NewSymbolDependency(),
		},
		{
			ID:      analyzer.MarkdownLinkingID,
			Extends: []string{analyzer.BasicStructureID},
			EdgeTypes: []scenario.EdgeTypeDecl{
				{Name: "md-links-to", Parent: edgetype.References, IsDirected: true, Priority: 5},
				{Name: "md-embeds-image", Parent: edgetype.References, IsDirected: true, Priority: 5},
				{Name: "md-wiki-links", Parent: edgetype.References, IsDirected: true, Priority: 5},
				{Name: "md-references-symbol", Parent: edgetype.References, IsDirected: true, Priority: 5},
				{Name: "md-links-anchor", Parent: edgetype.References, IsDirected: true, Priority: 5},
				{Name: "md-includes", Parent: edgetype.Contains, IsTransitive: true, IsDirected: true, Priority: 5},
			},
			Analyzer: analyzer.NewMarkdownLinking(),
		},
		{
			ID:      analyzer.MethodAnalysisID,
			Extends: []string{analyzer.SymbolDependencyID},
			EdgeTypes: []scenario.EdgeTypeDecl{
				{Name: "contains-method", Parent: edgetype.Contains, IsTransitive: true, IsInheritable: true, IsDirected: true, Priority: 0},
				{Name: "calls-method", Parent: edgetype.Calls, IsDirected: true, Priority: 3},
				{Name: "accesses-field", Parent: edgetype.Uses, IsDirected: true, Priority: 3},
				{Name: "overrides-method", Parent: edgetype.Extends, IsDirected: true, Priority: 2},
			},
			Analyzer: analyzer.NewMethodAnalysis(),
		},
	}
	for _, spec := range specs {
		if err := reg.Register(spec); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// registerCustomEdgeTypes pre-registers every built-in scenario's own
// declared edge types into edgeTypes, on top of the standard catalogue
// it is already seeded with. It walks reg's topological order and
// reads each spec's own (unflattened) EdgeTypes rather than Resolved's
// extends-flattened view, since a type method-analysis inherits from
// symbol-dependency by extension would otherwise be registered twice.
func registerCustomEdgeTypes(reg *scenario.Registry, edgeTypes *edgetype.Registry) error {
	order, err := reg.Order()
	if err != nil {
		return fmt.Errorf("resolve scenario order: %w", err)
	}
	for _, id := range order {
		spec, ok := reg.Get(id)
		if !ok {
			continue
		}
		for _, decl := range spec.EdgeTypes {
			if err := edgeTypes.Register(edgetype.Declaration{
				Name:           decl.Name,
				Parent:         decl.Parent,
				IsTransitive:   decl.IsTransitive,
				IsInheritable:  decl.IsInheritable,
				IsHierarchical: decl.IsHierarchical,
				IsDirected:     decl.IsDirected,
				Priority:       decl.Priority,
			}); err != nil {
				return fmt.Errorf("register edge type %q (scenario %s): %w", decl.Name, id, err)
			}
		}
	}
	return nil
}
