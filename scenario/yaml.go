package scenario

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/linagraph/linagraph/rdf"
)

func nodeTypeOf(name string) rdf.NodeType { return rdf.NodeType(name) }

// fileSpec is the on-disk YAML shape for a scenario spec. The
// Analyzer field is resolved separately by looking AnalyzerRef up in
// a caller-supplied registry of built-in/plugin analyzers, since Go
// functions cannot be deserialized.
type fileSpec struct {
	ID           string              `yaml:"id"`
	Version      string              `yaml:"version"`
	Extends      []string            `yaml:"extends"`
	Requires     []string            `yaml:"requires"`
	NodeTypes    []string            `yaml:"nodeTypes"`
	EdgeTypes    []yamlEdgeTypeDecl  `yaml:"edgeTypes"`
	SemanticTags []string            `yaml:"semanticTags"`
	AnalyzerRef  string              `yaml:"analyzerRef"`
	Config       map[string]any      `yaml:"config"`
}

type yamlEdgeTypeDecl struct {
	Name           string `yaml:"name"`
	Parent         string `yaml:"parent"`
	IsTransitive   bool   `yaml:"isTransitive"`
	IsInheritable  bool   `yaml:"isInheritable"`
	IsHierarchical bool   `yaml:"isHierarchical"`
	IsDirected     bool   `yaml:"isDirected"`
	Priority       int    `yaml:"priority"`
}

// ParseSpec decodes one scenario spec document from YAML bytes. The
// returned Spec's Analyzer field is left nil; callers bind it via
// BindAnalyzer before registration.
func ParseSpec(data []byte) (*Spec, error) {
	var fs fileSpec
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("scenario: parse spec: %w", err)
	}
	if fs.ID == "" {
		return nil, fmt.Errorf("scenario: spec missing id")
	}

	spec := &Spec{
		ID:          fs.ID,
		Version:     fs.Version,
		Extends:     fs.Extends,
		Requires:    fs.Requires,
		AnalyzerRef: fs.AnalyzerRef,
		Config:      fs.Config,
	}
	for _, nt := range fs.NodeTypes {
		spec.NodeTypes = append(spec.NodeTypes, NodeTypeDecl{Name: nodeTypeOf(nt)})
	}
	for _, et := range fs.EdgeTypes {
		spec.EdgeTypes = append(spec.EdgeTypes, EdgeTypeDecl{
			Name: et.Name, Parent: et.Parent,
			IsTransitive: et.IsTransitive, IsInheritable: et.IsInheritable,
			IsHierarchical: et.IsHierarchical, IsDirected: et.IsDirected,
			Priority: et.Priority,
		})
	}
	for _, tag := range fs.SemanticTags {
		spec.SemanticTags = append(spec.SemanticTags, SemanticTagDecl{Name: tag})
	}
	return spec, nil
}

// BindAnalyzer returns a copy of spec with Analyzer set, used after
// ParseSpec resolves AnalyzerRef against a registry of implementations.
func BindAnalyzer(spec *Spec, analyzer Analyzer) *Spec {
	bound := *spec
	bound.Analyzer = analyzer
	return &bound
}
