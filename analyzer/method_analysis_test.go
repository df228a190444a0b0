package analyzer_test

import (
	"testing"

	"github.com/smacker/go-tree-sitter/golang"
	"github.com/stretchr/testify/require"

	"github.com/linagraph/linagraph/analyzer"
	"github.com/linagraph/linagraph/scenario"
)

func TestMethodAnalysisComputesMetrics(t *testing.T) {
	src := `package demo

type T struct {
	x int
}

func (t T) M(a, b bool) int {
	if a {
		if b {
			t.x = 1
		}
	}
	return t.x
}
`
	root := parse(t, golang.GetLanguage(), src)
	ctx := scenario.AnalysisContext{
		FilePath: "t.go", Language: "go", ProjectName: "demo",
		AST: root, Source: []byte(src),
	}

	result, err := analyzer.NewMethodAnalysis().Analyze(ctx)
	require.NoError(t, err)

	var method *scenario.NodeDraft
	for i := range result.Nodes {
		if result.Nodes[i].NodeType == "Method" {
			method = &result.Nodes[i]
		}
	}
	require.NotNil(t, method)
	require.Equal(t, 3, method.Properties["cyclomaticComplexity"])
	require.Equal(t, 2, method.Properties["nestingDepth"])
	require.GreaterOrEqual(t, method.Properties["numberOfStatements"], 3)

	var sawContains, sawAccessesField bool
	for _, e := range result.Edges {
		switch e.EdgeType {
		case "contains-method":
			sawContains = true
		case "accesses-field":
			sawAccessesField = true
			require.Equal(t, "T.x", e.To.SymbolName())
		}
	}
	require.True(t, sawContains)
	require.True(t, sawAccessesField)
}

func TestMethodAnalysisAccessorTag(t *testing.T) {
	src := `package demo

type Widget struct {
	id string
}

func NewWidget(id string) *Widget {
	return &Widget{id: id}
}

func (w Widget) ID() string {
	return w.id
}
`
	root := parse(t, golang.GetLanguage(), src)
	ctx := scenario.AnalysisContext{
		FilePath: "widget.go", Language: "go", ProjectName: "demo",
		AST: root, Source: []byte(src),
	}

	result, err := analyzer.NewMethodAnalysis().Analyze(ctx)
	require.NoError(t, err)

	var sawAccessor bool
	for _, n := range result.Nodes {
		if n.NodeType != "Method" {
			continue
		}
		for _, tag := range n.SemanticTags {
			if tag == "accessor" {
				sawAccessor = true
			}
		}
	}
	require.True(t, sawAccessor)
}

func TestMethodAnalysisOverrides(t *testing.T) {
	src := `package demo

type Animal struct{}

func (a Animal) Speak() string { return "..." }

type Dog struct {
	Animal
}

func (d Dog) Speak() string { return "woof" }
`
	root := parse(t, golang.GetLanguage(), src)
	ctx := scenario.AnalysisContext{
		FilePath: "animal.go", Language: "go", ProjectName: "demo",
		AST: root, Source: []byte(src),
	}

	result, err := analyzer.NewMethodAnalysis().Analyze(ctx)
	require.NoError(t, err)

	var sawOverride bool
	for _, e := range result.Edges {
		if e.EdgeType == "overrides-method" {
			sawOverride = true
		}
	}
	require.True(t, sawOverride)
}
