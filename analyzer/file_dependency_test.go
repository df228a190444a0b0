package analyzer_test

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/stretchr/testify/require"

	"github.com/linagraph/linagraph/analyzer"
	"github.com/linagraph/linagraph/scenario"
)

func parse(t *testing.T, lang *sitter.Language, src string) *sitter.Node {
	t.Helper()
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(src))
	require.NoError(t, err)
	return tree.RootNode()
}

func TestFileDependencyGoSingleImport(t *testing.T) {
	src := `package main

import "fmt"

func main() { fmt.Println("hi") }
`
	root := parse(t, golang.GetLanguage(), src)
	ctx := scenario.AnalysisContext{
		FilePath: "main.go", Language: "go", ProjectName: "demo",
		AST: root, Source: []byte(src),
	}

	result, err := analyzer.NewFileDependency().Analyze(ctx)
	require.NoError(t, err)
	require.Len(t, result.Edges, 1)
	require.Equal(t, "imports_library", result.Edges[0].EdgeType)
	require.Equal(t, "fmt", result.Edges[0].To.Project())
	require.True(t, result.Edges[0].To.IsLibrary())
}

func TestFileDependencyGoAliasedImport(t *testing.T) {
	src := `package main

import f "fmt"

func main() { f.Println("hi") }
`
	root := parse(t, golang.GetLanguage(), src)
	ctx := scenario.AnalysisContext{
		FilePath: "main.go", Language: "go", ProjectName: "demo",
		AST: root, Source: []byte(src),
	}

	result, err := analyzer.NewFileDependency().Analyze(ctx)
	require.NoError(t, err)

	var sawImport, sawAlias bool
	for _, e := range result.Edges {
		switch e.EdgeType {
		case "imports_library":
			sawImport = true
			require.Equal(t, "fmt", e.To.Project())
		case "aliasOf":
			sawAlias = true
			require.Equal(t, "f", e.From.SymbolName())
		}
	}
	require.True(t, sawImport)
	require.True(t, sawAlias)
}

func TestFileDependencyJSRelativeImport(t *testing.T) {
	src := `import { widget } from "./widget";
`
	root := parse(t, javascript.GetLanguage(), src)
	ctx := scenario.AnalysisContext{
		FilePath: "src/app.ts", Language: "javascript", ProjectName: "demo",
		AST: root, Source: []byte(src),
	}

	result, err := analyzer.NewFileDependency().Analyze(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, result.Edges)
	require.Equal(t, "imports_file", result.Edges[0].EdgeType)
	require.Equal(t, "src/widget.ts", result.Edges[0].To.FilePath())
}

func TestFileDependencyJSNonRelativeImport(t *testing.T) {
	src := `import React from "react";
`
	root := parse(t, javascript.GetLanguage(), src)
	ctx := scenario.AnalysisContext{
		FilePath: "src/app.ts", Language: "javascript", ProjectName: "demo",
		AST: root, Source: []byte(src),
	}

	result, err := analyzer.NewFileDependency().Analyze(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, result.Edges)
	require.Equal(t, "imports_library", result.Edges[0].EdgeType)
	require.Equal(t, "react", result.Edges[0].To.Project())
}
