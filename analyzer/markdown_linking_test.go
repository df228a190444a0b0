package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linagraph/linagraph/analyzer"
	"github.com/linagraph/linagraph/scenario"
)

func TestMarkdownLinkingHeadingsAndLinks(t *testing.T) {
	src := `# Getting Started

See the [setup guide](./setup.md) and ![logo](./logo.png).

[[Internal Notes]]

<!-- include: ./footer.md -->

Call ` + "`Parse`" + ` to build an address.

## Getting Started
`
	ctx := scenario.AnalysisContext{
		FilePath: "docs/intro.md", Language: "markdown", ProjectName: "demo",
		Source: []byte(src),
	}

	result, err := analyzer.NewMarkdownLinking().Analyze(ctx)
	require.NoError(t, err)

	require.Len(t, result.Nodes, 2) // two distinct heading slugs (de-duplicated with a suffix)
	require.Contains(t, result.Nodes[0].SemanticTags, "heading-level-1")
	require.Contains(t, result.Nodes[1].SemanticTags, "heading-level-2")

	var sawLinksTo, sawEmbedsImage, sawWiki, sawIncludes, sawRefSymbol bool
	for _, e := range result.Edges {
		switch e.EdgeType {
		case "md-links-to":
			sawLinksTo = true
			require.Equal(t, "docs/setup.md", e.To.FilePath())
		case "md-embeds-image":
			sawEmbedsImage = true
			require.Equal(t, "docs/logo.png", e.To.FilePath())
		case "md-wiki-links":
			sawWiki = true
		case "md-includes":
			sawIncludes = true
			require.Equal(t, "docs/footer.md", e.To.FilePath())
		case "md-references-symbol":
			sawRefSymbol = true
			require.Equal(t, "Parse", e.To.SymbolName())
		}
	}
	require.True(t, sawLinksTo)
	require.True(t, sawEmbedsImage)
	require.True(t, sawWiki)
	require.True(t, sawIncludes)
	require.True(t, sawRefSymbol)
}
