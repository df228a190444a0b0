package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSpecYAML = `
id: file-dependency
version: "1.0"
extends: [basic-structure]
nodeTypes: [File, Directory]
edgeTypes:
  - name: imports_file
    parent: imports
    isDirected: true
    priority: 1
semanticTags: [source, test]
analyzerRef: builtin.file-dependency
config:
  followDynamicImports: true
`

func TestParseSpec(t *testing.T) {
	spec, err := ParseSpec([]byte(sampleSpecYAML))
	require.NoError(t, err)
	assert.Equal(t, "file-dependency", spec.ID)
	assert.Equal(t, []string{"basic-structure"}, spec.Extends)
	require.Len(t, spec.NodeTypes, 2)
	require.Len(t, spec.EdgeTypes, 1)
	assert.Equal(t, "imports", spec.EdgeTypes[0].Parent)
	assert.Equal(t, true, spec.Config["followDynamicImports"])
}

func TestParseSpecRequiresID(t *testing.T) {
	_, err := ParseSpec([]byte("version: \"1.0\"\n"))
	require.Error(t, err)
}

func TestBindAnalyzerDoesNotMutateOriginal(t *testing.T) {
	spec, err := ParseSpec([]byte(sampleSpecYAML))
	require.NoError(t, err)

	fn := AnalyzerFunc(func(ctx AnalysisContext) (AnalysisResult, error) { return AnalysisResult{}, nil })
	bound := BindAnalyzer(spec, fn)

	assert.Nil(t, spec.Analyzer)
	assert.NotNil(t, bound.Analyzer)
}
