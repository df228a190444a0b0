package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayersOrdersByDependency(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Spec{ID: "basic-structure"}))
	require.NoError(t, r.Register(&Spec{ID: "file-dependency", Extends: []string{"basic-structure"}}))
	require.NoError(t, r.Register(&Spec{ID: "symbol-dependency", Extends: []string{"basic-structure"}}))
	require.NoError(t, r.Register(&Spec{ID: "method-analysis", Extends: []string{"symbol-dependency"}}))

	layers, err := r.Layers()
	require.NoError(t, err)
	require.Len(t, layers, 3)
	assert.Equal(t, []string{"basic-structure"}, layers[0])
	assert.ElementsMatch(t, []string{"file-dependency", "symbol-dependency"}, layers[1])
	assert.Equal(t, []string{"method-analysis"}, layers[2])
}

func TestOrderIsDeterministicTieBreak(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Spec{ID: "zeta"}))
	require.NoError(t, r.Register(&Spec{ID: "alpha"}))

	order, err := r.Order()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, order)
}

func TestLayersDetectsCycle(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Spec{ID: "a", Requires: []string{"b"}}))
	require.NoError(t, r.Register(&Spec{ID: "b", Requires: []string{"a"}}))

	_, err := r.Layers()
	require.Error(t, err)
	var re *RegistryError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, CyclicComposition, re.Kind)
}

func TestResolvedFlattensExtendsDeclarations(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Spec{
		ID:        "basic-structure",
		NodeTypes: []NodeTypeDecl{{Name: "File"}},
	}))
	require.NoError(t, r.Register(&Spec{
		ID:        "file-dependency",
		Extends:   []string{"basic-structure"},
		NodeTypes: []NodeTypeDecl{{Name: "Library"}},
	}))

	resolved, err := r.Resolved("file-dependency")
	require.NoError(t, err)
	require.Len(t, resolved.NodeTypes, 2)
	assert.Equal(t, NodeTypeDecl{Name: "File"}, resolved.NodeTypes[0])
	assert.Equal(t, NodeTypeDecl{Name: "Library"}, resolved.NodeTypes[1])
}

func TestRequiresOrdersWithoutInheritingDeclarations(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Spec{ID: "a", NodeTypes: []NodeTypeDecl{{Name: "File"}}}))
	require.NoError(t, r.Register(&Spec{ID: "b", Requires: []string{"a"}}))

	resolved, err := r.Resolved("b")
	require.NoError(t, err)
	assert.Empty(t, resolved.NodeTypes, "requires must impose ordering only, not inheritance")

	layers, err := r.Layers()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, layers[0])
	assert.Equal(t, []string{"b"}, layers[1])
}

func TestRegisterRejectsDuplicateID(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Spec{ID: "a"}))
	err := r.Register(&Spec{ID: "a"})
	require.Error(t, err)
}
