package edgetype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardRegistrySeeds(t *testing.T) {
	r, err := NewStandardRegistry()
	require.NoError(t, err)

	et, ok := r.Get(ImportsFile)
	require.True(t, ok)
	assert.Equal(t, Imports, et.Parent)

	chain := r.ParentChain(ImportsFile)
	assert.Equal(t, []string{ImportsFile, Imports, DependsOn}, chain)
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Declaration{Name: "foo"}))
	err := r.Register(Declaration{Name: "foo"})
	require.Error(t, err)
	var re *RegistryError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, DuplicateName, re.Kind)
}

func TestRegisterRejectsUnknownParent(t *testing.T) {
	r := NewRegistry()
	err := r.Register(Declaration{Name: "child", Parent: "missing"})
	require.Error(t, err)
	var re *RegistryError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, UnknownParent, re.Kind)
}

func TestDescendantsOrderedByPriorityThenName(t *testing.T) {
	r, err := NewStandardRegistry()
	require.NoError(t, err)

	desc := r.Descendants(DependsOn)
	// imports_file and imports_library both sit under imports, both
	// priority 1: name order breaks the tie.
	assert.Contains(t, desc, Imports)
	assert.Contains(t, desc, ImportsFile)
	assert.Contains(t, desc, ImportsLibrary)

	importsIdx, fileIdx, libIdx := -1, -1, -1
	for i, n := range desc {
		switch n {
		case Imports:
			importsIdx = i
		case ImportsFile:
			fileIdx = i
		case ImportsLibrary:
			libIdx = i
		}
	}
	assert.Less(t, importsIdx, fileIdx)
	assert.Less(t, importsIdx, libIdx)
	assert.Less(t, fileIdx, libIdx) // "imports_file" < "imports_library" lexicographically
}

func TestIsTransitivePropagatesThroughParentChain(t *testing.T) {
	r, err := NewStandardRegistry()
	require.NoError(t, err)
	assert.True(t, r.IsTransitive(DependsOn))
	// imports_file itself is not declared transitive, and neither is
	// its direct parent chain entry "imports" -- but depends_on is.
	assert.True(t, r.IsTransitive(ImportsFile))
}

func TestSnapshotIsIndependentOfLaterWrites(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Declaration{Name: "a"}))
	snap := r.Snapshot()

	require.NoError(t, r.Register(Declaration{Name: "b"}))
	_, ok := snap.Get("b")
	assert.False(t, ok, "snapshot must not observe writes after it was taken")
}

func TestCatalogueExpandIncludesSelfFirst(t *testing.T) {
	r, err := NewStandardRegistry()
	require.NoError(t, err)
	snap := r.Snapshot()
	expanded := snap.Expand(Imports)
	require.NotEmpty(t, expanded)
	assert.Equal(t, Imports, expanded[0])
}
