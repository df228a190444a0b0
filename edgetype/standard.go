package edgetype

// Standard edge type names pre-seeded into every new namespace's
// registry.
const (
	Contains        = "contains"
	Declares        = "declares"
	Defines         = "defines"
	DependsOn       = "depends_on"
	Imports         = "imports"
	ImportsFile     = "imports_file"
	ImportsLibrary  = "imports_library"
	Exports         = "exports"
	Extends         = "extends"
	Implements      = "implements"
	References      = "references"
	Uses            = "uses"
	Calls           = "calls"
	AliasOf         = "aliasOf"
)

// standardDeclarations is the catalogue table from the component
// design: edge type, parent, transitive, inheritable, priority. All
// standard edge types are directed and, except for contains, are not
// hierarchical in the containment sense (hierarchical here refers to
// edge-type-tree expansion, which every type participates in by
// virtue of being in the forest).
var standardDeclarations = []Declaration{
	{Name: Contains, IsTransitive: true, IsInheritable: true, IsHierarchical: true, IsDirected: true, Priority: 0},
	{Name: Declares, IsInheritable: true, IsDirected: true, Priority: 0},
	{Name: Defines, IsDirected: true, Priority: 0},
	{Name: DependsOn, IsTransitive: true, IsDirected: true, Priority: 1},
	{Name: Imports, Parent: DependsOn, IsDirected: true, Priority: 1},
	{Name: ImportsFile, Parent: Imports, IsDirected: true, Priority: 1},
	{Name: ImportsLibrary, Parent: Imports, IsDirected: true, Priority: 1},
	{Name: Exports, IsDirected: true, Priority: 1},
	{Name: Extends, IsTransitive: true, IsInheritable: true, IsDirected: true, Priority: 2},
	{Name: Implements, IsDirected: true, Priority: 2},
	{Name: References, IsDirected: true, Priority: 3},
	{Name: Uses, IsDirected: true, Priority: 3},
	{Name: Calls, Parent: Uses, IsDirected: true, Priority: 3},
	{Name: AliasOf, Parent: References, IsDirected: true, Priority: 5},
}

// NewStandardRegistry returns a Registry pre-seeded with the standard
// catalogue from the component design. The declarations are ordered so
// that every Parent reference precedes its child, so registration
// never fails on a forward reference.
func NewStandardRegistry() (*Registry, error) {
	r := NewRegistry()
	for _, decl := range standardDeclarations {
		if err := r.Register(decl); err != nil {
			return nil, err
		}
	}
	return r, nil
}
