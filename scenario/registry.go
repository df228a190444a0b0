package scenario

import (
	"sort"
	"sync"
)

// Registry holds registered scenario specs and computes their
// deterministic topological execution order over the combined
// extends ∪ requires graph (Kahn's algorithm, ties broken by id
// ascending), mirroring the dependency-graph ordering idiom used
// elsewhere in the retrieval pack for repository build graphs.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]*Spec
	order []string // insertion order; Order and Layers do not read it
}

// NewRegistry returns an empty scenario registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]*Spec)}
}

// Register validates and adds spec. extends/requires targets need not
// already be registered (forward references are allowed; the full
// graph is validated when Order/Layers is computed), but duplicate ids
// are rejected immediately.
func (r *Registry) Register(spec *Spec) error {
	if spec.ID == "" {
		return &RegistryError{Kind: DuplicateID, ID: spec.ID}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.specs[spec.ID]; exists {
		return &RegistryError{Kind: DuplicateID, ID: spec.ID}
	}
	r.specs[spec.ID] = spec
	r.order = append(r.order, spec.ID)
	return nil
}

// Get returns the spec registered under id.
func (r *Registry) Get(id string) (*Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.specs[id]
	return s, ok
}

// Resolved returns spec's declarations flattened with everything it
// transitively extends (extends implies type inheritance; requires
// does not). Declarations are appended ancestors-first, so a spec's
// own declarations override same-named ones inherited from ancestors
// in map-like consumers that key by Name.
func (r *Registry) Resolved(id string) (*Spec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.specs[id]
	if !ok {
		return nil, &RegistryError{Kind: UnknownReference, ID: id}
	}

	var nodeTypes []NodeTypeDecl
	var edgeTypes []EdgeTypeDecl
	var tags []SemanticTagDecl

	visited := map[string]bool{}
	var walk func(sid string) error
	walk = func(sid string) error {
		if visited[sid] {
			return nil
		}
		visited[sid] = true
		s, ok := r.specs[sid]
		if !ok {
			return &RegistryError{Kind: UnknownReference, ID: sid}
		}
		for _, parent := range s.Extends {
			if err := walk(parent); err != nil {
				return err
			}
		}
		nodeTypes = append(nodeTypes, s.NodeTypes...)
		edgeTypes = append(edgeTypes, s.EdgeTypes...)
		tags = append(tags, s.SemanticTags...)
		return nil
	}
	if err := walk(id); err != nil {
		return nil, err
	}

	resolved := *spec
	resolved.NodeTypes = nodeTypes
	resolved.EdgeTypes = edgeTypes
	resolved.SemanticTags = tags
	return &resolved, nil
}

// Order returns every registered scenario id in a valid topological
// order of extends ∪ requires, ties broken lexicographically by id.
func (r *Registry) Order() ([]string, error) {
	layers, err := r.Layers()
	if err != nil {
		return nil, err
	}
	var flat []string
	for _, layer := range layers {
		flat = append(flat, layer...)
	}
	return flat, nil
}

// Layers groups scenarios by dependency depth: layer 0 has no
// extends/requires edges, layer N's scenarios depend only on
// scenarios in layers 0..N-1. Scenarios within one layer may execute
// in parallel; layers themselves execute in order.
func (r *Registry) Layers() ([][]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	deps := make(map[string]map[string]bool)  // id -> set of ids it depends on
	dependents := make(map[string]map[string]bool)
	ids := make([]string, 0, len(r.specs))
	for id := range r.specs {
		ids = append(ids, id)
		deps[id] = make(map[string]bool)
		dependents[id] = make(map[string]bool)
	}
	sort.Strings(ids)

	addEdge := func(from, to string) error {
		if _, ok := r.specs[to]; !ok {
			return &RegistryError{Kind: UnknownReference, ID: to}
		}
		deps[from][to] = true
		dependents[to][from] = true
		return nil
	}

	for _, id := range ids {
		s := r.specs[id]
		for _, p := range s.Extends {
			if err := addEdge(id, p); err != nil {
				return nil, err
			}
		}
		for _, p := range s.Requires {
			if err := addEdge(id, p); err != nil {
				return nil, err
			}
		}
	}

	inDegree := make(map[string]int, len(ids))
	for _, id := range ids {
		inDegree[id] = len(deps[id])
	}

	var current []string
	for _, id := range ids {
		if inDegree[id] == 0 {
			current = append(current, id)
		}
	}
	sort.Strings(current)

	var layers [][]string
	visited := 0
	for len(current) > 0 {
		layer := append([]string(nil), current...)
		layers = append(layers, layer)
		visited += len(layer)

		nextSet := map[string]bool{}
		for _, id := range layer {
			for dependent := range dependents[id] {
				inDegree[dependent]--
				if inDegree[dependent] == 0 {
					nextSet[dependent] = true
				}
			}
		}
		var next []string
		for id := range nextSet {
			next = append(next, id)
		}
		sort.Strings(next)
		current = next
	}

	if visited != len(ids) {
		return nil, &RegistryError{Kind: CyclicComposition, Cycle: detectCycle(ids, deps)}
	}
	return layers, nil
}

// detectCycle runs a three-color DFS to reconstruct one offending
// cycle for the error message, matching the shape callers expect from
// a topological-sort failure.
func detectCycle(ids []string, deps map[string]map[string]bool) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(ids))
	var path []string
	var cycle []string

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		path = append(path, id)
		targets := make([]string, 0, len(deps[id]))
		for t := range deps[id] {
			targets = append(targets, t)
		}
		sort.Strings(targets)
		for _, t := range targets {
			switch color[t] {
			case white:
				if visit(t) {
					return true
				}
			case gray:
				// Found the cycle: slice path from t's first
				// occurrence to here.
				for i, p := range path {
					if p == t {
						cycle = append(append([]string(nil), path[i:]...), t)
						return true
					}
				}
			}
		}
		path = path[:len(path)-1]
		color[id] = black
		return false
	}

	for _, id := range ids {
		if color[id] == white {
			if visit(id) {
				return cycle
			}
		}
	}
	return nil
}
