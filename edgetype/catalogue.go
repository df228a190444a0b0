package edgetype

import "sort"

// Catalogue is an immutable snapshot of a Registry, safe to share
// across goroutines without synchronization. It exposes the same read
// operations as Registry.
type Catalogue struct {
	byName   map[string]*EdgeType
	children map[string][]string
}

// Get returns the edge type registered under name, or (nil, false).
func (c *Catalogue) Get(name string) (*EdgeType, bool) {
	et, ok := c.byName[name]
	return et, ok
}

// ParentChain returns name and its ancestors, self first, ascending.
func (c *Catalogue) ParentChain(name string) []string {
	var chain []string
	cur := name
	for cur != "" {
		et, ok := c.byName[cur]
		if !ok {
			break
		}
		chain = append(chain, cur)
		cur = et.Parent
	}
	return chain
}

// Descendants returns the BFS-by-priority-then-name expansion of name's
// subtree, excluding name itself.
func (c *Catalogue) Descendants(name string) []string {
	var result []string
	queue := []string{name}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		kids := append([]string(nil), c.children[cur]...)
		sort.Slice(kids, func(i, j int) bool {
			ei, ej := c.byName[kids[i]], c.byName[kids[j]]
			if ei.Priority != ej.Priority {
				return ei.Priority < ej.Priority
			}
			return kids[i] < kids[j]
		})
		for _, k := range kids {
			result = append(result, k)
			queue = append(queue, k)
		}
	}
	return result
}

// Expand returns {name} ∪ Descendants(name), self first then
// descendants in the deterministic BFS order — the exact set the
// hierarchical query's includeChildren option returns.
func (c *Catalogue) Expand(name string) []string {
	return append([]string{name}, c.Descendants(name)...)
}

// IsTransitive reports whether name or any ancestor is transitive.
func (c *Catalogue) IsTransitive(name string) bool {
	for _, n := range c.ParentChain(name) {
		if et, ok := c.byName[n]; ok && et.IsTransitive {
			return true
		}
	}
	return false
}

// IsInheritable reports whether name or any ancestor is inheritable.
func (c *Catalogue) IsInheritable(name string) bool {
	for _, n := range c.ParentChain(name) {
		if et, ok := c.byName[n]; ok && et.IsInheritable {
			return true
		}
	}
	return false
}

// Names returns every registered edge type name, sorted ascending.
func (c *Catalogue) Names() []string {
	names := make([]string, 0, len(c.byName))
	for n := range c.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
