package memstore

import (
	"sort"

	"github.com/linagraph/linagraph/store"
)

func sortNodesByID(nodes []store.Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
}

func sortEdgesByID(edges []store.Edge) {
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
}
