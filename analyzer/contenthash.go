package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/linagraph/linagraph/store/memstore"
)

// spanHash fingerprints n's exact source span (not its whole enclosing
// file), so a node's "contentHash" property changes only when that
// node's own text changes, letting a later re-analysis of the same
// file skip symbols whose span is byte-for-byte unchanged.
func spanHash(src []byte, n *sitter.Node) (uint64, error) {
	return memstore.ContentHash(src[n.StartByte():n.EndByte()])
}
