package memstore

import "github.com/minio/highwayhash"

var contentHashKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// ContentHash returns a stable 64-bit hash of a node's source span,
// stashed in Node.Properties["contentHash"] so re-analysis of an
// unchanged file can cheaply detect that a node's content did not
// change.
func ContentHash(data []byte) (uint64, error) {
	h, err := highwayhash.New64(contentHashKey)
	if err != nil {
		return 0, err
	}
	if _, err := h.Write(data); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
