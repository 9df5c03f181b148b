package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"
)

// hasherPool is a package-level pool of reusable SHA-256 hash instances.
var hasherPool = sync.Pool{
	New: func() any {
		return sha256.New()
	},
}

// ContentHash computes the SHA-256 digest of data and returns it as a
// lower-case hex string. It is the canonical content hash of a backend
// record and the value stored in an identity store baseline.
//
// Example usage:
//
//	h := utils.ContentHash([]byte("Team Meeting"))
func ContentHash(data []byte) string {
	h := hasherPool.Get().(hash.Hash)
	h.Reset()

	h.Write(data)
	sum := h.Sum(nil)

	h.Reset()
	hasherPool.Put(h)

	return hex.EncodeToString(sum)
}
