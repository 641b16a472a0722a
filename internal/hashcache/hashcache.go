// Package hashcache provides the content hashing used by the loader to
// recognize that two differently named font files are byte-identical.
package hashcache

import "crypto/sha256"

// Sum is the SHA-256 digest of a memory-mapped file's full contents.
type Sum [sha256.Size]byte

// Hasher hashes whole file buffers. The spec calls for one instance per
// loader session, reused across every hashed file; since crypto/sha256's
// one-shot Sum256 carries no state to reuse, Hasher is a thin, stable
// name for that session-scoped call site rather than a pool.
type Hasher struct{}

// New returns a ready-to-use Hasher.
func New() *Hasher { return &Hasher{} }

// Sum computes the SHA-256 digest of data.
func (*Hasher) Sum(data []byte) Sum {
	return sha256.Sum256(data)
}
