package sigmsg

import (
	"hash"

	"golang.org/x/crypto/blake2b"
)

// DigestWriter is the byte-sink contract the constructors write
// through. Callers own the writer; the constructors only ever borrow
// it and never retain it past a single construction. Matching the
// specification, it is intentionally minimal: write and flush, nothing
// else. Any type satisfying this interface (a real incremental hash, a
// buffering test spy, ...) can stand in.
type DigestWriter interface {
	Write(p []byte) (int, error)
	Flush() error
}

// Hasher adapts a blake2b-256 incremental hash state — the same
// primitive the chain itself uses for every in-protocol digest — into
// a DigestWriter. Flush is a no-op: the underlying hash keeps no
// external buffer to drain.
type Hasher struct {
	h hash.Hash
}

// NewHasher returns a Hasher ready to receive writes.
func NewHasher() *Hasher {
	h, err := blake2b.New256(nil)
	if err != nil {
		// New256(nil) only fails for an oversized key; we pass none.
		panic(err)
	}
	return &Hasher{h: h}
}

// Write feeds data into the running hash. It never fails.
func (w *Hasher) Write(p []byte) (int, error) {
	return w.h.Write(p)
}

// Flush is a no-op; kept to satisfy DigestWriter.
func (w *Hasher) Flush() error { return nil }

// Sum finalizes the digest and returns the 32-byte result without
// mutating the running state (repeated calls are safe, matching
// hash.Hash semantics), though callers should treat the Hasher as
// single-use.
func (w *Hasher) Sum() [32]byte {
	var out [32]byte
	copy(out[:], w.h.Sum(nil))
	return out
}
