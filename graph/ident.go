package graph

import (
	"crypto/sha256"
	"encoding/binary"
)

// DeriveID computes the content-addressed identity for a concept name.
// It is the big-endian integer formed from the first four bytes of the
// SHA-256 digest of the UTF-8 name. Two stores that have never exchanged
// state will derive the same id for the same name, which is what lets
// detached subgraphs and independent databases agree on identity.
func DeriveID(name string) int64 {
	sum := sha256.Sum256([]byte(name))
	return int64(binary.BigEndian.Uint32(sum[:4]))
}
