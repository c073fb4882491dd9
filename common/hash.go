package common

import (
	"golang.org/x/crypto/blake2b"
)

// Blake2Hash is the blake2b-256 digest of data.
func Blake2Hash(data []byte) Hash {
	return Hash(blake2b.Sum256(data))
}

// Blake2HashConcat hashes the concatenation of parts without copying them first.
func Blake2HashConcat(parts ...[]byte) Hash {
	h, _ := blake2b.New256(nil)
	for _, p := range parts {
		h.Write(p)
	}
	return BytesToHash(h.Sum(nil))
}

func IsNilHash(h Hash) bool {
	return h == Hash{}
}
