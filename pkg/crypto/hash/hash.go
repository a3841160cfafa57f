/*
Package hash contains the digest functions used by the accumulator: the
SHA-512/256 pair combine for parent nodes and a set of leaf hashers.
*/
package hash

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Size is the length of every digest returned by this package.
const Size = 32

// LeafFunc hashes arbitrary data into a 32-byte digest.
type LeafFunc func(data []byte) [Size]byte

// Supported leaf hash algorithm names.
const (
	AlgSha256     = "sha256"
	AlgSha3_256   = "sha3-256"
	AlgBlake2b256 = "blake2b-256"
)

// Sha256 hashes the incoming byte slice using the sha256 algorithm.
func Sha256(data []byte) [Size]byte {
	return sha256.Sum256(data)
}

// Sha3_256 hashes the incoming byte slice using the FIPS-202 SHA3-256
// algorithm.
func Sha3_256(data []byte) [Size]byte {
	return sha3.Sum256(data)
}

// Blake2b256 hashes the incoming byte slice using the 256-bit blake2b
// algorithm.
func Blake2b256(data []byte) [Size]byte {
	return blake2b.Sum256(data)
}

// Sha512_256Pair computes SHA-512/256 over left || right. It's the parent
// combine of the accumulator, so its output must never change.
func Sha512_256Pair(left, right *[Size]byte) [Size]byte {
	var buf [2 * Size]byte
	copy(buf[:Size], left[:])
	copy(buf[Size:], right[:])
	return sha512.Sum512_256(buf[:])
}

// LeafFuncByName returns the leaf hasher registered under the given
// algorithm name.
func LeafFuncByName(name string) (LeafFunc, error) {
	switch name {
	case AlgSha256:
		return Sha256, nil
	case AlgSha3_256:
		return Sha3_256, nil
	case AlgBlake2b256:
		return Blake2b256, nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm: %s", name)
	}
}
