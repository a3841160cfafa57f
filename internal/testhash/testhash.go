/*
Package testhash provides deterministic node hashes for tests.
*/
package testhash

import (
	"math/rand"

	"github.com/nspcc-dev/utreexo-go/pkg/accumulator"
	"github.com/nspcc-dev/utreexo-go/pkg/crypto/hash"
)

// FromU8 returns a concrete node hash of sha256 over the single byte given.
func FromU8(b byte) accumulator.NodeHash {
	return accumulator.New(hash.Sha256([]byte{b}))
}

// Random returns a random concrete node hash.
func Random() accumulator.NodeHash {
	var b [accumulator.HashSize]byte
	_, _ = rand.Read(b[:])
	return accumulator.New(b)
}
