/*
Package accumulator contains the node hash value shared by every part of the
utreexo forest: a tree position is either empty, occupied by a node whose
digest is not kept (placeholder) or occupied by a node with a concrete
256-bit digest.
*/
package accumulator

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/nspcc-dev/utreexo-go/pkg/crypto/hash"
	nio "github.com/nspcc-dev/utreexo-go/pkg/io"
)

// HashSize is the size of a concrete node digest in bytes.
const HashSize = hash.Size

// Kind is the discriminator of a NodeHash. Its value is also the tag byte of
// the binary encoding.
type Kind byte

// Node hash kinds, in their sort order.
const (
	KindEmpty       Kind = 0x00
	KindPlaceholder Kind = 0x01
	KindSome        Kind = 0x02
)

// String implements the fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindPlaceholder:
		return "Placeholder"
	case KindSome:
		return "Some"
	default:
		return fmt.Sprintf("Kind(%d)", byte(k))
	}
}

// emptyString is the textual form of non-concrete hashes.
const emptyString = "empty"

var (
	// ErrMalformedHex is returned when a string is not a 64-character hex
	// encoded digest.
	ErrMalformedHex = errors.New("malformed hex node hash")
	// ErrInvalidLength is returned when a byte slice of a wrong size is used
	// as a digest.
	ErrInvalidLength = errors.New("invalid node hash length")
	// ErrInvalidTag is returned by the binary decoder for unknown tag bytes.
	ErrInvalidTag = errors.New("unexpected tag for NodeHash")
	// ErrTrailingBytes is returned by UnmarshalBinary when the data is
	// longer than a single encoded node hash.
	ErrTrailingBytes = errors.New("trailing bytes after NodeHash")
)

// NodeHash identifies a forest node. The zero value is an empty node hash.
// Empty and placeholder hashes never carry a payload, so NodeHash values
// can be compared with == and used as map keys.
type NodeHash struct {
	kind Kind
	hash [HashSize]byte
}

// placeholder is a ready-to-use placeholder value.
var placeholder = NodeHash{kind: KindPlaceholder}

// Empty returns a hash for a position without a node.
func Empty() NodeHash {
	return NodeHash{}
}

// Placeholder returns a hash for a node whose digest is not materialized.
func Placeholder() NodeHash {
	return placeholder
}

// New wraps the digest given.
func New(b [HashSize]byte) NodeHash {
	return NodeHash{kind: KindSome, hash: b}
}

// FromArray wraps the digest referenced by b. An all-zero digest is a valid
// concrete digest, it's not converted to an empty hash.
func FromArray(b *[HashSize]byte) NodeHash {
	return New(*b)
}

// FromSlice copies the digest from b which must be exactly HashSize bytes
// long.
func FromSlice(b []byte) (NodeHash, error) {
	if len(b) != HashSize {
		return NodeHash{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidLength, HashSize, len(b))
	}
	var h = NodeHash{kind: KindSome}
	copy(h.hash[:], b)
	return h, nil
}

// MustFromSlice is the same as FromSlice, but panics on a wrong input length.
func MustFromSlice(b []byte) NodeHash {
	h, err := FromSlice(b)
	if err != nil {
		panic(err)
	}
	return h
}

// ParentHash computes the hash of the parent node of left and right. Both
// children contribute their Bytes view, so empty and placeholder children
// are hashed as 32 zero bytes.
func ParentHash(left, right NodeHash) NodeHash {
	return New(hash.Sha512_256Pair(&left.hash, &right.hash))
}

// Kind returns the variant of h.
func (h NodeHash) Kind() Kind {
	return h.kind
}

// IsEmpty returns true if h is an empty hash.
func (h NodeHash) IsEmpty() bool {
	return h.kind == KindEmpty
}

// IsPlaceholder returns true if h is a placeholder.
func (h NodeHash) IsPlaceholder() bool {
	return h.kind == KindPlaceholder
}

// IsSome returns true if h holds a concrete digest.
func (h NodeHash) IsSome() bool {
	return h.kind == KindSome
}

// Bytes returns the digest of h or 32 zero bytes for empty and placeholder
// hashes.
func (h NodeHash) Bytes() [HashSize]byte {
	return h.hash
}

// BytesBE returns a copy of the Bytes view as a slice.
func (h NodeHash) BytesBE() []byte {
	b := make([]byte, HashSize)
	copy(b, h.hash[:])
	return b
}

// Equals returns true if both node hashes are the same.
func (h NodeHash) Equals(other NodeHash) bool {
	return h == other
}

// Compare returns -1, 0 or 1 if h is less than, equal to or greater than
// other. Kinds are compared first (empty < placeholder < some), digests are
// compared bytewise.
func (h NodeHash) Compare(other NodeHash) int {
	switch {
	case h.kind < other.kind:
		return -1
	case h.kind > other.kind:
		return 1
	}
	return bytes.Compare(h.hash[:], other.hash[:])
}

// Less returns true if h sorts before other.
func (h NodeHash) Less(other NodeHash) bool {
	return h.Compare(other) < 0
}

// String implements the fmt.Stringer interface. Empty and placeholder
// hashes are both printed as "empty".
func (h NodeHash) String() string {
	if h.kind != KindSome {
		return emptyString
	}
	return hex.EncodeToString(h.hash[:])
}

// GoString implements the fmt.GoStringer interface, it's the same as String.
func (h NodeHash) GoString() string {
	return h.String()
}

// DecodeString decodes a 64-character hex string into a concrete hash.
// There is no textual form of empty and placeholder hashes to decode.
func DecodeString(s string) (NodeHash, error) {
	if len(s) != 2*HashSize {
		return NodeHash{}, fmt.Errorf("%w %q: expected string size of %d got %d", ErrMalformedHex, s, 2*HashSize, len(s))
	}
	var h = NodeHash{kind: KindSome}
	if _, err := hex.Decode(h.hash[:], []byte(s)); err != nil {
		return NodeHash{}, fmt.Errorf("%w %q: %v", ErrMalformedHex, s, err)
	}
	return h, nil
}

// Size returns the size of h's binary encoding.
func (h NodeHash) Size() int {
	if h.kind == KindSome {
		return 1 + HashSize
	}
	return 1
}

// EncodeBinary implements the io.Serializable interface.
func (h NodeHash) EncodeBinary(w *nio.BinWriter) {
	w.WriteB(byte(h.kind))
	if h.kind == KindSome {
		w.WriteBytes(h.hash[:])
	}
}

// DecodeBinary implements the io.Serializable interface.
func (h *NodeHash) DecodeBinary(r *nio.BinReader) {
	tag := Kind(r.ReadB())
	if r.Err != nil {
		return
	}
	switch tag {
	case KindEmpty, KindPlaceholder:
		*h = NodeHash{kind: tag}
	case KindSome:
		var res = NodeHash{kind: KindSome}
		r.ReadBytes(res.hash[:])
		if r.Err != nil {
			return
		}
		*h = res
	default:
		r.Err = fmt.Errorf("%w: 0x%02x", ErrInvalidTag, byte(tag))
	}
}

// WriteTo writes the binary encoding of h to w. It implements the
// io.WriterTo interface.
func (h NodeHash) WriteTo(w io.Writer) (int64, error) {
	var (
		buf [1 + HashSize]byte
		n   = h.Size()
	)
	buf[0] = byte(h.kind)
	copy(buf[1:], h.hash[:])
	written, err := w.Write(buf[:n])
	return int64(written), err
}

// ReadNodeHash reads a binary encoded node hash from r.
func ReadNodeHash(r io.Reader) (NodeHash, error) {
	var (
		h  NodeHash
		br = nio.NewBinReaderFromIO(r)
	)
	h.DecodeBinary(br)
	return h, br.Err
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (h NodeHash) MarshalBinary() ([]byte, error) {
	w := nio.NewBufBinWriter()
	h.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface. The
// data must hold exactly one encoded node hash.
func (h *NodeHash) UnmarshalBinary(data []byte) error {
	var res NodeHash
	r := nio.NewBinReaderFromBuf(data)
	res.DecodeBinary(r)
	if r.Err != nil {
		return r.Err
	}
	if res.Size() != len(data) {
		return fmt.Errorf("%w: %d", ErrTrailingBytes, len(data)-res.Size())
	}
	*h = res
	return nil
}
