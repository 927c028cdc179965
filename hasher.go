package merkle

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"unicode/utf8"

	sha256 "github.com/minio/sha256-simd"

	"github.com/JaechanAnUMD/merkletree-demo/digest"
)

// LeafEncoding selects how a (key, value) pair is serialized before it is
// hashed into a leaf digest.
type LeafEncoding uint8

const (
	// FixedWidthKey encodes the key as 8 big-endian bytes followed by the
	// UTF-8 bytes of the value. The encoding is injective.
	FixedWidthKey LeafEncoding = iota
	// DecimalKey encodes the key as decimal text followed by the UTF-8
	// bytes of the value, the format of the first published letter trees.
	// It is only unambiguous because a value is exactly one rune: with
	// longer values "1"+"23" and "12"+"3" would collide.
	DecimalKey
)

var ErrUnknownLeafEncoding = errors.New("unknown leaf encoding")

func (e LeafEncoding) String() string {
	switch e {
	case FixedWidthKey:
		return "fixed"
	case DecimalKey:
		return "decimal"
	default:
		return "LeafEncoding(" + strconv.Itoa(int(e)) + ")"
	}
}

// ParseLeafEncoding is the inverse of LeafEncoding.String.
func ParseLeafEncoding(s string) (LeafEncoding, error) {
	switch s {
	case "fixed", "":
		return FixedWidthKey, nil
	case "decimal":
		return DecimalKey, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLeafEncoding, s)
	}
}

// Hasher computes leaf and inner node digests. It reuses one underlying
// hash state and is not safe for concurrent use.
type Hasher struct {
	baseHasher hash.Hash
	encoding   LeafEncoding
}

// NewHasher returns a SHA-256 hasher using the given leaf encoding.
func NewHasher(encoding LeafEncoding) *Hasher {
	return &Hasher{
		baseHasher: sha256.New(),
		encoding:   encoding,
	}
}

// Encoding returns the leaf encoding used by HashLeaf.
func (h *Hasher) Encoding() LeafEncoding {
	return h.encoding
}

// Size returns the number of bytes of every digest produced by h.
func (h *Hasher) Size() int {
	return h.baseHasher.Size()
}

// EncodeLeaf returns the serialization of (key, value) that HashLeaf hashes.
func (h *Hasher) EncodeLeaf(key int64, value rune) []byte {
	var buf []byte
	switch h.encoding {
	case DecimalKey:
		buf = make([]byte, 0, 20+utf8.UTFMax)
		buf = strconv.AppendInt(buf, key, 10)
	default:
		buf = make([]byte, 8, 8+utf8.UTFMax)
		binary.BigEndian.PutUint64(buf, uint64(key))
	}
	return utf8.AppendRune(buf, value)
}

// HashLeaf computes hash(EncodeLeaf(key, value)).
//
//nolint:errcheck
func (h *Hasher) HashLeaf(key int64, value rune) digest.Digest {
	h.baseHasher.Reset()
	h.baseHasher.Write(h.EncodeLeaf(key, value))
	return h.sum()
}

// HashNode computes hash(left || right). The order of the children matters.
//
//nolint:errcheck
func (h *Hasher) HashNode(left, right digest.Digest) digest.Digest {
	h.baseHasher.Reset()
	h.baseHasher.Write(left[:])
	h.baseHasher.Write(right[:])
	return h.sum()
}

func (h *Hasher) sum() digest.Digest {
	var d digest.Digest
	copy(d[:], h.baseHasher.Sum(nil))
	return d
}
