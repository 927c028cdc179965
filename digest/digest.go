package digest

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
)

// Size is the number of bytes in a Digest (SHA-256).
const Size = 32

var ErrInvalidSize = errors.New("invalid digest size")

// Digest is a 256-bit content hash.
type Digest [Size]byte

// FromBytes copies b into a Digest. It returns ErrInvalidSize if b is not
// exactly Size bytes long.
func FromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != Size {
		return d, fmt.Errorf("%w: got: %v, want: %v", ErrInvalidSize, len(b), Size)
	}
	copy(d[:], b)
	return d, nil
}

// FromHex is the inverse of Digest.String.
func FromHex(s string) (Digest, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Digest{}, err
	}
	return FromBytes(b)
}

// Bytes returns a copy of the digest as a byte slice.
func (d Digest) Bytes() []byte {
	return append([]byte(nil), d[:]...)
}

// Equal returns true if d == other.
func (d Digest) Equal(other Digest) bool {
	return d == other
}

// Less returns true if d < other, compared byte-wise.
func (d Digest) Less(other Digest) bool {
	return bytes.Compare(d[:], other[:]) < 0
}

// IsZero reports whether d is the all-zero digest.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// String returns the hexadecimal encoding of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short returns the last 7 hex characters, prefixed with an ellipsis, for
// compact diagnostic output.
func (d Digest) Short() string {
	s := d.String()
	return "…" + s[len(s)-7:]
}
