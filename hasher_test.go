package merkle

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaechanAnUMD/merkletree-demo/digest"
)

func TestHasher_EncodeLeaf(t *testing.T) {
	tests := []struct {
		name     string
		encoding LeafEncoding
		key      int64
		value    rune
		want     []byte
	}{
		{"fixed ascii", FixedWidthKey, 1, 'A', []byte{0, 0, 0, 0, 0, 0, 0, 1, 'A'}},
		{"fixed negative", FixedWidthKey, -1, 'z', []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 'z'}},
		{"fixed multibyte rune", FixedWidthKey, 256, 'é', []byte{0, 0, 0, 0, 0, 0, 1, 0, 0xc3, 0xa9}},
		{"decimal", DecimalKey, 50, 'X', []byte("50X")},
		{"decimal negative", DecimalKey, -7, 'q', []byte("-7q")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHasher(tt.encoding)
			assert.Equal(t, tt.want, h.EncodeLeaf(tt.key, tt.value))
		})
	}
}

func TestHasher_HashLeaf(t *testing.T) {
	h := NewHasher(DecimalKey)
	// "50" followed by "X"
	want := digest.Digest(sha256.Sum256([]byte("50X")))
	assert.Equal(t, want, h.HashLeaf(50, 'X'))

	fixed := NewHasher(FixedWidthKey)
	assert.NotEqual(t, want, fixed.HashLeaf(50, 'X'))
	assert.Equal(t, fixed.HashLeaf(50, 'X'), fixed.HashLeaf(50, 'X'))
	assert.Equal(t, sha256.Size, fixed.Size())
}

func TestHasher_HashNode(t *testing.T) {
	h := NewHasher(FixedWidthKey)
	l, r := digest.Digest{1, 2, 3}, digest.Digest{4, 5, 6}
	want := digest.Digest(sha256.Sum256(append(l.Bytes(), r[:]...)))
	assert.Equal(t, want, h.HashNode(l, r))
	assert.NotEqual(t, h.HashNode(l, r), h.HashNode(r, l))
}

func TestParseLeafEncoding(t *testing.T) {
	for _, e := range []LeafEncoding{FixedWidthKey, DecimalKey} {
		got, err := ParseLeafEncoding(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}
	_, err := ParseLeafEncoding("hex")
	require.ErrorIs(t, err, ErrUnknownLeafEncoding)
	assert.Equal(t, "LeafEncoding(9)", LeafEncoding(9).String())
}

func TestParseOddNodeStrategy(t *testing.T) {
	for _, s := range []OddNodeStrategy{PromoteOdd, DuplicateOdd} {
		got, err := ParseOddNodeStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseOddNodeStrategy("pad")
	require.ErrorIs(t, err, ErrUnknownOddNodeStrategy)
}
