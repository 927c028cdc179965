package internal

import (
	"errors"
	"fmt"

	"github.com/prysmaticlabs/gohashtree"

	"github.com/JaechanAnUMD/merkletree-demo/digest"
)

var ErrOddPairs = errors.New("level hashing needs an even number of digests")

// LevelHasher computes SHA-256(left || right) for every sibling pair of a
// tree level in a single batch. The scratch buffers are reused between
// levels and builds, so a LevelHasher must not be shared between trees.
type LevelHasher struct {
	chunks  [][32]byte
	digests [][32]byte
}

func NewLevelHasher(capacity int) *LevelHasher {
	if capacity < 0 {
		capacity = 0
	}
	return &LevelHasher{
		chunks:  make([][32]byte, 0, capacity),
		digests: make([][32]byte, 0, (capacity+1)/2),
	}
}

// HashPairs hashes pairs[2i] || pairs[2i+1] for every i and returns the
// results in order. Left must come before right in pairs.
func (l *LevelHasher) HashPairs(pairs []digest.Digest) ([]digest.Digest, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrOddPairs, len(pairs))
	}
	if len(pairs) == 0 {
		return nil, nil
	}

	l.chunks = l.chunks[:0]
	for _, d := range pairs {
		l.chunks = append(l.chunks, [32]byte(d))
	}
	n := len(pairs) / 2
	if cap(l.digests) < n {
		l.digests = make([][32]byte, n)
	}
	l.digests = l.digests[:n]

	if err := gohashtree.Hash(l.digests, l.chunks); err != nil {
		return nil, fmt.Errorf("batch hash of %d pairs failed: %w", n, err)
	}

	res := make([]digest.Digest, n)
	for i := range l.digests {
		res[i] = digest.Digest(l.digests[i])
	}
	return res, nil
}
