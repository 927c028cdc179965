package merkle

import (
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JaechanAnUMD/merkletree-demo/digest"
	"github.com/JaechanAnUMD/merkletree-demo/internal"
)

func benchEntries(n int) []Entry {
	entries := make([]Entry, n)
	for i := range entries {
		entries[i] = Entry{Key: int64(i + 1), Value: letter(int64(i + 1))}
	}
	return entries
}

// BenchmarkTreeBuild compares a rebuild per insert with one batched
// rebuild.
func BenchmarkTreeBuild(b *testing.B) {
	for _, n := range []int{64, 100, 1024} {
		entries := benchEntries(n)

		b.Run(fmt.Sprintf("%d-leaves-Insert", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				tree := New(InitialCapacity(n))
				for _, e := range entries {
					tree.Insert(e.Key, e.Value)
				}
			}
		})

		for _, odd := range []OddNodeStrategy{PromoteOdd, DuplicateOdd} {
			b.Run(fmt.Sprintf("%d-leaves-InsertMany-%s", n, odd), func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					tree := New(InitialCapacity(n), UseOddNodeStrategy(odd))
					tree.InsertMany(entries...)
				}
			})
		}
	}
}

// BenchmarkLevelHashing compares batched level hashing with hashing one
// pair at a time.
func BenchmarkLevelHashing(b *testing.B) {
	for _, pairs := range []int{32, 512, 4096} {
		level := make([]digest.Digest, 2*pairs)
		for i := range level {
			level[i] = sha256.Sum256([]byte{byte(i), byte(i >> 8)})
		}

		b.Run(fmt.Sprintf("%d-pairs-PerPair", pairs), func(b *testing.B) {
			h := NewHasher(FixedWidthKey)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				for j := 0; j < len(level); j += 2 {
					_ = h.HashNode(level[j], level[j+1])
				}
			}
		})

		b.Run(fmt.Sprintf("%d-pairs-Batched", pairs), func(b *testing.B) {
			lh := internal.NewLevelHasher(pairs)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, err := lh.HashPairs(level)
				require.NoError(b, err)
			}
		})
	}
}

func BenchmarkTreeProve(b *testing.B) {
	tree := New()
	tree.InsertMany(benchEntries(1024)...)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := tree.Prove(int64(i%1024) + 1)
		require.NoError(b, err)
	}
}
