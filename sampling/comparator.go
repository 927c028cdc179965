package sampling

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	merkle "github.com/JaechanAnUMD/merkletree-demo"
	"github.com/JaechanAnUMD/merkletree-demo/attest"
	"github.com/JaechanAnUMD/merkletree-demo/digest"
)

var (
	ErrTreeCount       = errors.New("wrong number of trees")
	ErrNoKeys          = errors.New("no keys to sample from")
	ErrSharedNodeStore = errors.New("node store option cannot be shared between trees")
)

// BuildTrees builds one tree per dataset, in parallel. opts are applied to
// every tree; each tree gets its own in-memory node store, so a
// merkle.NodeStore option is rejected.
func BuildTrees(ctx context.Context, datasets []Dataset, opts ...merkle.Option) ([]*merkle.Tree, error) {
	var applied merkle.Options
	for _, set := range opts {
		set(&applied)
	}
	if applied.NodeStore != nil {
		return nil, ErrSharedNodeStore
	}

	trees := make([]*merkle.Tree, len(datasets))
	g, ctx := errgroup.WithContext(ctx)
	for i, d := range datasets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t := merkle.New(append([]merkle.Option{merkle.InitialCapacity(len(d))}, opts...)...)
			t.InsertMany(d.Entries()...)
			trees[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return trees, nil
}

// Comparator samples the same key across attest.InputLen trees.
type Comparator struct {
	trees []*merkle.Tree
	keys  []int64
	rng   *rand.Rand
	log   *zap.Logger
}

// NewComparator takes exactly attest.InputLen trees. Random keys are drawn
// from the keys of the first tree. A zero seed seeds from the clock.
func NewComparator(trees []*merkle.Tree, seed uint64, log *zap.Logger) (*Comparator, error) {
	if len(trees) != attest.InputLen {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrTreeCount, len(trees), attest.InputLen)
	}
	if log == nil {
		log = zap.NewNop()
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Comparator{
		trees: trees,
		keys:  trees[0].Keys(),
		rng:   rand.New(rand.NewPCG(seed, seed)),
		log:   log,
	}, nil
}

// Trees returns the compared trees.
func (c *Comparator) Trees() []*merkle.Tree {
	return c.trees
}

// RandomKey picks one of the first tree's keys uniformly.
func (c *Comparator) RandomKey() (int64, error) {
	if len(c.keys) == 0 {
		return 0, ErrNoKeys
	}
	return c.keys[c.rng.IntN(len(c.keys))], nil
}

// Sample reads key from every tree. Trees missing the key contribute
// merkle.NoValue.
func (c *Comparator) Sample(key int64) attest.Input {
	var in attest.Input
	for i, t := range c.trees {
		in[i] = t.Get(key)
	}
	return in
}

// Roots returns the root digest of every tree; empty trees yield a zero
// digest.
func (c *Comparator) Roots() []digest.Digest {
	roots := make([]digest.Digest, len(c.trees))
	for i, t := range c.trees {
		roots[i], _ = t.Root()
	}
	return roots
}

// SampleKeys reads attest.InputLen keys from a single tree.
func SampleKeys(t *merkle.Tree, keys [attest.InputLen]int64) attest.Input {
	var in attest.Input
	for i, k := range keys {
		in[i] = t.Get(k)
	}
	return in
}

// IsConsecutive reports whether in holds consecutive capital letters,
// wrapping from 'Z' to 'A'.
func IsConsecutive(in attest.Input) bool {
	for i := range in {
		if in[i] < 'A' || in[i] > 'Z' {
			return false
		}
		if i > 0 && in[i] != Letter(int64(in[i-1]-'A')+2) {
			return false
		}
	}
	return true
}
