package merkle

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/JaechanAnUMD/merkletree-demo/storage"
)

// OddNodeStrategy decides what happens to the last node of a level that
// has no sibling.
type OddNodeStrategy uint8

const (
	// PromoteOdd carries the unpaired node into the next level unchanged.
	// Two leaf sets that differ only by such a node can end up with the
	// same root, i.e. the root does not commit to the number of leaves.
	PromoteOdd OddNodeStrategy = iota
	// DuplicateOdd pairs the unpaired node with itself.
	DuplicateOdd
)

var ErrUnknownOddNodeStrategy = errors.New("unknown odd node strategy")

func (s OddNodeStrategy) String() string {
	switch s {
	case PromoteOdd:
		return "promote"
	case DuplicateOdd:
		return "duplicate"
	default:
		return "OddNodeStrategy(" + strconv.Itoa(int(s)) + ")"
	}
}

// ParseOddNodeStrategy is the inverse of OddNodeStrategy.String.
func ParseOddNodeStrategy(s string) (OddNodeStrategy, error) {
	switch s {
	case "promote", "":
		return PromoteOdd, nil
	case "duplicate":
		return DuplicateOdd, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOddNodeStrategy, s)
	}
}

// Options configures a Tree. Use the Option setters rather than filling it
// in directly.
type Options struct {
	InitialCapacity int
	LeafEncoding    LeafEncoding
	OddNode         OddNodeStrategy
	NodeStore       storage.NodeStorer[Node]
}

// Option is a setter passed to New.
type Option func(*Options)

// InitialCapacity sets the capacity of the internally used maps and slices
// to the passed in initial value (defaults is 128).
func InitialCapacity(cap int) Option {
	if cap < 0 {
		panic(fmt.Sprintf("merkle: negative initial capacity %d", cap))
	}
	return func(opts *Options) {
		opts.InitialCapacity = cap
	}
}

// UseLeafEncoding sets the leaf serialization. Defaults to FixedWidthKey.
func UseLeafEncoding(e LeafEncoding) Option {
	return func(opts *Options) {
		opts.LeafEncoding = e
	}
}

// UseOddNodeStrategy sets how unpaired nodes are handled. Defaults to
// PromoteOdd.
func UseOddNodeStrategy(s OddNodeStrategy) Option {
	return func(opts *Options) {
		opts.OddNode = s
	}
}

// NodeStore sets the table that owns the nodes of every build. Defaults to
// an in-memory store.
func NodeStore(store storage.NodeStorer[Node]) Option {
	return func(opts *Options) {
		opts.NodeStore = store
	}
}
