package merkle

import (
	"errors"
	"fmt"
	"slices"

	"github.com/JaechanAnUMD/merkletree-demo/digest"
	"github.com/JaechanAnUMD/merkletree-demo/internal"
	"github.com/JaechanAnUMD/merkletree-demo/storage"
)

// NoValue is returned by Get for keys that are not in the tree.
const NoValue = '_'

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrEmptyTree   = errors.New("tree has no leaves")
)

// Entry is a single key/value pair.
type Entry struct {
	Key   int64
	Value rune
}

// Tree is a binary Merkle tree over a set of int64 keyed runes.
//
// The leaf set is the source of truth. Every insertion rebuilds all inner
// nodes from the leaves sorted by ascending key, so the root digest only
// depends on the (key, value) pairs and not on the insertion order. Node
// ids, trails and proofs obtained before an insertion describe the
// previous build.
//
// A Tree is not safe for concurrent use.
type Tree struct {
	treeHasher *Hasher
	levels     *internal.LevelHasher
	oddNode    OddNodeStrategy

	leaves map[int64]Node
	store  storage.NodeStorer[Node]

	// state of the current build:
	keys       []int64
	leafIDs    map[int64]storage.NodeID
	root       storage.NodeID
	generation uint64
}

// New returns an empty tree.
func New(setters ...Option) *Tree {
	// default options:
	opts := &Options{
		InitialCapacity: 128,
		LeafEncoding:    FixedWidthKey,
		OddNode:         PromoteOdd,
	}
	for _, setter := range setters {
		setter(opts)
	}
	store := opts.NodeStore
	if store == nil {
		// a full tree over n leaves has at most 2n-1 nodes
		store = storage.NewInMemoryNodeStore[Node](2 * opts.InitialCapacity)
	}
	return &Tree{
		treeHasher: NewHasher(opts.LeafEncoding),
		levels:     internal.NewLevelHasher(opts.InitialCapacity),
		oddNode:    opts.OddNode,
		leaves:     make(map[int64]Node, opts.InitialCapacity),
		store:      store,
		leafIDs:    make(map[int64]storage.NodeID, opts.InitialCapacity),
		root:       storage.NoNode,
	}
}

// Hasher returns the hasher used for leaves and inner nodes.
func (t *Tree) Hasher() *Hasher {
	return t.treeHasher
}

// Insert adds the leaf at key, replacing any previous value, and rebuilds
// the tree.
func (t *Tree) Insert(key int64, value rune) {
	t.leaves[key] = newLeaf(t.treeHasher, key, value)
	t.build()
}

// InsertMany adds all entries and rebuilds the tree once. Later entries win
// over earlier ones with the same key. The resulting root is the same as
// inserting the entries one by one.
func (t *Tree) InsertMany(entries ...Entry) {
	if len(entries) == 0 {
		return
	}
	for _, e := range entries {
		t.leaves[e.Key] = newLeaf(t.treeHasher, e.Key, e.Value)
	}
	t.build()
}

// Get returns the value stored at key, or NoValue if there is none.
func (t *Tree) Get(key int64) rune {
	if v, ok := t.Lookup(key); ok {
		return v
	}
	return NoValue
}

// Lookup returns the value stored at key and whether the key exists.
func (t *Tree) Lookup(key int64) (rune, bool) {
	n, ok := t.leaves[key]
	if !ok {
		return NoValue, false
	}
	return n.value, true
}

// Len returns the number of leaves.
func (t *Tree) Len() int {
	return len(t.leaves)
}

// Keys returns all keys in ascending order, i.e. in leaf order.
func (t *Tree) Keys() []int64 {
	return slices.Clone(t.keys)
}

// Generation returns the number of builds since the tree was created.
func (t *Tree) Generation() uint64 {
	return t.generation
}

// Root returns the root digest of the latest build. ok is false if the tree
// is empty.
func (t *Tree) Root() (root digest.Digest, ok bool) {
	n, ok := t.store.Get(t.root)
	if !ok {
		return digest.Digest{}, false
	}
	return n.digest, true
}

// Node returns the node stored at id in the current build.
func (t *Tree) Node(id storage.NodeID) (Node, bool) {
	return t.store.Get(id)
}

// RootID returns the id of the root node, or NoNode if the tree is empty.
func (t *Tree) RootID() storage.NodeID {
	return t.root
}

// LeafID returns the id of the leaf for key in the current build.
func (t *Tree) LeafID(key int64) (storage.NodeID, bool) {
	id, ok := t.leafIDs[key]
	return id, ok
}

// PathToRoot returns the digests from the leaf at key up to the root, leaf
// first and root last. It returns nil if key is not in the tree.
//
// The trail has no sibling digests, so it does not prove anything to a
// party that does not hold the tree; use Prove for that.
func (t *Tree) PathToRoot(key int64) []digest.Digest {
	id, ok := t.leafIDs[key]
	if !ok {
		return nil
	}
	var path []digest.Digest
	for id.Valid() {
		n, ok := t.store.Get(id)
		if !ok {
			break
		}
		path = append(path, n.digest)
		id = n.parent
	}
	return path
}

// Depth returns the number of nodes between the leaf at key and the root,
// both included. It is 0 if key is not in the tree.
func (t *Tree) Depth(key int64) int {
	return len(t.PathToRoot(key))
}

// build recomputes the whole tree from t.leaves.
func (t *Tree) build() {
	t.store.Reset()
	clear(t.leafIDs)
	t.root = storage.NoNode
	t.generation++

	t.keys = t.keys[:0]
	for k := range t.leaves {
		t.keys = append(t.keys, k)
	}
	slices.Sort(t.keys)
	if len(t.keys) == 0 {
		return
	}

	level := make([]storage.NodeID, 0, len(t.keys))
	for _, k := range t.keys {
		id := t.store.Put(t.leaves[k])
		t.leafIDs[k] = id
		level = append(level, id)
	}
	for len(level) > 1 {
		next, err := t.reduceLevel(level)
		if err != nil {
			// HashPairs only fails on an odd number of digests, which
			// reduceLevel never passes.
			panic(err)
		}
		level = next
	}
	t.root = level[0]
}

// reduceLevel combines consecutive pairs of level. An unpaired last node is
// handled according to t.oddNode.
func (t *Tree) reduceLevel(level []storage.NodeID) ([]storage.NodeID, error) {
	pairs := make([]storage.NodeID, 0, len(level)+1)
	pairs = append(pairs, level[:len(level)&^1]...)
	var promoted = storage.NoNode
	if len(level)%2 == 1 {
		last := level[len(level)-1]
		switch t.oddNode {
		case DuplicateOdd:
			pairs = append(pairs, last, last)
		default:
			promoted = last
		}
	}

	digests := make([]digest.Digest, len(pairs))
	for i, id := range pairs {
		n, ok := t.store.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %d", storage.ErrUnknownNode, id)
		}
		digests[i] = n.digest
	}
	hashes, err := t.levels.HashPairs(digests)
	if err != nil {
		return nil, err
	}

	next := make([]storage.NodeID, 0, len(hashes)+1)
	for i, h := range hashes {
		next = append(next, t.combine(pairs[2*i], pairs[2*i+1], h))
	}
	if promoted.Valid() {
		next = append(next, promoted)
	}
	return next, nil
}
