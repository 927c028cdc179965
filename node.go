package merkle

import (
	"github.com/JaechanAnUMD/merkletree-demo/digest"
	"github.com/JaechanAnUMD/merkletree-demo/storage"
)

// Node is either a leaf carrying a key/value pair or an inner node with
// exactly two children. Nodes are only created by newLeaf and combine.
// Children and parent are NodeIDs into the tree's node store.
type Node struct {
	leaf   bool
	key    int64
	value  rune
	digest digest.Digest

	left   storage.NodeID
	right  storage.NodeID
	parent storage.NodeID
}

func newLeaf(h *Hasher, key int64, value rune) Node {
	return Node{
		leaf:   true,
		key:    key,
		value:  value,
		digest: h.HashLeaf(key, value),
		left:   storage.NoNode,
		right:  storage.NoNode,
		parent: storage.NoNode,
	}
}

// IsLeaf returns whether this node is a leaf node or not.
func (n Node) IsLeaf() bool {
	return n.leaf
}

// IsRoot returns whether this node is a root node or not.
func (n Node) IsRoot() bool {
	return !n.parent.Valid()
}

// Key returns the leaf key. ok is false for inner nodes.
func (n Node) Key() (key int64, ok bool) {
	return n.key, n.leaf
}

// Value returns the leaf value. ok is false for inner nodes.
func (n Node) Value() (value rune, ok bool) {
	return n.value, n.leaf
}

// Digest returns the leaf or inner digest of n.
func (n Node) Digest() digest.Digest {
	return n.digest
}

// Children returns the ids of the left and right child, or NoNode twice
// for a leaf.
func (n Node) Children() (left, right storage.NodeID) {
	return n.left, n.right
}

// Parent returns the id of the enclosing inner node, or NoNode for the root.
// The id is only meaningful for the build the node was read from.
func (n Node) Parent() storage.NodeID {
	return n.parent
}

// combine stores a new inner node with digest d over left and right and
// points both children at it. left == right is allowed when the odd node
// is duplicated.
func (t *Tree) combine(left, right storage.NodeID, d digest.Digest) storage.NodeID {
	id := t.store.Put(Node{
		digest: d,
		left:   left,
		right:  right,
		parent: storage.NoNode,
	})
	t.setParent(left, id)
	if right != left {
		t.setParent(right, id)
	}
	return id
}

func (t *Tree) setParent(child, parent storage.NodeID) {
	n, ok := t.store.Get(child)
	if !ok {
		// children are always stored before their parent
		panic("merkle: child node missing from store")
	}
	n.parent = parent
	if err := t.store.Set(child, n); err != nil {
		panic(err)
	}
}
