package merkle

import (
	"fmt"
	"strings"

	"github.com/JaechanAnUMD/merkletree-demo/digest"
)

// Step is one level of an inclusion proof: the digest of the sibling and
// the side it sits on.
type Step struct {
	Sibling digest.Digest
	// Left is true if the sibling is the left child, i.e. the running hash
	// is the right input of HashNode.
	Left bool
}

// Proof proves that a leaf is part of a tree with a given root. Levels at
// which the leaf's ancestor was promoted without a sibling contribute no
// step.
type Proof struct {
	key      int64
	leafHash digest.Digest
	steps    []Step
	root     digest.Digest
}

// NewInclusionProof constructs a proof for the leaf at key with digest
// leafHash against root.
func NewInclusionProof(key int64, leafHash digest.Digest, steps []Step, root digest.Digest) Proof {
	return Proof{key: key, leafHash: leafHash, steps: steps, root: root}
}

// Key of the proven leaf.
func (proof Proof) Key() int64 {
	return proof.key
}

// LeafHash is the digest of the proven leaf.
func (proof Proof) LeafHash() digest.Digest {
	return proof.leafHash
}

// Steps returns the sibling digests ordered from the leaf's level upwards.
func (proof Proof) Steps() []Step {
	return proof.steps
}

// Root is the root digest of the build the proof was generated from.
func (proof Proof) Root() digest.Digest {
	return proof.root
}

// ComputeRoot folds the steps over leafHash.
func (proof Proof) ComputeRoot(h *Hasher, leafHash digest.Digest) digest.Digest {
	cur := leafHash
	for _, s := range proof.steps {
		if s.Left {
			cur = h.HashNode(s.Sibling, cur)
		} else {
			cur = h.HashNode(cur, s.Sibling)
		}
	}
	return cur
}

// VerifyInclusion checks that (key, value) hashed with h and folded with
// the proof steps yields root. h must use the same leaf encoding as the
// tree the proof came from.
func (proof Proof) VerifyInclusion(h *Hasher, key int64, value rune, root digest.Digest) bool {
	if key != proof.key {
		return false
	}
	leafHash := h.HashLeaf(key, value)
	if leafHash != proof.leafHash {
		return false
	}
	return proof.ComputeRoot(h, leafHash) == root
}

func (proof Proof) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "key: %d\nleaf: %s\n", proof.key, proof.leafHash)
	for i, s := range proof.steps {
		side := "right"
		if s.Left {
			side = "left"
		}
		fmt.Fprintf(&b, "step %d: %s (%s)\n", i, s.Sibling, side)
	}
	fmt.Fprintf(&b, "root: %s", proof.root)
	return b.String()
}

// Prove returns an inclusion proof for the leaf at key against the current
// root.
func (t *Tree) Prove(key int64) (Proof, error) {
	root, ok := t.Root()
	if !ok {
		return Proof{}, ErrEmptyTree
	}
	id, ok := t.leafIDs[key]
	if !ok {
		return Proof{}, fmt.Errorf("%w: %d", ErrKeyNotFound, key)
	}
	leaf, _ := t.store.Get(id)

	var steps []Step
	cur := leaf
	for cur.parent.Valid() {
		parent, ok := t.store.Get(cur.parent)
		if !ok {
			return Proof{}, fmt.Errorf("broken parent reference %d below root %s", cur.parent, root)
		}
		var step Step
		switch {
		case parent.left == parent.right:
			// duplicated odd node: its own sibling, on the right
			step = Step{Sibling: cur.digest}
		case parent.left == id:
			right, _ := t.store.Get(parent.right)
			step = Step{Sibling: right.digest}
		default:
			left, _ := t.store.Get(parent.left)
			step = Step{Sibling: left.digest, Left: true}
		}
		steps = append(steps, step)
		id, cur = cur.parent, parent
	}
	return NewInclusionProof(key, leaf.digest, steps, root), nil
}
