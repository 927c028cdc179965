/*
Package merkle implements a keyed binary Merkle tree.

Leaves are (int64 key, rune value) pairs. A leaf digest is the SHA-256 of
the leaf encoding of its pair, an inner digest is SHA-256(left || right).
The tree is rebuilt bottom-up, level by level, from the leaves sorted by
key whenever a leaf is inserted. All nodes of a build live in one
storage.NodeStorer and reference their children and parent by id.

Two kinds of paths are available for a key: PathToRoot returns the plain
digest trail from the leaf to the root, Prove returns an inclusion proof
with the sibling digests needed to recompute the root without the tree.
*/
package merkle
