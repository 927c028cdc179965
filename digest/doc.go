// Package digest contains the fixed-size content hash shared by the tree,
// its proofs and the node store.
package digest
