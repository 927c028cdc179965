package merkle

import (
	"fmt"
	"io"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/JaechanAnUMD/merkletree-demo/storage"
)

// Fprint writes a human readable rendering of the current build to w. The
// format is meant for debugging and may change.
func (t *Tree) Fprint(w io.Writer) error {
	_, err := io.WriteString(w, t.String())
	return err
}

// String renders the tree with one line per node.
func (t *Tree) String() string {
	rootNode, ok := t.store.Get(t.root)
	if !ok {
		return "Merkle tree is empty.\n"
	}
	tree := treeprint.NewWithRoot("root " + rootNode.digest.String())
	t.walk(t.root, 0, tree)
	s := tree.String()
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}

func (t *Tree) walk(id storage.NodeID, depth int, branch treeprint.Tree) {
	n, ok := t.store.Get(id)
	if !ok {
		return
	}
	if n.leaf {
		if depth == 0 {
			branch.AddNode(displayLeaf(n, depth))
		}
		return
	}
	for _, child := range []storage.NodeID{n.left, n.right} {
		c, ok := t.store.Get(child)
		if !ok {
			continue
		}
		if c.leaf {
			branch.AddNode(displayLeaf(c, depth+1))
			continue
		}
		t.walk(child, depth+1, branch.AddBranch(displayInner(c, depth+1)))
	}
}

func displayLeaf(n Node, depth int) string {
	return fmt.Sprintf("leaf depth=%d key=%d value=%c %s", depth, n.key, n.value, n.digest.Short())
}

func displayInner(n Node, depth int) string {
	return fmt.Sprintf("node depth=%d %s", depth, n.digest.Short())
}
