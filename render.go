package rangecover

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// String renders the node structure, one line per node
func (t *Tree[K, V]) String() string {
	if t.root == NoNode {
		return "(empty)"
	}
	tree := treeprint.NewWithRoot(t.label(t.root))
	t.render(t.root, tree)
	return tree.String()
}

func (t *Tree[K, V]) render(id NodeID, branch treeprint.Tree) {
	for _, c := range t.nodes[id].children {
		if c == NoNode {
			continue
		}
		t.render(c, branch.AddBranch(t.label(c)))
	}
}

func (t *Tree[K, V]) label(id NodeID) string {
	return fmt.Sprintf("#%d %v", id, t.nodes[id].keys)
}
