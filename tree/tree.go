// tree implements a binary decision tree classifier over numeric features.
//
// Trees are grown greedily: at each node every feature is searched for the
// threshold with the largest entropy reduction, and the node is split on the
// best one. A node becomes a leaf when its labels are pure, when the maximum
// depth is reached, or when no split has a positive information gain.
package tree

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Node is either a leaf carrying a label, or an internal node sending samples
// with x[Feature] <= Threshold to Left and everything else to Right. Left and
// Right are indices into Tree.Nodes.
type Node struct {
	Leaf      bool
	Label     int
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Samples   int     // training samples that reached the node
	Impurity  float64 // entropy of those samples
	Gain      float64 // information gain of the split, internal nodes only
}

// Tree stores its nodes in a slice, the root is Nodes[0]. Every internal node
// has exactly two children and each node has a single parent.
type Tree struct {
	Nodes []Node
}

// predict walks from the root to a leaf.
func (t *Tree) predict(x []float64) (int, error) {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Leaf {
			return n.Label, nil
		}
		if n.Feature >= len(x) {
			return 0, errors.Wrapf(ErrFeatureOutOfRange, "feature %d, sample has %d", n.Feature, len(x))
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Depth returns the number of edges on the longest root to leaf path.
func (t *Tree) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	return t.depth(0)
}

func (t *Tree) depth(i int) int {
	n := t.Nodes[i]
	if n.Leaf {
		return 0
	}
	l, r := t.depth(n.Left), t.depth(n.Right)
	if l > r {
		return l + 1
	}
	return r + 1
}

// NumLeaves returns the number of leaf nodes.
func (t *Tree) NumLeaves() int {
	ct := 0
	for _, n := range t.Nodes {
		if n.Leaf {
			ct++
		}
	}
	return ct
}

// String renders the tree one node per line, children indented under their
// parent, left child first.
func (t *Tree) String() string {
	if len(t.Nodes) == 0 {
		return ""
	}
	var sb strings.Builder
	t.write(&sb, 0, 0)
	return sb.String()
}

func (t *Tree) write(sb *strings.Builder, i, indent int) {
	n := t.Nodes[i]
	sb.WriteString(strings.Repeat("  ", indent))
	if n.Leaf {
		fmt.Fprintf(sb, "label %d (samples=%d)\n", n.Label, n.Samples)
		return
	}
	fmt.Fprintf(sb, "x[%d] <= %g (samples=%d, entropy=%.4f, gain=%.4f)\n",
		n.Feature, n.Threshold, n.Samples, n.Impurity, n.Gain)
	t.write(sb, n.Left, indent+1)
	t.write(sb, n.Right, indent+1)
}
