package tree

import (
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// builder grows a tree over the rows of X. X and Y are shared read-only by
// every call to build; each call owns its index slice.
type builder struct {
	X         [][]float64
	Y         []int // class ids
	classes   []int // class id to label
	nFeatures int
	maxDepth  int
	sem       chan struct{} // extra goroutines allowed, nil when sequential
}

func newBuilder(X [][]float64, Y []int, classes []int, nFeatures, maxDepth, workers int) *builder {
	b := &builder{
		X:         X,
		Y:         Y,
		classes:   classes,
		nFeatures: nFeatures,
		maxDepth:  maxDepth,
	}
	if workers > 1 {
		b.sem = make(chan struct{}, workers-1)
	}
	return b
}

// build returns the subtree for the rows in inx with its root at index 0.
// The stopping rules are checked in order: pure node, depth limit, no split
// with positive gain.
func (b *builder) build(inx []int, depth int) ([]Node, error) {
	if len(inx) == 0 {
		return nil, errors.Wrapf(ErrEmptyLabels, "no samples to build node at depth %d", depth)
	}

	ct := make([]int, len(b.classes))
	for _, id := range inx {
		ct[b.Y[id]]++
	}

	n := Node{
		Samples:  len(inx),
		Impurity: entropy(len(inx), ct),
	}

	if class, ok := pure(ct); ok {
		return b.leaf(n, class), nil
	}

	if b.maxDepth >= 0 && depth >= b.maxDepth {
		return b.leaf(n, majority(ct)), nil
	}

	s := newSearcher(len(inx), len(b.classes))
	sp := s.bestSplit(b.X, b.Y, inx, b.nFeatures, ct, n.Impurity)
	if sp.feature == NoFeature || sp.gain <= 0.0 {
		return b.leaf(n, majority(ct)), nil
	}

	var l, r []int
	for _, id := range inx {
		if b.X[id][sp.feature] <= sp.val {
			l = append(l, id)
		} else {
			r = append(r, id)
		}
	}
	if len(l) == 0 || len(r) == 0 {
		return nil, errors.Wrapf(ErrEmptyLabels, "split on feature %d at %v leaves one side empty", sp.feature, sp.val)
	}

	n.Feature = sp.feature
	n.Threshold = sp.val
	n.Gain = sp.gain

	left, right, err := b.children(l, r, depth+1)
	if err != nil {
		return nil, err
	}
	return splice(n, left, right), nil
}

// children builds both subtrees. The left one runs on its own goroutine when
// a worker slot is free, otherwise both run on the calling goroutine.
func (b *builder) children(l, r []int, depth int) ([]Node, []Node, error) {
	var (
		left, right []Node
		g           errgroup.Group
	)

	buildLeft := func() error {
		var err error
		left, err = b.build(l, depth)
		return err
	}

	if b.acquire() {
		g.Go(func() error {
			defer b.release()
			return buildLeft()
		})
	} else if err := buildLeft(); err != nil {
		return nil, nil, err
	}

	right, errR := b.build(r, depth)
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if errR != nil {
		return nil, nil, errR
	}
	return left, right, nil
}

func (b *builder) acquire() bool {
	select {
	case b.sem <- struct{}{}:
		return true
	default:
		return false
	}
}

func (b *builder) release() { <-b.sem }

func (b *builder) leaf(n Node, class int) []Node {
	n.Leaf = true
	n.Label = b.classes[class]
	return []Node{n}
}

// splice lays out root, then the left subtree, then the right subtree,
// shifting the child handles of both subtrees to their new positions.
func splice(root Node, left, right []Node) []Node {
	nodes := make([]Node, 0, 1+len(left)+len(right))

	root.Left = 1
	root.Right = 1 + len(left)
	nodes = append(nodes, root)

	nodes = appendShifted(nodes, left, root.Left)
	nodes = appendShifted(nodes, right, root.Right)
	return nodes
}

func appendShifted(dst, src []Node, offset int) []Node {
	for _, n := range src {
		if !n.Leaf {
			n.Left += offset
			n.Right += offset
		}
		dst = append(dst, n)
	}
	return dst
}
