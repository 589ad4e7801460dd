package tree

import (
	"encoding/gob"
	"io"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Unbounded as MaxDepth grows the tree until every leaf is pure or cannot be
// split with a positive gain.
const Unbounded = -1

// Classifier implements a decision tree classifier. The classifier
// should be initialized with NewClassifier.
//
// Predict may be called concurrently once the classifier is fit. Calls to
// Fit must not overlap with other calls.
type Classifier struct {
	Tree      *Tree
	MaxDepth  int // max depth, negative for Unbounded
	NFeatures int // number of columns seen by Fit
	workers   int
	logger    *zap.Logger
}

// MaxDepth limits the depth of the fitted tree. Any negative n is stored as
// Unbounded and grows a full tree. A depth of 0 yields a single leaf.
func MaxDepth(n int) func(*Classifier) {
	return func(c *Classifier) {
		if n < 0 {
			n = Unbounded
		}
		c.MaxDepth = n
	}
}

// Workers sets the number of goroutines used to grow sibling subtrees. The
// fitted tree does not depend on n.
func Workers(n int) func(*Classifier) {
	return func(c *Classifier) {
		c.workers = n
	}
}

// Logger sets the logger fit summaries are written to.
func Logger(l *zap.Logger) func(*Classifier) {
	return func(c *Classifier) {
		c.logger = l
	}
}

// NewClassifier returns a configured/initialized decision tree classifier.
// If no options are passed, the returned Classifier will be equivalent to the
// following call:
//
//	clf := NewClassifier(MaxDepth(Unbounded), Workers(1))
func NewClassifier(options ...func(*Classifier)) *Classifier {
	c := &Classifier{
		MaxDepth: Unbounded,
		workers:  1,
		logger:   zap.NewNop(),
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// Fit constructs a tree from the provided features X, and labels Y,
// replacing any previously fitted tree. The previous tree is kept if Fit
// returns an error.
func (c *Classifier) Fit(X [][]float64, Y []int) error {
	nFeatures, err := checkShape(X, Y)
	if err != nil {
		return err
	}

	classes, yIDs := encodeLabels(Y)

	inx := make([]int, len(Y))
	for i := range inx {
		inx[i] = i
	}

	start := time.Now()
	b := newBuilder(X, yIDs, classes, nFeatures, c.MaxDepth, c.workers)
	nodes, err := b.build(inx, 0)
	if err != nil {
		return errors.Wrap(err, "growing tree")
	}

	c.Tree = &Tree{Nodes: nodes}
	c.NFeatures = nFeatures

	c.log().Debug("fit decision tree",
		zap.Int("samples", len(Y)),
		zap.Int("features", nFeatures),
		zap.Int("classes", len(classes)),
		zap.Int("nodes", len(nodes)),
		zap.Int("leaves", c.Tree.NumLeaves()),
		zap.Int("depth", c.Tree.Depth()),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// PredictOne returns the label of the leaf x falls into.
func (c *Classifier) PredictOne(x []float64) (int, error) {
	if c.Tree == nil || len(c.Tree.Nodes) == 0 {
		return 0, ErrNotFitted
	}
	return c.Tree.predict(x)
}

// Predict returns the predicted label for each example, in row order.
func (c *Classifier) Predict(X [][]float64) ([]int, error) {
	if c.Tree == nil || len(c.Tree.Nodes) == 0 {
		return nil, ErrNotFitted
	}

	p := make([]int, len(X))
	for i := range X {
		label, err := c.Tree.predict(X[i])
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		p[i] = label
	}
	return p, nil
}

// VarImp returns an estimate of the importance of the variables used to fit
// the tree: the entropy decrease contributed by each feature, weighted by the
// samples reaching each split and normalized to sum to 1. All zeros when the
// tree has no splits.
func (c *Classifier) VarImp() []float64 {
	imp := make([]float64, c.NFeatures)
	if c.Tree == nil || len(c.Tree.Nodes) == 0 {
		return imp
	}

	for _, n := range c.Tree.Nodes {
		if !n.Leaf {
			imp[n.Feature] += float64(n.Samples) * n.Gain
		}
	}

	nSamples := float64(c.Tree.Nodes[0].Samples)
	total := 0.0
	for i := range imp {
		imp[i] /= nSamples
		total += imp[i]
	}
	if total <= 0 {
		return imp
	}

	// normalize
	for i := range imp {
		imp[i] /= total
	}

	return imp
}

// Depth returns the depth of the fitted tree, 0 if it is a single leaf or
// the classifier is not fit.
func (c *Classifier) Depth() int {
	if c.Tree == nil {
		return 0
	}
	return c.Tree.Depth()
}

// NumLeaves returns the number of leaves of the fitted tree.
func (c *Classifier) NumLeaves() int {
	if c.Tree == nil {
		return 0
	}
	return c.Tree.NumLeaves()
}

// Save serializes the Classifier using encoding/gob to an io.Writer.
func (c *Classifier) Save(w io.Writer) error {
	e := gob.NewEncoder(w)
	return errors.Wrap(e.Encode(c), "encoding classifier")
}

// Load deserializes the Classifier using encoding/gob from an io.Reader.
// Options that are not serialized, such as the logger, are kept.
func (c *Classifier) Load(r io.Reader) error {
	// gob skips zero values, decode into a zero Classifier so that a saved
	// MaxDepth of 0 is not shadowed by the receiver's default
	var saved Classifier
	d := gob.NewDecoder(r)
	if err := d.Decode(&saved); err != nil {
		return errors.Wrap(err, "decoding classifier")
	}
	c.Tree = saved.Tree
	c.MaxDepth = saved.MaxDepth
	c.NFeatures = saved.NFeatures
	return nil
}

func (c *Classifier) log() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}

// checkShape validates X and Y and returns the number of columns, taken from
// the first row.
func checkShape(X [][]float64, Y []int) (int, error) {
	if len(X) != len(Y) {
		return 0, errors.Wrapf(ErrShapeMismatch, "%d rows, %d labels", len(X), len(Y))
	}
	if len(Y) == 0 {
		return 0, ErrEmptyTrainingSet
	}

	nFeatures := len(X[0])
	for i, row := range X {
		if len(row) != nFeatures {
			return 0, errors.Wrapf(ErrShapeMismatch, "row %d has %d columns, expected %d", i, len(row), nFeatures)
		}
	}
	return nFeatures, nil
}
