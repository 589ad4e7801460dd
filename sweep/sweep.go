// sweep evaluates decision tree classifiers over a range of maximum depths.
//
// A Sweep fits one tree.Classifier per configured depth on the training
// split, then scores each on both the training and the test split. Fits run
// on a pool of workers; results are returned in the order of the configured
// depths regardless of which worker finished first.
package sweep

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/wlattner/dtc/tree"
)

// DefaultDepths are the maximum depths evaluated when none are configured.
var DefaultDepths = []int{1, 2, 3, 4, 5, 6, 7, tree.Unbounded}

type Sweep struct {
	Depths      []int
	nWorkers    int
	treeWorkers int
	logger      *zap.Logger
}

// Result holds the scores of the classifier fit with MaxDepth.
type Result struct {
	MaxDepth      int
	Depth         int // depth of the fitted tree
	Leaves        int
	TrainAccuracy float64
	TestAccuracy  float64
	Classes       []int   // labels indexing ConfusionMatrix
	Confusion     [][]int // test split, [actual][predicted]
	FitTime       time.Duration
	Classifier    *tree.Classifier
}

// Depths sets the maximum depths to evaluate, tree.Unbounded included.
func Depths(d ...int) func(*Sweep) {
	return func(s *Sweep) {
		s.Depths = d
	}
}

// NumWorkers sets the number of classifiers fit concurrently.
func NumWorkers(n int) func(*Sweep) {
	return func(s *Sweep) {
		s.nWorkers = n
	}
}

// TreeWorkers sets the goroutines each classifier uses to grow subtrees.
func TreeWorkers(n int) func(*Sweep) {
	return func(s *Sweep) {
		s.treeWorkers = n
	}
}

// Logger sets the logger progress is reported to.
func Logger(l *zap.Logger) func(*Sweep) {
	return func(s *Sweep) {
		s.logger = l
	}
}

// New returns a configured Sweep. If no options are passed, the returned
// Sweep will be equivalent to the following call:
//
//	s := New(Depths(DefaultDepths...), NumWorkers(1), TreeWorkers(1))
func New(options ...func(*Sweep)) *Sweep {
	s := &Sweep{
		Depths:      DefaultDepths,
		nWorkers:    1,
		treeWorkers: 1,
		logger:      zap.NewNop(),
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

type fitJob struct {
	i   int
	res *Result
	err error
}

// Run fits a classifier per depth on the training split and evaluates it on
// both splits.
func (s *Sweep) Run(train, test *Split) ([]*Result, error) {
	if len(s.Depths) == 0 {
		return nil, errors.New("sweep: no depths to evaluate")
	}

	classes := labelSet(train.Y, test.Y)

	in := make(chan *fitJob)
	out := make(chan *fitJob)

	nWorkers := s.nWorkers
	if nWorkers < 1 {
		nWorkers = 1
	}

	// start workers
	for i := 0; i < nWorkers; i++ {
		go func() {
			for w := range in {
				w.res, w.err = s.evaluate(s.Depths[w.i], train, test, classes)
				out <- w
			}
		}()
	}

	// fill the queue
	go func() {
		for i := range s.Depths {
			in <- &fitJob{i: i}
		}
		close(in)
	}()

	results := make([]*Result, len(s.Depths))
	var firstErr error
	for range s.Depths {
		w := <-out
		if w.err != nil && firstErr == nil {
			firstErr = errors.Wrapf(w.err, "max depth %d", s.Depths[w.i])
		}
		results[w.i] = w.res
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

func (s *Sweep) evaluate(maxDepth int, train, test *Split, classes []int) (*Result, error) {
	clf := tree.NewClassifier(tree.MaxDepth(maxDepth), tree.Workers(s.treeWorkers),
		tree.Logger(s.logger))

	start := time.Now()
	if err := clf.Fit(train.X, train.Y); err != nil {
		return nil, err
	}
	res := &Result{
		MaxDepth:   maxDepth,
		Depth:      clf.Depth(),
		Leaves:     clf.NumLeaves(),
		Classes:    classes,
		FitTime:    time.Since(start),
		Classifier: clf,
	}

	trainPred, err := clf.Predict(train.X)
	if err != nil {
		return nil, errors.Wrap(err, "predicting training split")
	}
	res.TrainAccuracy = Accuracy(train.Y, trainPred)

	if len(test.Y) > 0 {
		testPred, err := clf.Predict(test.X)
		if err != nil {
			return nil, errors.Wrap(err, "predicting test split")
		}
		res.TestAccuracy = Accuracy(test.Y, testPred)
		res.Confusion = ConfusionMatrix(test.Y, testPred, classes)
	}

	s.logger.Debug("evaluated max depth",
		zap.Int("max_depth", maxDepth),
		zap.Int("depth", res.Depth),
		zap.Float64("train_accuracy", res.TrainAccuracy),
		zap.Float64("test_accuracy", res.TestAccuracy),
		zap.Duration("fit_time", res.FitTime),
	)
	return res, nil
}
