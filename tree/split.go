package tree

import (
	"math"

	"github.com/pkg/errors"
)

// NoFeature is reported by BestSplit when no feature improves on zero
// information gain.
const NoFeature = -1

// BestThreshold finds the split point on a single feature that maximizes the
// information gain over labels. Candidate thresholds are the midpoints
// between consecutive distinct values. Only a gain strictly greater than
// zero is accepted; when there is none the returned threshold and gain are
// both 0.
func BestThreshold(values []float64, labels []int) (threshold float64, gain float64, err error) {
	if len(values) != len(labels) {
		return 0, 0, errors.Wrapf(ErrShapeMismatch, "%d values, %d labels", len(values), len(labels))
	}
	if len(labels) == 0 {
		return 0, 0, ErrEmptyLabels
	}

	classes, yIDs := encodeLabels(labels)
	ct := make([]int, len(classes))
	for _, id := range yIDs {
		ct[id]++
	}

	s := newSearcher(len(labels), len(classes))
	copy(s.x, values)
	copy(s.y, yIDs)

	threshold, gain = s.bestThreshold(ct, entropy(len(labels), ct))
	return threshold, gain, nil
}

// BestSplit runs BestThreshold on every column of X and returns the feature,
// threshold and gain of the best one. Columns are visited in order and only a
// strictly greater gain replaces the current best, so the first of several
// equally good features wins. feature is NoFeature if no column has a
// positive gain.
func BestSplit(X [][]float64, Y []int) (feature int, threshold float64, gain float64, err error) {
	nFeatures, err := checkShape(X, Y)
	if err != nil {
		return NoFeature, 0, 0, err
	}

	classes, yIDs := encodeLabels(Y)
	ct := make([]int, len(classes))
	for _, id := range yIDs {
		ct[id]++
	}

	inx := make([]int, len(Y))
	for i := range inx {
		inx[i] = i
	}

	s := newSearcher(len(Y), len(classes))
	sp := s.bestSplit(X, yIDs, inx, nFeatures, ct, entropy(len(Y), ct))
	return sp.feature, sp.val, sp.gain, nil
}

type split struct {
	feature int
	val     float64
	gain    float64
}

// searcher holds the working buffers for the threshold search at one node.
// It is not safe for concurrent use; each node being expanded gets its own.
type searcher struct {
	x        []float64
	y        []int
	classCtL []int
	classCtR []int
}

func newSearcher(n, nClasses int) *searcher {
	return &searcher{
		x:        make([]float64, n),
		y:        make([]int, n),
		classCtL: make([]int, nClasses),
		classCtR: make([]int, nClasses),
	}
}

// load copies column feature of the rows in inx, along with their class ids,
// into the buffers.
func (s *searcher) load(X [][]float64, Y []int, inx []int, feature int) {
	s.x = s.x[:len(inx)]
	s.y = s.y[:len(inx)]
	for i, id := range inx {
		s.x[i] = X[id][feature]
		s.y[i] = Y[id]
	}
}

func (s *searcher) bestSplit(X [][]float64, Y []int, inx []int, nFeatures int, ct []int, parent float64) split {
	best := split{feature: NoFeature}
	for f := 0; f < nFeatures; f++ {
		s.load(X, Y, inx, f)
		v, d := s.bestThreshold(ct, parent)
		if d > best.gain {
			best = split{feature: f, val: v, gain: d}
		}
	}
	return best
}

// bestThreshold sorts the loaded values and scans the boundaries between
// distinct values. ct holds the class counts of the loaded rows and parent
// their entropy.
func (s *searcher) bestThreshold(ct []int, parent float64) (float64, float64) {
	var vBest, dBest float64

	n := len(s.x)
	sortPairs(s.x, s.y)

	for i := range s.classCtL {
		s.classCtL[i] = 0
	}
	copy(s.classCtR, ct)

	nLeft := 0
	nRight := n

	for i := 1; i < n; i++ {
		// move example i-1 from the right side to the left side
		yVal := s.y[i-1]
		nLeft++
		s.classCtL[yVal]++
		nRight--
		s.classCtR[yVal]--

		if s.x[i] == s.x[i-1] {
			continue // can't split between equal values
		}

		child := float64(nLeft)*entropy(nLeft, s.classCtL) + float64(nRight)*entropy(nRight, s.classCtR)
		child /= float64(n)

		if d := parent - child; d > dBest {
			dBest = d
			vBest = midpoint(s.x[i-1], s.x[i])
		}
	}
	return vBest, dBest
}


// midpoint returns a threshold t with lo <= t < hi, the plain average
// whenever that is representable.
func midpoint(lo, hi float64) float64 {
	t := (lo + hi) / 2.0
	if math.IsInf(t, 0) {
		t = lo/2 + hi/2
	}
	if t >= hi {
		t = lo
	}
	return t
}
