package tree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func h2(p float64) float64 {
	return -(p*math.Log2(p) + (1-p)*math.Log2(1-p))
}

func TestBestThreshold(t *testing.T) {
	xi := []float64{0.6462220030737842, 0.08918780255911574, 0.5621969807319502, 0.097704546453666, 0.15739526725378827, 0.9244669313190392, 0.1772808696619108, 0.47001967423520297, 0.8020611535912714, 0.6055333992245421}
	y := []int{1, 0, 1, 0, 0, 0, 0, 0, 1, 1}

	sp, gain, err := BestThreshold(xi, y)
	require.NoError(t, err)

	spActual := (0.47001967423520297 + 0.5621969807319502) / 2.0
	if sp != spActual {
		t.Error("expected split to be:", spActual, " got:", sp)
	}
	// left: five 0s, right: four 1s and a 0
	gainActual := h2(0.4) - 0.5*h2(0.2)
	if math.Abs(gain-gainActual) > 1e-6 {
		t.Error("expected gain to be:", gainActual, "got:", gain)
	}
}

func TestBestThresholdConstant(t *testing.T) {
	xi := []float64{1.1, 1.1, 1.1, 1.1, 1.1, 1.1, 1.1, 1.1, 1.1, 1.1}
	y := []int{0, 0, 0, 0, 0, 1, 1, 1, 1, 0}

	sp, gain, err := BestThreshold(xi, y)
	require.NoError(t, err)

	spActual := 0.0 // feature is constant, should be no split
	if sp != spActual {
		t.Error("expected split to be:", spActual, " got:", sp)
	}
	gainActual := 0.0 // no split, no gain
	if gain != gainActual {
		t.Error("expected gain to be:", gainActual, "got:", gain)
	}
}

func TestBestThresholdSomeConstant(t *testing.T) {
	xi := []float64{0.08918780255911574, 0.09, 0.09, 0.09, 0.47001967423520297, 0.5621969807319502, 0.6055333992245421, 0.6462220030737842, 0.8020611535912714, 0.9244669313190392}
	y := []int{0, 0, 0, 0, 0, 1, 1, 1, 1, 0}

	sp, gain, err := BestThreshold(xi, y)
	require.NoError(t, err)

	spActual := (xi[4] + xi[5]) / 2.0
	if sp != spActual {
		t.Error("expected split to be:", spActual, " got:", sp)
	}
	gainActual := h2(0.4) - 0.5*h2(0.2)
	if math.Abs(gain-gainActual) > 1e-6 {
		t.Error("expected gain to be:", gainActual, "got:", gain)
	}
}

func TestBestThresholdNeverBetweenEqualValues(t *testing.T) {
	// the only label change happens inside a run of equal values
	xi := []float64{1, 2, 2, 2, 3}
	y := []int{0, 0, 1, 1, 1}

	sp, gain, err := BestThreshold(xi, y)
	require.NoError(t, err)
	assert.Equal(t, 1.5, sp)
	assert.Greater(t, gain, 0.0)
}

func TestBestThresholdLargeValues(t *testing.T) {
	sp, gain, err := BestThreshold([]float64{1.5e308, 1e308}, []int{1, 0})
	require.NoError(t, err)
	assert.False(t, math.IsInf(sp, 0))
	assert.GreaterOrEqual(t, sp, 1e308)
	assert.Less(t, sp, 1.5e308)
	assert.InDelta(t, 1.0, gain, 1e-9)

	clf := NewClassifier()
	require.NoError(t, clf.Fit([][]float64{{1e308}, {1.5e308}}, []int{0, 1}))
	pred, err := clf.Predict([][]float64{{1e308}, {1.5e308}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, pred)
}

func TestBestThresholdAdjacentValues(t *testing.T) {
	lo := 1.0
	hi := math.Nextafter(lo, 2)

	sp, _, err := BestThreshold([]float64{lo, hi}, []int{0, 1})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sp, lo)
	assert.Less(t, sp, hi)

	clf := NewClassifier()
	require.NoError(t, clf.Fit([][]float64{{lo}, {hi}}, []int{0, 1}))
	assert.Equal(t, 2, clf.NumLeaves())
}

func TestMidpoint(t *testing.T) {
	assert.Equal(t, 2.5, midpoint(2, 3))
	assert.InEpsilon(t, 1.25e308, midpoint(1e308, 1.5e308), 1e-12)
	assert.InEpsilon(t, -1.25e308, midpoint(-1.5e308, -1e308), 1e-12)
}

func TestBestThresholdPureLabels(t *testing.T) {
	sp, gain, err := BestThreshold([]float64{1, 2, 3}, []int{4, 4, 4})
	require.NoError(t, err)
	assert.Equal(t, 0.0, sp)
	assert.Equal(t, 0.0, gain)
}

func TestBestThresholdDoesNotModifyInput(t *testing.T) {
	xi := []float64{3, 1, 2}
	y := []int{1, 0, 0}
	_, _, err := BestThreshold(xi, y)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, xi)
	assert.Equal(t, []int{1, 0, 0}, y)
}

func TestBestThresholdErrors(t *testing.T) {
	_, _, err := BestThreshold([]float64{1, 2}, []int{0})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, _, err = BestThreshold(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyLabels)
}

func TestBestSplit(t *testing.T) {
	X := [][]float64{
		{7, 1},
		{7, 2},
		{7, 3},
		{7, 4},
	}
	y := []int{0, 0, 1, 1}

	feature, threshold, gain, err := BestSplit(X, y)
	require.NoError(t, err)
	assert.Equal(t, 1, feature)
	assert.Equal(t, 2.5, threshold)
	assert.InDelta(t, 1.0, gain, 1e-9)
}

func TestBestSplitTieKeepsFirstFeature(t *testing.T) {
	X := [][]float64{
		{1, 10},
		{2, 20},
		{3, 30},
		{4, 40},
	}
	y := []int{0, 0, 1, 1}

	feature, threshold, _, err := BestSplit(X, y)
	require.NoError(t, err)
	assert.Equal(t, 0, feature)
	assert.Equal(t, 2.5, threshold)
}

func TestBestSplitNone(t *testing.T) {
	X := [][]float64{{5, 1}, {5, 1}, {5, 1}}
	y := []int{0, 1, 0}

	feature, threshold, gain, err := BestSplit(X, y)
	require.NoError(t, err)
	assert.Equal(t, NoFeature, feature)
	assert.Equal(t, 0.0, threshold)
	assert.Equal(t, 0.0, gain)
}

func TestBestSplitShape(t *testing.T) {
	_, _, _, err := BestSplit([][]float64{{1}, {2, 3}}, []int{0, 1})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, _, _, err = BestSplit([][]float64{{1}}, []int{0, 1})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, _, _, err = BestSplit(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyTrainingSet)
}
