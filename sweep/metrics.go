package sweep

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Accuracy returns the fraction of predictions equal to the actual labels.
func Accuracy(actual, predicted []int) float64 {
	if len(actual) == 0 {
		return 0
	}
	hits := make([]float64, len(actual))
	for i := range actual {
		if actual[i] == predicted[i] {
			hits[i] = 1
		}
	}
	return stat.Mean(hits, nil)
}

// ConfusionMatrix counts predictions by actual label (rows) and predicted
// label (columns), both indexed by position in classes. Labels not in classes
// are skipped.
func ConfusionMatrix(actual, predicted []int, classes []int) [][]int {
	pos := make(map[int]int, len(classes))
	for i, c := range classes {
		pos[c] = i
	}

	confMat := make([][]int, len(classes))
	for i := range confMat {
		confMat[i] = make([]int, len(classes))
	}

	for i := range actual {
		a, okA := pos[actual[i]]
		p, okP := pos[predicted[i]]
		if okA && okP {
			confMat[a][p]++
		}
	}
	return confMat
}

// labelSet returns the distinct labels of all the given slices, ascending.
func labelSet(ys ...[]int) []int {
	uniq := make(map[int]bool)
	for _, y := range ys {
		for _, label := range y {
			uniq[label] = true
		}
	}
	classes := make([]int, 0, len(uniq))
	for label := range uniq {
		classes = append(classes, label)
	}
	sort.Ints(classes)
	return classes
}
