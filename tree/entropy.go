package tree

import (
	"math"
	"sort"
)

// epsilon keeps log2 away from zero.
const epsilon = 1e-10

// Entropy returns the impurity of a multiset of class labels,
//
//	e = - sum over k p(c_k) log2(p(c_k) + 1e-10)
//
// where p(c_k) is the empirical probability of each distinct label.
func Entropy(labels []int) (float64, error) {
	if len(labels) == 0 {
		return 0, ErrEmptyLabels
	}
	classes, yIDs := encodeLabels(labels)
	ct := make([]int, len(classes))
	for _, id := range yIDs {
		ct[id]++
	}
	return entropy(len(labels), ct), nil
}

// entropy from class counts; ct is indexed by class id, ids are assigned in
// ascending label order so the sum runs over labels in ascending order.
func entropy(n int, ct []int) float64 {
	e := 0.0
	for _, c := range ct {
		if c > 0 {
			p := float64(c) / float64(n)
			e -= p * math.Log2(p+epsilon)
		}
	}
	return e
}

// encodeLabels maps labels to dense class ids. classes[id] is the label for
// id, and classes is sorted ascending.
func encodeLabels(Y []int) ([]int, []int) {
	uniq := make(map[int]int)
	for _, y := range Y {
		uniq[y] = 0
	}

	classes := make([]int, 0, len(uniq))
	for y := range uniq {
		classes = append(classes, y)
	}
	sort.Ints(classes)

	for id, y := range classes {
		uniq[y] = id
	}

	yIDs := make([]int, len(Y))
	for i, y := range Y {
		yIDs[i] = uniq[y]
	}
	return classes, yIDs
}

// majority returns the id with the highest count, the lowest id wins ties.
func majority(ct []int) int {
	maxCt := -1
	maxC := 0
	for class, count := range ct {
		if count > maxCt {
			maxCt = count
			maxC = class
		}
	}
	return maxC
}

// pure reports whether exactly one class has a non-zero count, and which.
func pure(ct []int) (int, bool) {
	class := -1
	for id, c := range ct {
		if c == 0 {
			continue
		}
		if class >= 0 {
			return 0, false
		}
		class = id
	}
	return class, class >= 0
}
