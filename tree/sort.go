package tree

// Sorting the feature values at every node bounds the running time of Fit.
// sortPairs is an introsort specialized to a float64 key with a parallel
// label slice, avoiding the interface calls of sort.Sort.

// sortPairs sorts x ascending, applying the same permutation to y.
func sortPairs(x []float64, y []int) {
	maxDepth := 0
	for i := len(x); i > 0; i >>= 1 {
		maxDepth++
	}
	introSort(x, y, 0, len(x), 2*maxDepth)
}

func swapPair(x []float64, y []int, i, j int) {
	x[i], x[j] = x[j], x[i]
	y[i], y[j] = y[j], y[i]
}

func introSort(x []float64, y []int, lo, hi, maxDepth int) {
	for hi-lo > 12 {
		if maxDepth == 0 {
			heapSort(x, y, lo, hi)
			return
		}
		maxDepth--
		p := partition(x, y, lo, hi)
		// recurse on the smaller side, loop on the larger
		if p-lo < hi-p-1 {
			introSort(x, y, lo, p, maxDepth)
			lo = p + 1
		} else {
			introSort(x, y, p+1, hi, maxDepth)
			hi = p
		}
	}
	insertionSort(x, y, lo, hi)
}

func insertionSort(x []float64, y []int, lo, hi int) {
	for i := lo + 1; i < hi; i++ {
		for j := i; j > lo && x[j] < x[j-1]; j-- {
			swapPair(x, y, j, j-1)
		}
	}
}

// partition places the median of three as pivot at its final position p,
// with x[lo:p] <= pivot <= x[p+1:hi].
func partition(x []float64, y []int, lo, hi int) int {
	mid := lo + (hi-lo)/2
	last := hi - 1
	if x[mid] < x[lo] {
		swapPair(x, y, mid, lo)
	}
	if x[last] < x[lo] {
		swapPair(x, y, last, lo)
	}
	if x[last] < x[mid] {
		swapPair(x, y, last, mid)
	}
	// x[lo] <= x[mid] <= x[last]; park the pivot next to last
	swapPair(x, y, mid, last-1)
	pivot := x[last-1]

	i, j := lo, last-1
	for {
		for i++; x[i] < pivot; i++ {
		}
		for j--; pivot < x[j]; j-- {
		}
		if i >= j {
			break
		}
		swapPair(x, y, i, j)
	}
	swapPair(x, y, i, last-1)
	return i
}

func heapSort(x []float64, y []int, lo, hi int) {
	n := hi - lo
	for i := (n - 1) / 2; i >= 0; i-- {
		siftDown(x, y, i, n, lo)
	}
	for i := n - 1; i >= 0; i-- {
		swapPair(x, y, lo, lo+i)
		siftDown(x, y, 0, i, lo)
	}
}

// siftDown restores the max-heap property of x[first+root:first+n].
func siftDown(x []float64, y []int, root, n, first int) {
	for {
		child := 2*root + 1
		if child >= n {
			return
		}
		if child+1 < n && x[first+child] < x[first+child+1] {
			child++
		}
		if !(x[first+root] < x[first+child]) {
			return
		}
		swapPair(x, y, first+root, first+child)
		root = child
	}
}
