package sweep

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// Split is a set of examples and their labels.
type Split struct {
	X [][]float64
	Y []int
}

// TrainTest shuffles the examples with a generator seeded by seed and puts
// round(testSize * n) of them in the test split, the rest in the training
// split. The same seed always produces the same splits. Rows are shared with
// X, not copied.
func TrainTest(X [][]float64, Y []int, testSize float64, seed int64) (*Split, *Split, error) {
	if len(X) != len(Y) {
		return nil, nil, errors.Errorf("sweep: %d rows, %d labels", len(X), len(Y))
	}
	if testSize < 0 || testSize >= 1 {
		return nil, nil, errors.Errorf("sweep: test size %v outside [0, 1)", testSize)
	}

	nTest := int(math.Round(testSize * float64(len(Y))))
	if nTest == len(Y) {
		nTest--
	}

	r := rand.New(rand.NewSource(seed))
	perm := r.Perm(len(Y))

	test := &Split{}
	train := &Split{}
	for i, id := range perm {
		s := train
		if i < nTest {
			s = test
		}
		s.X = append(s.X, X[id])
		s.Y = append(s.Y, Y[id])
	}

	if len(train.Y) == 0 {
		return nil, nil, errors.New("sweep: empty training split")
	}
	return train, test, nil
}
