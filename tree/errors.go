package tree

import "github.com/pkg/errors"

var (
	// ErrShapeMismatch is returned by Fit and the split searches when the
	// feature matrix and the labels disagree on the number of rows, or when
	// the rows of the matrix do not all have the same length.
	ErrShapeMismatch = errors.New("tree: shape mismatch")

	// ErrEmptyTrainingSet is returned by Fit when there are no samples.
	ErrEmptyTrainingSet = errors.New("tree: empty training set")

	// ErrEmptyLabels is returned when an impurity is requested for an empty
	// set of labels.
	ErrEmptyLabels = errors.New("tree: empty label set")

	// ErrNotFitted is returned by the prediction methods of a Classifier that
	// has not been fit.
	ErrNotFitted = errors.New("tree: classifier has not been fit")

	// ErrFeatureOutOfRange is returned when a sample is too short for a
	// feature referenced by the tree.
	ErrFeatureOutOfRange = errors.New("tree: feature index out of range")
)
