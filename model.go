package main

import (
	"encoding/csv"
	"encoding/gob"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/wlattner/dtc/sweep"
	"github.com/wlattner/dtc/tree"
)

// Model is what the fit command saves: the classifier plus what is needed
// to report on it.
type Model struct {
	Clf           *tree.Classifier
	VarNames      []string
	Classes       []int
	TrainAccuracy float64
	Confusion     [][]int // training data, [actual][predicted]
	fitTime       time.Duration
	nSample       int
}

func (m *Model) Fit(d *parsedInput, maxDepth, workers int, logger *zap.Logger) error {
	start := time.Now()

	clf := tree.NewClassifier(tree.MaxDepth(maxDepth), tree.Workers(workers), tree.Logger(logger))
	if err := clf.Fit(d.X, d.Y); err != nil {
		return err
	}
	m.fitTime = time.Since(start)
	m.Clf = clf
	m.VarNames = d.VarNames
	m.nSample = len(d.X)

	pred, err := clf.Predict(d.X)
	if err != nil {
		return errors.Wrap(err, "predicting training data")
	}
	m.Classes = distinct(d.Y)
	m.TrainAccuracy = sweep.Accuracy(d.Y, pred)
	m.Confusion = sweep.ConfusionMatrix(d.Y, pred, m.Classes)
	return nil
}

func (m *Model) Predict(d *parsedInput) ([]int, error) {
	if m.Clf == nil {
		return nil, tree.ErrNotFitted
	}
	if len(d.X) > 0 && len(d.X[0]) != m.Clf.NFeatures {
		return nil, errors.Wrapf(tree.ErrShapeMismatch, "model was fit on %d features, input has %d",
			m.Clf.NFeatures, len(d.X[0]))
	}
	return m.Clf.Predict(d.X)
}

func (m *Model) Report(w io.Writer) {
	// generic stuff
	fmt.Fprintf(w, "Fit tree of depth %d with %d leaves using %d examples in %.2f seconds\n",
		m.Clf.Depth(), m.Clf.NumLeaves(), m.nSample, m.fitTime.Seconds())
	fmt.Fprintf(w, "\n")

	m.ReportVarImp(w, 20)
	m.reportClf(w)
}

func (m *Model) reportClf(w io.Writer) {
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "%s\n", bold("Confusion Matrix (training data)"))
	fmt.Fprintf(w, "--------------------------------\n")
	printConfusion(w, m.Classes, m.Confusion)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Training Accuracy: %s\n", accuracyColor(m.TrainAccuracy)("%.2f%%", 100.0*m.TrainAccuracy))
}

func (m *Model) VarImp() []float64 {
	return m.Clf.VarImp()
}

func (m *Model) SaveVarImp(w io.Writer) error {
	writer := csv.NewWriter(w)

	for i, score := range m.VarImp() {
		err := writer.Write([]string{m.VarNames[i], strconv.FormatFloat(score, 'f', -1, 64)})
		if err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func (m *Model) ReportVarImp(w io.Writer, maxVars int) {
	fmt.Fprintf(w, "%s\n", color.New(color.Bold).Sprint("Variable Importance"))
	fmt.Fprintf(w, "-------------------\n")

	varImp := m.VarImp()
	varNames := make([]string, len(m.VarNames))
	copy(varNames, m.VarNames) // don't sort the orig.
	sortByImportance(varImp, varNames)

	// only show top n
	if maxVars > len(varImp) {
		maxVars = len(varImp)
	}

	for i, imp := range varImp[:maxVars] {
		fmt.Fprintf(w, "%-15s: %-10.2f\n", varNames[i], imp)
	}

	fmt.Fprintf(w, "\n")
}

func (m *Model) Load(r io.Reader) error {
	d := gob.NewDecoder(r)
	return d.Decode(m)
}

func (m *Model) Save(w io.Writer) error {
	e := gob.NewEncoder(w)
	return e.Encode(m)
}

func printConfusion(w io.Writer, classes []int, confusion [][]int) {
	// headers
	fmt.Fprintf(w, "%-14s ", "actual\\pred")
	for _, class := range classes {
		fmt.Fprintf(w, "%-14d ", class)
	}
	fmt.Fprintf(w, "\n")

	// rows
	for actualID, class := range classes {
		fmt.Fprintf(w, "%-14d ", class)

		for predictedID := range classes {
			fmt.Fprintf(w, "%-14d ", confusion[actualID][predictedID])
		}

		fmt.Fprintf(w, "\n")
	}
}

// accuracyColor is green from 90%, yellow from 70%, red below.
func accuracyColor(acc float64) func(format string, a ...interface{}) string {
	switch {
	case acc >= 0.9:
		return color.GreenString
	case acc >= 0.7:
		return color.YellowString
	default:
		return color.RedString
	}
}

func distinct(y []int) []int {
	seen := make(map[int]bool)
	var classes []int
	for _, label := range y {
		if !seen[label] {
			seen[label] = true
			classes = append(classes, label)
		}
	}
	sort.Ints(classes)
	return classes
}

type varImpSort struct {
	varName []string
	imp     []float64
}

func (v varImpSort) Len() int {
	return len(v.imp)
}

func (v varImpSort) Less(i, j int) bool {
	return v.imp[i] < v.imp[j]
}

func (v varImpSort) Swap(i, j int) {
	v.imp[i], v.imp[j] = v.imp[j], v.imp[i]
	v.varName[i], v.varName[j] = v.varName[j], v.varName[i]
}

func sortByImportance(imp []float64, names []string) {
	sort.Stable(sort.Reverse(varImpSort{imp: imp, varName: names}))
}
