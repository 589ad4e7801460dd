package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type parsedInput struct {
	X        [][]float64
	Y        []int // nil when parsed without labels
	VarNames []string
}

// parse csv file, detect if first row is header/has var names. When labeled
// is true the first column holds integer class labels and the rest are
// features, otherwise every column is a feature.
func parseCSV(r io.Reader, labeled bool) (*parsedInput, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	p := &parsedInput{}

	// grab first row
	row, err := reader.Read()
	if err != nil {
		return p, errors.Wrap(err, "reading first row")
	}

	first := 0
	if labeled {
		first = 1
	}

	// check if it's a header row
	varNames, err := parseHeader(row[first:])
	if err == nil {
		p.VarNames = varNames
	} else {
		// use X1, X2,...Xn for var names
		for i := range row[first:] {
			p.VarNames = append(p.VarNames, fmt.Sprintf("X%d", i+1))
		}

		// parse row
		err = p.parseRow(row, labeled, 1)
		if err != nil {
			return p, err
		}
	}

	// keep reading rows until EOF
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return p, errors.Wrapf(err, "reading line %d", line)
		}

		err = p.parseRow(row, labeled, line)
		if err != nil {
			return p, err
		}
	}

	if len(p.X) == 0 {
		return p, errors.New("no examples in input")
	}

	return p, nil
}

func (p *parsedInput) parseRow(row []string, labeled bool, line int) error {
	if labeled {
		if len(row) < 1 {
			return errors.Errorf("line %d: empty row", line)
		}
		yi, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return errors.Wrapf(err, "line %d: label must be an integer", line)
		}
		p.Y = append(p.Y, yi)
		row = row[1:]
	}

	xi, err := parseFeatureVals(row)
	if err != nil {
		return errors.Wrapf(err, "line %d", line)
	}
	p.X = append(p.X, xi)

	return nil
}

func parseFeatureVals(row []string) ([]float64, error) {
	xi := make([]float64, 0, len(row))
	for _, val := range row {
		fv, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return xi, err
		}
		if math.IsNaN(fv) || math.IsInf(fv, 0) {
			return xi, errors.Errorf("non-finite value %q", val)
		}
		xi = append(xi, fv)
	}
	return xi, nil
}

func parseHeader(row []string) ([]string, error) {
	colNames := []string{}

	// we only accept numeric input values, so we can consider the first row
	// as a header row if one or more of the values isn't a number
	isHeader := false
	for _, val := range row {
		if _, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err != nil {
			isHeader = true
		}
		colNames = append(colNames, val)
	}
	if !isHeader {
		return nil, errors.New("not a header row")
	}

	return colNames, nil
}
