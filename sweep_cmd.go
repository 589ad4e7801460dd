package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wlattner/dtc/sweep"
)

type sweepCmdConfig struct {
	*rootCmdConfig
	dataFile    string
	depths      []int
	testSize    float64
	seed        int64
	workers     int
	treeWorkers int
	confusion   bool
}

func sweepCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &sweepCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "compare tree depths on a train/test split",
		Long:  `Split labeled data into a training and a test set, fit one tree per maximum depth on the training set and report the accuracy of each on both sets.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("depths") {
				config.depths = config.cfg.Sweep.Depths
			}
			if !flags.Changed("test-size") {
				config.testSize = config.cfg.Sweep.TestSize
			}
			if !flags.Changed("seed") {
				config.seed = config.cfg.Sweep.Seed
			}
			if !flags.Changed("workers") {
				config.workers = config.cfg.Sweep.Workers
			}
			if !flags.Changed("tree-workers") {
				config.treeWorkers = config.cfg.Workers
			}
			if len(config.depths) == 0 {
				return usageError(cmd, "at least one depth is required")
			}
			if config.workers < 1 || config.treeWorkers < 1 {
				return usageError(cmd, "--workers and --tree-workers must be at least 1")
			}
			return config.run(os.Stdout)
		},
	}
	cmd.Flags().StringVarP(&config.dataFile, "data", "d", "", "example data, defaults to stdin")
	cmd.Flags().IntSliceVar(&config.depths, "depths", nil, "maximum depths to evaluate, -1 for unbounded")
	cmd.Flags().Float64Var(&config.testSize, "test-size", 0.5, "fraction of examples held out for testing")
	cmd.Flags().Int64Var(&config.seed, "seed", 42, "seed for shuffling examples before splitting")
	cmd.Flags().IntVar(&config.workers, "workers", 1, "number of trees to fit concurrently")
	cmd.Flags().IntVar(&config.treeWorkers, "tree-workers", 1, "number of subtrees each fit builds concurrently")
	cmd.Flags().BoolVar(&config.confusion, "confusion", false, "print the test confusion matrix of the best depth")
	return cmd
}

func (sc *sweepCmdConfig) run(w io.Writer) error {
	d, err := readInput(sc.dataFile, true)
	if err != nil {
		return err
	}

	train, test, err := sweep.TrainTest(d.X, d.Y, sc.testSize, sc.seed)
	if err != nil {
		return errors.Wrap(err, "splitting data")
	}
	sc.logger.Info("split data",
		zap.Int("train", len(train.Y)),
		zap.Int("test", len(test.Y)),
		zap.Int64("seed", sc.seed),
	)

	s := sweep.New(
		sweep.Depths(sc.depths...),
		sweep.NumWorkers(sc.workers),
		sweep.TreeWorkers(sc.treeWorkers),
		sweep.Logger(sc.logger),
	)
	results, err := s.Run(train, test)
	if err != nil {
		return errors.Wrap(err, "running sweep")
	}

	reportSweep(w, results)
	if sc.confusion && len(test.Y) > 0 {
		reportConfusion(w, results[bestResult(results)])
	}
	return nil
}

// reportSweep prints one line per depth, the best test accuracy highlighted.
func reportSweep(w io.Writer, results []*sweep.Result) {
	best := bestResult(results)
	highlight := color.New(color.FgGreen, color.Bold)

	for i, res := range results {
		line := fmt.Sprintf("Depth: %-4s | Train Acc = %.10f | Test Acc = %.10f",
			depthName(res.MaxDepth), res.TrainAccuracy, res.TestAccuracy)
		if i == best {
			highlight.Fprintln(w, line)
			continue
		}
		fmt.Fprintln(w, line)
	}
}

func reportConfusion(w io.Writer, res *sweep.Result) {
	fmt.Fprintf(w, "\n%s\n", color.New(color.Bold).Sprintf("Confusion Matrix (test data, depth %s)", depthName(res.MaxDepth)))
	printConfusion(w, res.Classes, res.Confusion)
}

// bestResult returns the index of the highest test accuracy, the first one
// on ties.
func bestResult(results []*sweep.Result) int {
	best := 0
	for i, res := range results {
		if res.TestAccuracy > results[best].TestAccuracy {
			best = i
		}
	}
	return best
}

// depthName prints any negative depth, unbounded, as None.
func depthName(maxDepth int) string {
	if maxDepth < 0 {
		return "None"
	}
	return strconv.Itoa(maxDepth)
}
