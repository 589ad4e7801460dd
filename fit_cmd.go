package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type fitCmdConfig struct {
	*rootCmdConfig
	dataFile   string
	modelFile  string
	varImpFile string
	maxDepth   int
	workers    int
}

func fitCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &fitCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "grow a decision tree from labeled data",
		Long:  `Grow a decision tree from a CSV file whose first column is an integer class label and save it to a model file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max-depth") {
				config.maxDepth = config.cfg.MaxDepth
			}
			if !cmd.Flags().Changed("workers") {
				config.workers = config.cfg.Workers
			}
			if config.workers < 1 {
				return usageError(cmd, "--workers must be at least 1, got %d", config.workers)
			}
			return config.run()
		},
	}
	cmd.Flags().StringVarP(&config.dataFile, "data", "d", "", "example data, defaults to stdin")
	cmd.Flags().StringVarP(&config.modelFile, "model", "f", "dtc.model", "file to save fitted model")
	cmd.Flags().StringVar(&config.varImpFile, "var-importance", "", "file to save variable importance estimates")
	cmd.Flags().IntVar(&config.maxDepth, "max-depth", 0, "maximum depth of the tree, -1 for unbounded")
	cmd.Flags().IntVar(&config.workers, "workers", 1, "number of subtrees to build concurrently")
	return cmd
}

func (fc *fitCmdConfig) run() error {
	d, err := readInput(fc.dataFile, true)
	if err != nil {
		return err
	}
	fc.logger.Info("read training data",
		zap.Int("examples", len(d.X)),
		zap.Int("features", len(d.VarNames)),
	)

	m := new(Model)
	if err := m.Fit(d, fc.maxDepth, fc.workers, fc.logger); err != nil {
		return errors.Wrap(err, "fitting model")
	}
	m.Report(os.Stderr)

	if err := saveFile(fc.modelFile, m.Save); err != nil {
		return errors.Wrap(err, "saving model")
	}
	fc.logger.Info("saved model", zap.String("path", fc.modelFile))

	if fc.varImpFile != "" {
		if err := saveFile(fc.varImpFile, m.SaveVarImp); err != nil {
			return errors.Wrap(err, "saving variable importance")
		}
	}
	return nil
}
