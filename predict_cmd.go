package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wlattner/dtc/sweep"
)

type predictCmdConfig struct {
	*rootCmdConfig
	dataFile  string
	modelFile string
	predFile  string
	unlabeled bool
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "predict class labels with a fitted tree",
		Long:  `Predict a class label for every row of a CSV file using a model saved by fit. Rows are expected to carry a label in the first column unless --unlabeled is set; given labels are only used to log the accuracy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.modelFile == "" {
				return usageError(cmd, "a model file is required")
			}
			return config.run()
		},
	}
	cmd.Flags().StringVarP(&config.dataFile, "data", "d", "", "example data, defaults to stdin")
	cmd.Flags().StringVarP(&config.modelFile, "model", "f", "dtc.model", "file with a fitted model")
	cmd.Flags().StringVarP(&config.predFile, "predictions", "p", "", "file to output predictions, defaults to stdout")
	cmd.Flags().BoolVar(&config.unlabeled, "unlabeled", false, "input rows have no label column")
	return cmd
}

func (pc *predictCmdConfig) run() error {
	m, err := loadModel(pc.modelFile)
	if err != nil {
		return err
	}

	d, err := readInput(pc.dataFile, !pc.unlabeled)
	if err != nil {
		return err
	}

	pred, err := m.Predict(d)
	if err != nil {
		return errors.Wrap(err, "predicting")
	}

	if d.Y != nil {
		pc.logger.Info("prediction accuracy",
			zap.Int("examples", len(pred)),
			zap.Float64("accuracy", sweep.Accuracy(d.Y, pred)),
		)
	}

	out, err := createOutput(pc.predFile)
	if err != nil {
		return err
	}
	if err := writePred(out, pred); err != nil {
		out.Close()
		return errors.Wrap(err, "writing predictions")
	}
	return errors.Wrap(out.Close(), "closing predictions")
}
