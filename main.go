package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultConfigPath = "dtc.yaml"

type rootCmdConfig struct {
	verbose    bool
	runProfile bool
	configPath string

	cfg    Config
	logger *zap.Logger
	prof   interface{ Stop() }
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{logger: zap.NewNop()}
	rootCmd := &cobra.Command{
		Use:           "dtc",
		Short:         "dtc fits and evaluates decision tree classifiers",
		Long:          `A tool to grow binary decision trees from numeric CSV data, use them to make predictions, and compare tree depths on a train/test split.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			config.teardown()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&config.verbose, "verbose", "v", false, "log progress to stderr")
	rootCmd.PersistentFlags().BoolVar(&config.runProfile, "profile", false, "write a cpu profile to the working directory")
	rootCmd.PersistentFlags().StringVarP(&config.configPath, "config", "c", defaultConfigPath, "path to a YAML config file")
	rootCmd.AddCommand(fitCmd(config), predictCmd(config), showCmd(config), sweepCmd(config))
	return rootCmd
}

func (rc *rootCmdConfig) setup(cmd *cobra.Command) error {
	logger, err := newLogger(rc.verbose)
	if err != nil {
		return errors.Wrap(err, "creating logger")
	}
	rc.logger = logger

	// only an explicitly given config file has to exist
	cfg, err := loadConfig(rc.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	rc.cfg = cfg
	rc.logger.Debug("loaded config", zap.String("path", rc.configPath), zap.Any("config", cfg))

	if rc.runProfile {
		rc.prof = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet)
	}
	return nil
}

func (rc *rootCmdConfig) teardown() {
	if rc.prof != nil {
		rc.prof.Stop()
	}
	_ = rc.logger.Sync()
}

func loadModel(fName string) (*Model, error) {
	f, err := os.Open(fName)
	if err != nil {
		return nil, errors.Wrap(err, "opening model file")
	}
	defer f.Close()

	m := new(Model)
	if err := m.Load(f); err != nil {
		return nil, errors.Wrapf(err, "loading model from %s", fName)
	}
	return m, nil
}

func readInput(fName string, labeled bool) (*parsedInput, error) {
	var r io.Reader = os.Stdin
	if fName != "" && fName != "-" {
		f, err := os.Open(fName)
		if err != nil {
			return nil, errors.Wrap(err, "opening data file")
		}
		defer f.Close()
		r = f
	}

	d, err := parseCSV(r, labeled)
	if err != nil {
		return nil, errors.Wrap(err, "parsing input data")
	}
	return d, nil
}

// createOutput returns stdout for an empty name or "-".
func createOutput(fName string) (io.WriteCloser, error) {
	if fName == "" || fName == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(fName)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", fName)
	}
	return f, nil
}

// saveFile creates fName and writes it with save. An error from closing the
// file is returned like one from save.
func saveFile(fName string, save func(io.Writer) error) (err error) {
	f, err := os.Create(fName)
	if err != nil {
		return errors.Wrapf(err, "creating %s", fName)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "closing %s", fName)
		}
	}()

	return save(f)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func writePred(w io.Writer, prediction []int) error {
	wtr := bufio.NewWriter(w)

	for _, pred := range prediction {
		_, err := wtr.WriteString(strconv.Itoa(pred))
		if err != nil {
			return err
		}

		err = wtr.WriteByte('\n')
		if err != nil {
			return err
		}
	}

	return wtr.Flush()
}

func usageError(cmd *cobra.Command, format string, a ...interface{}) error {
	return errors.Errorf("%s: %s", cmd.CommandPath(), fmt.Sprintf(format, a...))
}
