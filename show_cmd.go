package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wlattner/dtc/tree"
)

type showCmdConfig struct {
	*rootCmdConfig
	modelFile string
	asYAML    bool
}

func showCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &showCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "print a fitted tree",
		Long:  `Print the nodes of a model saved by fit, either as an indented outline or as a nested YAML document.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.run()
		},
	}
	cmd.Flags().StringVarP(&config.modelFile, "model", "f", "dtc.model", "file with a fitted model")
	cmd.Flags().BoolVar(&config.asYAML, "yaml", false, "print the tree as YAML")
	return cmd
}

func (sc *showCmdConfig) run() error {
	m, err := loadModel(sc.modelFile)
	if err != nil {
		return err
	}
	if m.Clf == nil || m.Clf.Tree == nil || len(m.Clf.Tree.Nodes) == 0 {
		return tree.ErrNotFitted
	}

	if !sc.asYAML {
		fmt.Fprint(os.Stdout, m.Clf.Tree.String())
		return nil
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(exportTree(m.Clf.Tree, m.VarNames)); err != nil {
		return errors.Wrap(err, "encoding tree")
	}
	return enc.Close()
}

// yamlNode is the nested form of a tree node.
type yamlNode struct {
	Feature   string    `yaml:"feature,omitempty"`
	Threshold *float64  `yaml:"threshold,omitempty"`
	Gain      float64   `yaml:"gain,omitempty"`
	Label     *int      `yaml:"label,omitempty"`
	Samples   int       `yaml:"samples"`
	Entropy   float64   `yaml:"entropy"`
	Left      *yamlNode `yaml:"left,omitempty"`
	Right     *yamlNode `yaml:"right,omitempty"`
}

func exportTree(t *tree.Tree, varNames []string) *yamlNode {
	return exportNode(t, 0, varNames)
}

func exportNode(t *tree.Tree, i int, varNames []string) *yamlNode {
	n := t.Nodes[i]
	out := &yamlNode{Samples: n.Samples, Entropy: n.Impurity}
	if n.Leaf {
		label := n.Label
		out.Label = &label
		return out
	}

	threshold := n.Threshold
	out.Threshold = &threshold
	out.Gain = n.Gain
	out.Feature = fmt.Sprintf("x[%d]", n.Feature)
	if n.Feature < len(varNames) {
		out.Feature = varNames[n.Feature]
	}
	out.Left = exportNode(t, n.Left, varNames)
	out.Right = exportNode(t, n.Right, varNames)
	return out
}
