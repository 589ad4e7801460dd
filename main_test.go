package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wlattner/dtc/tree"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := cliParser()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestFitPredictShow(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, "heart.csv", heartCSV)
	model := filepath.Join(dir, "heart.model")
	preds := filepath.Join(dir, "preds.txt")
	varImp := filepath.Join(dir, "varimp.csv")

	require.NoError(t, execute(t, "fit", "-d", data, "-f", model, "--max-depth", "-1", "--var-importance", varImp))
	assert.FileExists(t, model)
	assert.FileExists(t, varImp)

	require.NoError(t, execute(t, "predict", "-d", data, "-f", model, "-p", preds))
	b, err := os.ReadFile(preds)
	require.NoError(t, err)
	assert.Equal(t, "1\n1\n1\n0\n0\n1\n0\n0\n", string(b))

	require.NoError(t, execute(t, "show", "-f", model))
	require.NoError(t, execute(t, "show", "-f", model, "--yaml"))
}

func TestFitUsesConfig(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, "heart.csv", heartCSV)
	cfg := writeFile(t, "dtc.yaml", "max_depth: 1\n")
	model := filepath.Join(dir, "heart.model")

	require.NoError(t, execute(t, "fit", "-c", cfg, "-d", data, "-f", model))

	m, err := loadModel(model)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Clf.MaxDepth)
	assert.Equal(t, 1, m.Clf.Depth())

	// flags win over the config file
	require.NoError(t, execute(t, "fit", "-c", cfg, "-d", data, "-f", model, "--max-depth", "2"))
	m, err = loadModel(model)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Clf.MaxDepth)
}

func TestSweepCommand(t *testing.T) {
	data := writeFile(t, "heart.csv", heartCSV)

	assert.NoError(t, execute(t, "sweep", "-d", data, "--depths", "1,2,-1", "--test-size", "0.25", "--workers", "2", "--confusion"))
	assert.Error(t, execute(t, "sweep", "-d", data, "--test-size", "1.5"))
	assert.Error(t, execute(t, "sweep", "-d", data, "--workers", "0"))
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, "heart.csv", heartCSV)

	assert.Error(t, execute(t, "predict", "-d", data, "-f", filepath.Join(dir, "missing.model")))
	assert.Error(t, execute(t, "fit", "-d", filepath.Join(dir, "missing.csv"), "-f", filepath.Join(dir, "m")))
	assert.Error(t, execute(t, "fit", "-c", filepath.Join(dir, "missing.yaml"), "-d", data))
}

func TestSaveFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	require.NoError(t, saveFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "saved\n")
		return err
	}))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "saved\n", string(b))

	errSave := errors.New("disk full")
	err = saveFile(path, func(io.Writer) error { return errSave })
	assert.ErrorIs(t, err, errSave)

	err = saveFile(filepath.Join(dir, "missing", "out.txt"), func(io.Writer) error { return nil })
	assert.Error(t, err)
}

func TestFitModelDirMissing(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, "heart.csv", heartCSV)

	assert.Error(t, execute(t, "fit", "-d", data, "-f", filepath.Join(dir, "missing", "heart.model")))
	assert.Error(t, execute(t, "fit", "-d", data, "-f", filepath.Join(dir, "heart.model"),
		"--var-importance", filepath.Join(dir, "missing", "varimp.csv")))
}

func TestExportTree(t *testing.T) {
	m, _ := fitHeart(t, tree.Unbounded)

	root := exportTree(m.Clf.Tree, m.VarNames)
	require.NotNil(t, root.Threshold)
	assert.Equal(t, "age", root.Feature)
	assert.Equal(t, 59.0, *root.Threshold)
	assert.Equal(t, 8, root.Samples)
	assert.Nil(t, root.Label)

	require.NotNil(t, root.Left.Label)
	assert.Equal(t, 1, *root.Left.Label)
	assert.Equal(t, "trestbps", root.Right.Feature)

	b, err := yaml.Marshal(root)
	require.NoError(t, err)

	var decoded yamlNode
	require.NoError(t, yaml.Unmarshal(b, &decoded))
	assert.Equal(t, "age", decoded.Feature)
	require.NotNil(t, decoded.Threshold)
	assert.Equal(t, 59.0, *decoded.Threshold)
	require.NotNil(t, decoded.Left.Label)
	assert.Equal(t, 1, *decoded.Left.Label)

	// without names the column index is used
	assert.Equal(t, "x[0]", exportTree(m.Clf.Tree, nil).Feature)
	assert.Contains(t, m.Clf.Tree.String(), "x[0] <= 59")
}
