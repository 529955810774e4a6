package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/nvr-ai/go-yolov2/models/yolov2"
	"github.com/nvr-ai/go-yolov2/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDumps writes a frame with a centered person and an empty frame.
func writeDumps(t *testing.T, dir string) {
	t.Helper()
	g := yolov2.TinyYOLOv2Geometry()

	person := make([]float32, g.Len())
	off := (6*g.GridWidth + 6) * g.Channels()
	person[off+4] = 10
	person[off+5] = 10

	for name, data := range map[string][]float32{
		"frame-1.npy": person,
		"frame-2.bin": make([]float32, g.Len()),
	} {
		pt, err := yolov2.NewPredictionTensor(data, g)
		require.NoError(t, err)
		require.NoError(t, util.SaveTensor(filepath.Join(dir, name), pt))
	}
}

func TestRunTensorsJSON(t *testing.T) {
	dir := t.TempDir()
	writeDumps(t, dir)
	annotated := filepath.Join(t.TempDir(), "out")

	var stdout bytes.Buffer
	err := run(options{
		tensorPath:  dir,
		jsonOutput:  true,
		annotateDir: annotated,
		logLevel:    "error",
	}, &stdout)
	require.NoError(t, err)

	var reports []report
	sc := bufio.NewScanner(&stdout)
	sc.Buffer(make([]byte, 1<<20), 1<<20)
	for sc.Scan() {
		var r report
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
		reports = append(reports, r)
	}
	require.Len(t, reports, 2)

	assert.Equal(t, "frame-1.npy", filepath.Base(reports[0].File))
	require.Len(t, reports[0].Recognitions, 1)
	assert.Equal(t, "person", reports[0].Recognitions[0].Name)
	assert.Equal(t, []int{5}, reports[0].Regions)
	assert.Equal(t, "person 5    ", reports[0].Display)
	assert.NotEmpty(t, reports[0].FrameID)

	assert.Empty(t, reports[1].Recognitions)
	assert.Equal(t, "", reports[1].Display)

	for _, name := range []string{"frame-1.png", "frame-2.png"} {
		_, err := os.Stat(filepath.Join(annotated, name))
		assert.NoError(t, err, name)
	}
}

func TestRunTensorText(t *testing.T) {
	dir := t.TempDir()
	writeDumps(t, dir)

	var stdout bytes.Buffer
	err := run(options{tensorPath: filepath.Join(dir, "frame-1.npy"), logLevel: "error"}, &stdout)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "Object person (confidence")
	assert.Contains(t, out, "  person 5\n")
	assert.Contains(t, out, "person: 1.00")
	assert.Contains(t, out, "Inference: 0 ms Prediction:")
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeDumps(t, dir)

	cfgPath := filepath.Join(t.TempDir(), "yolov2.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("decode:\n  display_threshold: 1\nlog:\n  level: error\n"), 0o600))

	var stdout bytes.Buffer
	err := run(options{configPath: cfgPath, tensorPath: filepath.Join(dir, "frame-1.npy"), jsonOutput: true}, &stdout)
	require.NoError(t, err)

	var r report
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &r))
	assert.Len(t, r.Recognitions, 1)
	assert.Equal(t, "", r.Display, "nothing reaches a display threshold of 1")
}

func TestRunErrors(t *testing.T) {
	var stdout bytes.Buffer

	assert.Error(t, run(options{}, &stdout))
	assert.Error(t, run(options{tensorPath: "a.npy", imagePath: "b.png"}, &stdout))
	assert.Error(t, run(options{tensorPath: filepath.Join(t.TempDir(), "missing.npy"), logLevel: "error"}, &stdout))
	assert.Error(t, run(options{tensorPath: t.TempDir(), logLevel: "shouting"}, &stdout))

	bad := filepath.Join(t.TempDir(), "short.bin")
	require.NoError(t, os.WriteFile(bad, make([]byte, 8), 0o600))
	assert.Error(t, run(options{tensorPath: bad, logLevel: "error"}, &stdout))
}
