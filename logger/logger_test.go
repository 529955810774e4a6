package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	log, closer, err := New(Options{Output: &bytes.Buffer{}})
	require.NoError(t, err)
	defer closer.Close()
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())

	log, _, err = New(Options{Level: "debug", Output: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	_, _, err = New(Options{Level: "chatty"})
	assert.Error(t, err)
}

func TestNewWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(Options{Output: &buf, NoColors: true})
	require.NoError(t, err)

	log.WithField(FrameIDKey, "abc").Info("frame done")
	assert.Contains(t, buf.String(), "frame done")
	assert.Contains(t, buf.String(), "frame_id:abc")
}

func TestNewWritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "yolov2.log")
	log, closer, err := New(Options{Output: &bytes.Buffer{}, File: file, NoColors: true})
	require.NoError(t, err)

	log.Warn("dropped frame")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dropped frame")
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Error("nothing to see")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
