package yolov2

import (
	"testing"

	"github.com/nvr-ai/go-yolov2/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	g := cfg.Geometry
	assert.Equal(t, 85, g.SlotSize())
	assert.Equal(t, 425, g.Channels())
	assert.Equal(t, 13*13*425, g.Len())
	assert.Equal(t, []int{1, 13, 13, 425}, []int(g.Shape()))
	assert.Len(t, cfg.Anchors, 5)
	assert.Equal(t, models.ModelFamilyCOCO, cfg.Labels.Style)
	assert.Equal(t, float32(0.5), cfg.NMS.IoUThreshold)
	assert.Equal(t, 5, cfg.MaxResults)
}

func TestVOCConfig(t *testing.T) {
	cfg := VOCConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 125, cfg.Geometry.Channels())
	assert.Equal(t, models.ModelFamilyVOC, cfg.Labels.Style)

	// The COCO table must be untouched.
	assert.Equal(t, 80, DefaultConfig().Geometry.NumClasses)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero grid", func(c *Config) { c.Geometry.GridWidth = 0 }},
		{"grid does not cover input", func(c *Config) { c.Geometry.InputWidth = 400 }},
		{"missing anchor", func(c *Config) { c.Anchors = c.Anchors[:4] }},
		{"negative anchor", func(c *Config) { c.Anchors = AnchorTable{{1, 1}, {1, 1}, {1, 1}, {1, 1}, {-1, 1}} }},
		{"nil labels", func(c *Config) { c.Labels = nil }},
		{"label count", func(c *Config) { c.Labels = models.PascalVOCClasses }},
		{"min confidence", func(c *Config) { c.MinConfidence = 1.5 }},
		{"display threshold", func(c *Config) { c.DisplayThreshold = -0.1 }},
		{"iou threshold", func(c *Config) { c.NMS.IoUThreshold = 2 }},
		{"max results", func(c *Config) { c.MaxResults = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}

	var nilCfg *Config
	assert.True(t, errors.Is(nilCfg.Validate(), ErrInvalidConfig))
}
