// Package config - YAML configuration for the yolov2 command.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/nvr-ai/go-yolov2/images"
	"github.com/nvr-ai/go-yolov2/inference"
	"github.com/nvr-ai/go-yolov2/logger"
	"github.com/nvr-ai/go-yolov2/models/model"
	"github.com/nvr-ai/go-yolov2/models/yolov2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Decode overrides the decode thresholds. Nil fields keep the model defaults.
type Decode struct {
	MinConfidence    *float32 `yaml:"min_confidence"`
	IoUThreshold     *float32 `yaml:"iou_threshold"`
	Edges            string   `yaml:"edges"`
	MaxResults       *int     `yaml:"max_results"`
	DisplayThreshold *float32 `yaml:"display_threshold"`
	Separator        *string  `yaml:"separator"`
}

// Config is the content of a configuration file.
//
// Example:
//
//	model:
//	  name: yolov2
//	  path: ./models/tiny-yolov2.onnx
//	decode:
//	  iou_threshold: 0.45
//	  edges: exclusive
//	runtime:
//	  provider: cpu
//	log:
//	  level: debug
type Config struct {
	Model   model.NewModelArgs `yaml:"model"`
	Decode  Decode             `yaml:"decode"`
	Runtime inference.Options  `yaml:"runtime"`
	Log     logger.Options     `yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Model:   model.NewModelArgs{Name: model.ModelNameYOLOv2},
		Runtime: inference.DefaultOptions(),
		Log:     logger.Options{Level: "info"},
	}
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if _, err := inference.ParseProvider(string(cfg.Runtime.Provider)); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply writes the decode overrides onto a decode configuration and validates
// the result.
func (d Decode) Apply(cfg *yolov2.Config) error {
	if d.MinConfidence != nil {
		cfg.MinConfidence = *d.MinConfidence
	}
	if d.IoUThreshold != nil {
		cfg.NMS.IoUThreshold = *d.IoUThreshold
	}
	if d.Edges != "" {
		edges, err := images.ParseEdgeConvention(d.Edges)
		if err != nil {
			return err
		}
		cfg.NMS.Edges = edges
	}
	if d.MaxResults != nil {
		cfg.MaxResults = *d.MaxResults
	}
	if d.DisplayThreshold != nil {
		cfg.DisplayThreshold = *d.DisplayThreshold
	}
	if d.Separator != nil {
		cfg.Separator = *d.Separator
	}
	return cfg.Validate()
}

// NewModel builds the configured model with the decode overrides applied.
func (c *Config) NewModel() (*yolov2.YOLOv2, error) {
	var decode *yolov2.Config
	switch c.Model.Name {
	case model.ModelNameYOLOv2VOC:
		decode = yolov2.VOCConfig()
	case model.ModelNameYOLOv2, "":
		decode = yolov2.DefaultConfig()
	default:
		return nil, errors.Errorf("unsupported model name: %s", c.Model.Name)
	}
	if err := c.Decode.Apply(decode); err != nil {
		return nil, err
	}
	return yolov2.NewModel(c.Model, decode)
}
