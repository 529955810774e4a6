package yolov2

import (
	"github.com/nvr-ai/go-yolov2/models"
	"github.com/nvr-ai/go-yolov2/models/postprocess"
	"github.com/pkg/errors"
)

const (
	// DefaultMinConfidence is the score a decoded box must exceed to be kept at
	// all. It only bounds the work done by suppression.
	DefaultMinConfidence = 0.01
	// DefaultDisplayThreshold is the score a recognition needs to appear in the
	// display string.
	DefaultDisplayThreshold = 0.3
	// DefaultSeparator follows every entry of the display string.
	DefaultSeparator = "    "
	// DefaultLabelsToShow is the length of the top labels summary.
	DefaultLabelsToShow = 3
)

var (
	// ErrInvalidConfig is returned when a Config cannot describe a decodable tensor.
	ErrInvalidConfig = errors.New("invalid yolov2 config")
	// ErrNilTensor is returned when no prediction tensor is supplied.
	ErrNilTensor = errors.New("prediction tensor is nil")
	// ErrShapeMismatch is returned when a tensor does not match the configured geometry.
	ErrShapeMismatch = errors.New("prediction tensor shape mismatch")
)

// Config is the immutable set of tables and thresholds a decode runs with.
// Build it once and share it between frames.
type Config struct {
	// Geometry is the output grid layout.
	Geometry Geometry
	// Anchors holds one prior per anchor slot.
	Anchors AnchorTable
	// Labels maps class indices to names.
	Labels *models.OutputClassSet
	// MinConfidence is the score a decoded box must exceed to become a candidate.
	MinConfidence float32
	// NMS configures per-class suppression.
	NMS postprocess.NMSConfig
	// MaxResults caps the number of recognitions per frame.
	MaxResults int
	// DisplayThreshold is the score a recognition needs to be described.
	DisplayThreshold float32
	// Separator follows every entry of the display string.
	Separator string
}

// DefaultConfig returns the COCO tiny YOLOv2 configuration.
func DefaultConfig() *Config {
	return &Config{
		Geometry:         TinyYOLOv2Geometry(),
		Anchors:          TinyYOLOv2Anchors(),
		Labels:           models.YOLOv2COCOClasses,
		MinConfidence:    DefaultMinConfidence,
		NMS:              *postprocess.DefaultNMSConfig(),
		MaxResults:       postprocess.DefaultMaxResults,
		DisplayThreshold: DefaultDisplayThreshold,
		Separator:        DefaultSeparator,
	}
}

// VOCConfig returns the Pascal VOC tiny YOLOv2 configuration (20 classes).
func VOCConfig() *Config {
	cfg := DefaultConfig()
	cfg.Geometry.NumClasses = 20
	cfg.Anchors = TinyYOLOv2VOCAnchors()
	cfg.Labels = models.PascalVOCClasses
	return cfg
}

// Validate checks the configuration is internally consistent.
//
// Returns:
//   - An error wrapping ErrInvalidConfig describing the first problem found.
func (c *Config) Validate() error {
	if c == nil {
		return errors.Wrap(ErrInvalidConfig, "config is nil")
	}
	if err := c.Geometry.Validate(); err != nil {
		return err
	}
	if err := c.Anchors.validate(c.Geometry); err != nil {
		return err
	}
	if c.Labels == nil {
		return errors.Wrap(ErrInvalidConfig, "label table is nil")
	}
	if c.Labels.Len() != c.Geometry.NumClasses {
		return errors.Wrapf(ErrInvalidConfig, "label table has %d names, geometry has %d classes",
			c.Labels.Len(), c.Geometry.NumClasses)
	}
	if !inUnitRange(c.MinConfidence) {
		return errors.Wrapf(ErrInvalidConfig, "min confidence %v outside [0, 1]", c.MinConfidence)
	}
	if !inUnitRange(c.DisplayThreshold) {
		return errors.Wrapf(ErrInvalidConfig, "display threshold %v outside [0, 1]", c.DisplayThreshold)
	}
	if !inUnitRange(c.NMS.IoUThreshold) {
		return errors.Wrapf(ErrInvalidConfig, "iou threshold %v outside [0, 1]", c.NMS.IoUThreshold)
	}
	if c.MaxResults <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "max results must be positive, got %d", c.MaxResults)
	}
	return nil
}

func inUnitRange(v float32) bool {
	return v >= 0 && v <= 1
}
