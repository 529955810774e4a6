// Package yolov2 - decodes tiny YOLOv2 output tensors into ranked, labeled
// detections.
//
// The network divides a 416x416 frame into a 13x13 grid of 32 pixel cells.
// Every cell predicts five boxes relative to five anchor priors; each box
// carries 85 raw values:
//
//	[tx, ty, tw, th, t_obj, c_0 ... c_79]
//
// Detect turns one output tensor into at most five recognitions: decode every
// cell and anchor, suppress overlapping boxes within each class, keep the
// globally best boxes and label each with its coarse 3x3 region.
package yolov2

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// boxValues is the number of non-class values per anchor slot:
// tx, ty, tw, th and the objectness logit.
const boxValues = 5

// Geometry describes the output grid of the network.
type Geometry struct {
	// GridWidth is the number of cells across the frame.
	GridWidth int `json:"grid_width" yaml:"grid_width"`
	// GridHeight is the number of cells down the frame.
	GridHeight int `json:"grid_height" yaml:"grid_height"`
	// CellSize is the edge of one cell in input pixels.
	CellSize int `json:"cell_size" yaml:"cell_size"`
	// NumAnchors is the number of boxes predicted per cell.
	NumAnchors int `json:"num_anchors" yaml:"num_anchors"`
	// NumClasses is the length of each box's class distribution.
	NumClasses int `json:"num_classes" yaml:"num_classes"`
	// InputWidth is the width of the network input in pixels.
	InputWidth int `json:"input_width" yaml:"input_width"`
	// InputHeight is the height of the network input in pixels.
	InputHeight int `json:"input_height" yaml:"input_height"`
}

// TinyYOLOv2Geometry is the 13x13 grid, 5 anchor, 80 class layout of the COCO
// tiny YOLOv2 model at 416x416.
func TinyYOLOv2Geometry() Geometry {
	return Geometry{
		GridWidth:   13,
		GridHeight:  13,
		CellSize:    32,
		NumAnchors:  5,
		NumClasses:  80,
		InputWidth:  416,
		InputHeight: 416,
	}
}

// SlotSize returns the number of values predicted per anchor slot.
func (g Geometry) SlotSize() int {
	return boxValues + g.NumClasses
}

// Channels returns the length of the innermost tensor dimension.
func (g Geometry) Channels() int {
	return g.NumAnchors * g.SlotSize()
}

// Shape returns the logical tensor shape [1, GridHeight, GridWidth, Channels].
func (g Geometry) Shape() tensor.Shape {
	return tensor.Shape{1, g.GridHeight, g.GridWidth, g.Channels()}
}

// Len returns the number of float32 values in one output tensor.
func (g Geometry) Len() int {
	return g.GridHeight * g.GridWidth * g.Channels()
}

// Validate checks that every dimension is positive and the grid covers the
// input exactly.
func (g Geometry) Validate() error {
	if g.GridWidth <= 0 || g.GridHeight <= 0 || g.CellSize <= 0 ||
		g.NumAnchors <= 0 || g.NumClasses <= 0 || g.InputWidth <= 0 || g.InputHeight <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "geometry has a non-positive dimension: %+v", g)
	}
	if g.GridWidth*g.CellSize != g.InputWidth || g.GridHeight*g.CellSize != g.InputHeight {
		return errors.Wrapf(ErrInvalidConfig, "grid %dx%d of %dpx cells does not cover input %dx%d",
			g.GridWidth, g.GridHeight, g.CellSize, g.InputWidth, g.InputHeight)
	}
	return nil
}

// Anchor is a box size prior measured in grid cells.
type Anchor struct {
	Width  float32 `json:"width" yaml:"width"`
	Height float32 `json:"height" yaml:"height"`
}

// AnchorTable holds one prior per anchor slot, in slot order.
type AnchorTable []Anchor

// TinyYOLOv2Anchors returns the COCO tiny YOLOv2 priors.
func TinyYOLOv2Anchors() AnchorTable {
	return AnchorTable{
		{0.57273, 0.677385},
		{1.87446, 2.06253},
		{3.33843, 5.47434},
		{7.88282, 3.52778},
		{9.77052, 9.16828},
	}
}

// TinyYOLOv2VOCAnchors returns the Pascal VOC tiny YOLOv2 priors.
func TinyYOLOv2VOCAnchors() AnchorTable {
	return AnchorTable{
		{1.08, 1.19},
		{3.42, 4.41},
		{6.63, 11.38},
		{9.42, 5.11},
		{16.62, 10.52},
	}
}

// validate checks the table matches the geometry and every prior is a
// positive finite size.
func (a AnchorTable) validate(g Geometry) error {
	if len(a) != g.NumAnchors {
		return errors.Wrapf(ErrInvalidConfig, "anchor table has %d priors, geometry needs %d", len(a), g.NumAnchors)
	}
	for i, anchor := range a {
		if !(anchor.Width > 0) || !(anchor.Height > 0) ||
			math32.IsInf(anchor.Width, 0) || math32.IsInf(anchor.Height, 0) {
			return errors.Wrapf(ErrInvalidConfig, "anchor %d has invalid size %+v", i, anchor)
		}
	}
	return nil
}
