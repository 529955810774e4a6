// Package images - Geometry utilities for detection boxes.
package images

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// EdgeConvention selects how a box's right and bottom edges are counted when
// measuring width, height and area.
type EdgeConvention int

const (
	// EdgesInclusive treats both edges as pixels that belong to the box, so a
	// box spanning [10, 20] is 11 pixels wide. This is the box-pixel
	// convention most YOLOv2 ports were written against.
	EdgesInclusive EdgeConvention = iota
	// EdgesExclusive treats the right and bottom edges as exclusive, like
	// image.Rectangle.
	EdgesExclusive
)

// String returns the name used for the convention in configuration files.
func (e EdgeConvention) String() string {
	switch e {
	case EdgesInclusive:
		return "inclusive"
	case EdgesExclusive:
		return "exclusive"
	default:
		return fmt.Sprintf("EdgeConvention(%d)", int(e))
	}
}

// ParseEdgeConvention parses the configuration name of an edge convention.
//
// Arguments:
//   - s: "inclusive" or "exclusive". The empty string selects EdgesInclusive.
//
// Returns:
//   - The parsed convention, or an error for an unknown name.
func ParseEdgeConvention(s string) (EdgeConvention, error) {
	switch s {
	case "", "inclusive":
		return EdgesInclusive, nil
	case "exclusive":
		return EdgesExclusive, nil
	default:
		return EdgesInclusive, errors.Errorf("unknown edge convention %q", s)
	}
}

// pad is the amount added to an edge difference to obtain a length.
func (e EdgeConvention) pad() float32 {
	if e == EdgesInclusive {
		return 1
	}
	return 0
}

// Rect is a lightweight floating point bounding box in pixel coordinates.
type Rect struct {
	Left   float32 `json:"left" yaml:"left"`
	Top    float32 `json:"top" yaml:"top"`
	Right  float32 `json:"right" yaml:"right"`
	Bottom float32 `json:"bottom" yaml:"bottom"`
}

// String formats the rectangle for logs.
func (r Rect) String() string {
	return fmt.Sprintf("(%.2f, %.2f), (%.2f, %.2f)", r.Left, r.Top, r.Right, r.Bottom)
}

// Width returns the width of the box under the given convention. It is never
// negative.
func (r Rect) Width(edges EdgeConvention) float32 {
	return math32.Max(0, r.Right-r.Left+edges.pad())
}

// Height returns the height of the box under the given convention. It is never
// negative.
func (r Rect) Height(edges EdgeConvention) float32 {
	return math32.Max(0, r.Bottom-r.Top+edges.pad())
}

// Area returns Width * Height under the given convention.
func (r Rect) Area(edges EdgeConvention) float32 {
	return r.Width(edges) * r.Height(edges)
}

// Center returns the centroid of the box as (x, y).
func (r Rect) Center() (x, y float32) {
	return (r.Left + r.Right) / 2, (r.Top + r.Bottom) / 2
}

// Clamp restricts every edge of the box to [0, maxX] x [0, maxY] and keeps the
// box canonical (Left <= Right, Top <= Bottom).
//
// Arguments:
//   - maxX: The largest valid x coordinate, usually the image width - 1.
//   - maxY: The largest valid y coordinate, usually the image height - 1.
//
// Returns:
//   - The clamped rectangle.
//
// Example:
//
//	r := Rect{Left: -20, Top: 10, Right: 500, Bottom: 40}.Clamp(415, 415)
//	// r == Rect{Left: 0, Top: 10, Right: 415, Bottom: 40}
func (r Rect) Clamp(maxX, maxY float32) Rect {
	c := Rect{
		Left:   clamp(r.Left, 0, maxX),
		Top:    clamp(r.Top, 0, maxY),
		Right:  clamp(r.Right, 0, maxX),
		Bottom: clamp(r.Bottom, 0, maxY),
	}
	if c.Right < c.Left {
		c.Right = c.Left
	}
	if c.Bottom < c.Top {
		c.Bottom = c.Top
	}
	return c
}

// Within reports whether every edge lies inside [0, maxX] x [0, maxY] and the
// box is canonical.
func (r Rect) Within(maxX, maxY float32) bool {
	return r.Left >= 0 && r.Left <= r.Right && r.Right <= maxX &&
		r.Top >= 0 && r.Top <= r.Bottom && r.Bottom <= maxY
}

// clamp restricts v to [lo, hi]. NaN collapses to lo.
func clamp(v, lo, hi float32) float32 {
	if !(v >= lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CalculateIoU measures how much two boxes overlap as the ratio of the area of
// their intersection to the area of their union.
//
//	IoU = Area of Intersection / Area of Union
//
// A value of 1.0 means the boxes are identical and 0.0 means they do not
// overlap. The union is computed with inclusion-exclusion:
// Area(A) + Area(B) - Area(A ∩ B).
//
// Widths and heights are measured with the given edge convention, so with
// EdgesInclusive two boxes touching on a single pixel column still intersect.
//
// Degenerate input never produces NaN: a non-positive union, an empty
// intersection or a non-finite ratio all yield 0.
//
// Arguments:
//   - r: The first box.
//   - o: The other box to compare against.
//   - edges: How right/bottom edges are counted.
//
// Returns:
//   - float32: A value in [0, 1].
//
// Example:
//
//	a := Rect{Left: 0, Top: 0, Right: 10, Bottom: 10}
//	b := Rect{Left: 5, Top: 5, Right: 15, Bottom: 15}
//	iou := CalculateIoU(a, b, EdgesExclusive) // 25 / 175 = 0.142857
func CalculateIoU(r, o Rect, edges EdgeConvention) float32 {
	inter := Rect{
		Left:   math32.Max(r.Left, o.Left),
		Top:    math32.Max(r.Top, o.Top),
		Right:  math32.Min(r.Right, o.Right),
		Bottom: math32.Min(r.Bottom, o.Bottom),
	}

	interW := inter.Right - inter.Left + edges.pad()
	interH := inter.Bottom - inter.Top + edges.pad()
	if !(interW > 0) || !(interH > 0) {
		return 0
	}
	interArea := interW * interH

	unionArea := r.Area(edges) + o.Area(edges) - interArea
	if !(unionArea > 0) {
		return 0
	}

	iou := interArea / unionArea
	if math32.IsNaN(iou) || math32.IsInf(iou, 0) {
		return 0
	}
	return math32.Min(iou, 1)
}
