// Package postprocess - Postprocessing utilities for models.
package postprocess

import (
	"fmt"

	"github.com/nvr-ai/go-yolov2/images"
)

// Result represents a single candidate detection.
type Result struct {
	// The bounding box of the result.
	Box images.Rect
	// The confidence score of the result, in [0, 1].
	Score float32
	// The predicted class index of the result.
	Class int
	// The label of the predicted class.
	Name string
	// Index is the order in which the decoder emitted the result. It breaks
	// ties between equal scores so ordering is reproducible.
	Index int
}

// String formats the result for logs.
func (r Result) String() string {
	return fmt.Sprintf("Object %s (confidence %f): %s", r.Name, r.Score, r.Box)
}

// ranksBefore reports whether a sorts ahead of b: higher score first, then
// lower emission index.
func ranksBefore(a, b Result) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Index < b.Index
}
