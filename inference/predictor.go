// Package inference - Runs the network and prepares its input.
package inference

import (
	"context"

	"github.com/nvr-ai/go-yolov2/models/yolov2"
)

// Predictor runs the network on one preprocessed frame.
type Predictor interface {
	// Predict runs inference on an NHWC float32 input and returns the raw
	// output grid. The returned tensor must not share memory with any buffer
	// the predictor reuses for later frames.
	Predict(ctx context.Context, input []float32) (*yolov2.PredictionTensor, error)
}

// PredictorFunc adapts a function to the Predictor interface.
type PredictorFunc func(ctx context.Context, input []float32) (*yolov2.PredictionTensor, error)

// Predict calls f(ctx, input).
func (f PredictorFunc) Predict(ctx context.Context, input []float32) (*yolov2.PredictionTensor, error) {
	return f(ctx, input)
}
