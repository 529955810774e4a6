package yolov2

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// PredictionTensor is a read-only view of one network output, logical shape
// [1][GridHeight][GridWidth][NumAnchors*(5+NumClasses)], row-major. The value
// for grid row y, column x, anchor b and offset k lives at [0][y][x][b*slot+k].
type PredictionTensor struct {
	dense *tensor.Dense
	data  []float32
	geom  Geometry
}

// NewPredictionTensor wraps a flat row-major output buffer. The buffer is not
// copied and must not be modified while the tensor is in use.
//
// Arguments:
//   - data: The raw network output.
//   - g: The geometry the output was produced with.
//
// Returns:
//   - *PredictionTensor: The wrapped tensor.
//   - error: ErrShapeMismatch when len(data) does not match the geometry.
func NewPredictionTensor(data []float32, g Geometry) (*PredictionTensor, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if len(data) != g.Len() {
		return nil, errors.Wrapf(ErrShapeMismatch, "got %d values, want %d for shape %v", len(data), g.Len(), g.Shape())
	}
	dense := tensor.New(tensor.WithShape(g.Shape()...), tensor.WithBacking(data))
	return &PredictionTensor{dense: dense, data: data, geom: g}, nil
}

// FromDense wraps a gorgonia tensor, checking its dtype and shape.
//
// Arguments:
//   - dense: A float32 tensor shaped like g.Shape().
//   - g: The expected geometry.
//
// Returns:
//   - *PredictionTensor: The wrapped tensor.
//   - error: ErrNilTensor or ErrShapeMismatch.
func FromDense(dense *tensor.Dense, g Geometry) (*PredictionTensor, error) {
	if dense == nil {
		return nil, ErrNilTensor
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if dense.Dtype() != tensor.Float32 {
		return nil, errors.Wrapf(ErrShapeMismatch, "dtype %v, want float32", dense.Dtype())
	}
	if !dense.Shape().Eq(g.Shape()) {
		return nil, errors.Wrapf(ErrShapeMismatch, "got shape %v, want %v", dense.Shape(), g.Shape())
	}
	data, ok := dense.Data().([]float32)
	if !ok || len(data) != g.Len() {
		return nil, errors.Wrapf(ErrShapeMismatch, "tensor backing does not hold %d float32 values", g.Len())
	}
	return &PredictionTensor{dense: dense, data: data, geom: g}, nil
}

// Dense returns the underlying gorgonia tensor.
func (t *PredictionTensor) Dense() *tensor.Dense {
	return t.dense
}

// Geometry returns the layout the tensor was validated against.
func (t *PredictionTensor) Geometry() Geometry {
	return t.geom
}

// Shape returns the tensor shape.
func (t *PredictionTensor) Shape() tensor.Shape {
	return t.dense.Shape()
}

// slot returns the raw values of anchor b in grid cell (x, y) without copying.
func (t *PredictionTensor) slot(y, x, b int) []float32 {
	size := t.geom.SlotSize()
	off := (y*t.geom.GridWidth+x)*t.geom.Channels() + b*size
	return t.data[off : off+size : off+size]
}

// compatible checks the tensor can be decoded with g.
func (t *PredictionTensor) compatible(g Geometry) error {
	if t == nil {
		return ErrNilTensor
	}
	if t.geom != g {
		return errors.Wrapf(ErrShapeMismatch, "tensor built for shape %v, config expects %v", t.geom.Shape(), g.Shape())
	}
	return nil
}
