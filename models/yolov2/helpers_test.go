package yolov2

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// activation describes one strongly predicted anchor slot.
type activation struct {
	x, y, b    int
	tx, ty     float32
	tw, th     float32
	objectness float32
	class      int
	logit      float32
}

// buildTensor returns an all-zero output with the given slots written in.
func buildTensor(t testing.TB, cfg *Config, acts ...activation) (*PredictionTensor, []float32) {
	t.Helper()
	g := cfg.Geometry
	data := make([]float32, g.Len())
	for _, a := range acts {
		off := (a.y*g.GridWidth+a.x)*g.Channels() + a.b*g.SlotSize()
		data[off+0] = a.tx
		data[off+1] = a.ty
		data[off+2] = a.tw
		data[off+3] = a.th
		data[off+4] = a.objectness
		data[off+boxValues+a.class] = a.logit
	}
	tensor, err := NewPredictionTensor(data, g)
	require.NoError(t, err)
	return tensor, data
}

// silence sets the objectness of every slot that was not activated to value.
func silence(data []float32, cfg *Config, value float32) {
	g := cfg.Geometry
	for off := 0; off < len(data); off += g.SlotSize() {
		if data[off+4] == 0 {
			data[off+4] = value
		}
	}
}

// randomTensor fills an output with noise scaled so a realistic number of
// slots clear the minimum confidence.
func randomTensor(t testing.TB, cfg *Config, seed int64) *PredictionTensor {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	g := cfg.Geometry
	data := make([]float32, g.Len())
	for i := range data {
		data[i] = float32(rng.NormFloat64()) * 3
	}
	tensor, err := NewPredictionTensor(data, g)
	require.NoError(t, err)
	return tensor
}
