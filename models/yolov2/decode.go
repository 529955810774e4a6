package yolov2

import (
	"github.com/chewxy/math32"
	"github.com/nvr-ai/go-yolov2/images"
	"github.com/nvr-ai/go-yolov2/models/postprocess"
)

// Decode converts every anchor slot of every grid cell into a candidate
// detection and keeps those scoring above cfg.MinConfidence.
//
// For cell (x, y) and anchor b:
//
//	center = ((x + sigmoid(tx)) * cell, (y + sigmoid(ty)) * cell)
//	size   = (exp(tw) * anchor.Width * cell, exp(th) * anchor.Height * cell)
//	score  = max(softmax(c_0 ... c_n)) * sigmoid(t_obj)
//
// Boxes are clamped to the input frame. Slots whose activations are not finite
// enough to produce a score are skipped.
//
// Arguments:
//   - t: The network output. Its geometry must equal cfg.Geometry.
//   - cfg: The decode configuration.
//
// Returns:
//   - Candidates in emission order. Result.Index is ((y*GridWidth)+x)*NumAnchors+b.
//   - error: ErrInvalidConfig, ErrNilTensor or ErrShapeMismatch (wrapped).
func Decode(t *PredictionTensor, cfg *Config) ([]postprocess.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := t.compatible(cfg.Geometry); err != nil {
		return nil, err
	}

	g := cfg.Geometry
	cell := float32(g.CellSize)
	maxX := float32(g.InputWidth - 1)
	maxY := float32(g.InputHeight - 1)

	probs := make([]float32, g.NumClasses)
	var results []postprocess.Result

	for y := 0; y < g.GridHeight; y++ {
		for x := 0; x < g.GridWidth; x++ {
			for b := 0; b < g.NumAnchors; b++ {
				v := t.slot(y, x, b)

				class, classConf := softmaxArgmax(v[boxValues:], probs)
				if class < 0 {
					continue
				}
				score := classConf * sigmoid(v[4])
				if !(score > cfg.MinConfidence) {
					continue
				}

				xPos := (float32(x) + sigmoid(v[0])) * cell
				yPos := (float32(y) + sigmoid(v[1])) * cell
				w := math32.Exp(v[2]) * cfg.Anchors[b].Width * cell
				h := math32.Exp(v[3]) * cfg.Anchors[b].Height * cell

				box := images.Rect{
					Left:   xPos - w/2,
					Top:    yPos - h/2,
					Right:  xPos + w/2,
					Bottom: yPos + h/2,
				}

				results = append(results, postprocess.Result{
					Box:   box.Clamp(maxX, maxY),
					Score: score,
					Class: class,
					Name:  cfg.Labels.Name(class),
					Index: (y*g.GridWidth+x)*g.NumAnchors + b,
				})
			}
		}
	}

	return results, nil
}

// sigmoid is the logistic function.
func sigmoid(x float32) float32 {
	return 1 / (1 + math32.Exp(-x))
}

// softmaxArgmax normalizes logits into probs with a numerically stable softmax
// and returns the most probable index and its probability. The first index wins
// ties. It returns -1 when the distribution is not finite.
func softmaxArgmax(logits, probs []float32) (int, float32) {
	maxLogit := math32.Inf(-1)
	for _, v := range logits {
		maxLogit = math32.Max(maxLogit, v)
	}

	var sum float32
	for i, v := range logits {
		probs[i] = math32.Exp(v - maxLogit)
		sum += probs[i]
	}

	best, bestProb := -1, float32(0)
	for i := range probs {
		probs[i] /= sum
		if probs[i] > bestProb {
			best, bestProb = i, probs[i]
		}
	}
	return best, bestProb
}
