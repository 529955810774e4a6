package yolov2

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nvr-ai/go-yolov2/images"
	"github.com/nvr-ai/go-yolov2/models/postprocess"
)

// Recognition is one labeled, scored and localized detection.
type Recognition struct {
	// ID is the predicted class index.
	ID int `json:"id"`
	// Name is the label of the predicted class.
	Name string `json:"name"`
	// Confidence is objectness times class probability, in [0, 1].
	Confidence float32 `json:"confidence"`
	// Box is the clamped box in input pixel coordinates.
	Box images.Rect `json:"box"`
}

// String formats the recognition for logs.
func (r Recognition) String() string {
	return fmt.Sprintf("Object %s (confidence %f): %s", r.Name, r.Confidence, r.Box)
}

// Result is everything produced for one frame. It is never modified after
// Detect returns and may be shared freely.
type Result struct {
	// Recognitions are ordered by descending confidence.
	Recognitions []Recognition `json:"recognitions"`
	// Regions holds the 3x3 region label of each recognition.
	Regions []int `json:"regions"`
	// Display is the narration string built by Describe.
	Display string `json:"display"`
	// Candidates is the number of decoded boxes above the minimum confidence.
	Candidates int `json:"candidates"`
	// Suppressed is the number of candidates removed by per-class suppression.
	Suppressed int `json:"suppressed"`
	// LabelProbabilities holds, per class index, the best confidence among the
	// recognitions of that class, or 0.
	LabelProbabilities []float32 `json:"label_probabilities"`
}

// LabelScore pairs a class name with its probability.
type LabelScore struct {
	Name  string  `json:"name"`
	Score float32 `json:"score"`
}

// LabelSummary is a ranked list of label probabilities.
type LabelSummary []LabelScore

// String renders one "name: 0.00" line per label.
func (s LabelSummary) String() string {
	var sb strings.Builder
	for _, l := range s {
		fmt.Fprintf(&sb, "%s: %4.2f\n", l.Name, l.Score)
	}
	return sb.String()
}

// Empty reports whether the frame produced no recognitions.
func (r *Result) Empty() bool {
	return len(r.Recognitions) == 0
}

// TopLabels returns the k most probable labels of the frame, highest first.
// Labels with zero probability are omitted; ties keep class order. Names come
// from the recognitions, so a decoded JSON result summarizes the same way.
func (r *Result) TopLabels(k int) LabelSummary {
	names := make(map[int]string, len(r.Recognitions))
	for _, rec := range r.Recognitions {
		names[rec.ID] = rec.Name
	}

	summary := LabelSummary{}
	for idx, p := range r.LabelProbabilities {
		if p > 0 {
			summary = append(summary, LabelScore{Name: names[idx], Score: p})
		}
	}
	sort.SliceStable(summary, func(i, j int) bool {
		return summary[i].Score > summary[j].Score
	})
	if k >= 0 && len(summary) > k {
		summary = summary[:k]
	}
	return summary
}

// Detect runs the whole decode pipeline on one frame's output tensor:
// decode, per-class suppression, global top-K selection and region labeling.
//
// Arguments:
//   - t: The network output for the frame.
//   - cfg: The decode configuration.
//
// Returns:
//   - *Result: A fresh result; empty when nothing clears the thresholds.
//   - error: ErrInvalidConfig, ErrNilTensor or ErrShapeMismatch (wrapped).
//
// Example:
//
//	cfg := yolov2.DefaultConfig()
//	t, err := yolov2.NewPredictionTensor(output, cfg.Geometry)
//	if err != nil {
//		return err
//	}
//	res, err := yolov2.Detect(t, cfg)
//	if err != nil {
//		return err
//	}
//	fmt.Println(res.Display)
func Detect(t *PredictionTensor, cfg *Config) (*Result, error) {
	candidates, err := Decode(t, cfg)
	if err != nil {
		return nil, err
	}
	accepted := postprocess.Suppress(candidates, &cfg.NMS)
	top := postprocess.SelectTop(accepted, cfg.MaxResults)

	return newResult(top, len(candidates), len(candidates)-len(accepted), cfg), nil
}

// newResult converts selected candidates into the frame result.
func newResult(top []postprocess.Result, candidates, suppressed int, cfg *Config) *Result {
	res := &Result{
		Recognitions:       make([]Recognition, len(top)),
		Regions:            make([]int, len(top)),
		Candidates:         candidates,
		Suppressed:         suppressed,
		LabelProbabilities: make([]float32, cfg.Geometry.NumClasses),
	}

	for i, c := range top {
		res.Recognitions[i] = Recognition{
			ID:         c.Class,
			Name:       c.Name,
			Confidence: c.Score,
			Box:        c.Box,
		}
		res.Regions[i] = RegionLabel(c.Box, cfg)
		if c.Score > res.LabelProbabilities[c.Class] {
			res.LabelProbabilities[c.Class] = c.Score
		}
	}
	res.Display = Describe(res.Recognitions, cfg)

	return res
}
