// Package postprocess - provides Non-Maximum Suppression for detection results.
package postprocess

import (
	"sort"

	"github.com/nvr-ai/go-yolov2/images"
)

// DefaultIoUThreshold is the overlap above which a same-class box is suppressed.
const DefaultIoUThreshold = 0.5

// NMSConfig defines parameters for Non-Maximum Suppression.
type NMSConfig struct {
	// IoUThreshold is the overlap above which a box is suppressed.
	IoUThreshold float32 `json:"iou_threshold" yaml:"iou_threshold"`
	// Edges selects how box edges are counted in the IoU computation.
	Edges images.EdgeConvention `json:"edges" yaml:"edges"`
}

// DefaultNMSConfig returns the suppression settings used by YOLOv2.
func DefaultNMSConfig() *NMSConfig {
	return &NMSConfig{
		IoUThreshold: DefaultIoUThreshold,
		Edges:        images.EdgesInclusive,
	}
}

// Suppress removes redundant overlapping boxes independently within each
// predicted class. Boxes of different classes never suppress each other.
//
// Within a class the highest scoring remaining box is accepted and every other
// remaining box whose IoU with it exceeds config.IoUThreshold is dropped, until
// the class is exhausted. Equal scores are ordered by Result.Index so the
// outcome does not depend on input order.
//
// Arguments:
//   - candidates: Unordered candidates. The slice is not modified.
//   - config: NMS configuration.
//
// Returns:
//   - The accepted candidates grouped by ascending class id. If no candidates
//     are provided, returns nil.
func Suppress(candidates []Result, config *NMSConfig) []Result {
	if len(candidates) == 0 {
		return nil
	}

	groups := make(map[int][]Result)
	for _, c := range candidates {
		groups[c.Class] = append(groups[c.Class], c)
	}

	classes := make([]int, 0, len(groups))
	for class := range groups {
		classes = append(classes, class)
	}
	sort.Ints(classes)

	accepted := make([]Result, 0, len(candidates))
	for _, class := range classes {
		group := groups[class]
		sortByRank(group)
		accepted = append(accepted, ApplyGreedyNMS(group, config)...)
	}

	return accepted
}

// ApplyGreedyNMS performs standard greedy Non-Maximum Suppression on a single
// group of detections, regardless of class.
//
// Arguments:
//   - detections: Slice of detections sorted by descending confidence.
//   - config: NMS configuration.
//
// Returns:
//   - Filtered slice of detections, still in descending confidence order.
func ApplyGreedyNMS(detections []Result, config *NMSConfig) []Result {
	n := len(detections)
	if n == 0 {
		return nil
	}

	filtered := make([]Result, 0, n)
	used := make([]bool, n)

	for i := 0; i < n; i++ {
		if used[i] {
			continue
		}

		anchor := detections[i]
		filtered = append(filtered, anchor)
		used[i] = true

		for j := i + 1; j < n; j++ {
			if used[j] {
				continue
			}

			// Suppress if IoU exceeds threshold
			if images.CalculateIoU(anchor.Box, detections[j].Box, config.Edges) > config.IoUThreshold {
				used[j] = true
			}
		}
	}

	return filtered
}

// sortByRank orders results by descending score, breaking ties by emission
// index.
func sortByRank(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return ranksBefore(results[i], results[j])
	})
}
