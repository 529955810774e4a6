package yolov2

import (
	"strconv"
	"strings"

	"github.com/nvr-ai/go-yolov2/images"
)

// RegionGrid is the number of bands each axis is split into for region labels.
const RegionGrid = 3

// RegionLabel maps the centroid of a box to a cell of a 3x3 grid over the
// input, numbered row by row from 1 (top-left) to 9 (bottom-right).
//
// Each axis is quantized by integer division of the truncated coordinate sum
// by twice the band size (416/3 = 138 pixels by default). Centroids on the
// last pixel row or column fall into the last band.
//
// Arguments:
//   - box: A box in input pixel coordinates.
//   - cfg: The configuration supplying the input size.
//
// Returns:
//   - A label in [1, 9].
//
// Example:
//
//	RegionLabel(images.Rect{Left: 198, Top: 198, Right: 218, Bottom: 218}, DefaultConfig()) // 5
func RegionLabel(box images.Rect, cfg *Config) int {
	cx, cy := box.Center()
	row := band(int(2*cy), cfg.Geometry.InputHeight/RegionGrid)
	col := band(int(2*cx), cfg.Geometry.InputWidth/RegionGrid)
	return RegionGrid*row + col + 1
}

// band quantizes a doubled coordinate into [0, RegionGrid).
func band(doubled, size int) int {
	if size <= 0 || doubled < 0 {
		return 0
	}
	return min(doubled/(2*size), RegionGrid-1)
}

// Describe builds the narration string for a frame: every recognition scoring
// at least cfg.DisplayThreshold, in order, as "<name> <region>" followed by
// cfg.Separator. At most cfg.MaxResults entries are written.
//
// Arguments:
//   - recs: Recognitions ordered by descending confidence.
//   - cfg: The configuration supplying thresholds and the separator.
//
// Returns:
//   - The display string, empty when nothing qualifies.
func Describe(recs []Recognition, cfg *Config) string {
	var sb strings.Builder
	written := 0
	for _, r := range recs {
		if written >= cfg.MaxResults {
			break
		}
		if r.Confidence < cfg.DisplayThreshold {
			continue
		}
		sb.WriteString(r.Name)
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(RegionLabel(r.Box, cfg)))
		sb.WriteString(cfg.Separator)
		written++
	}
	return sb.String()
}
