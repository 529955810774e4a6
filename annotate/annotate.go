// Package annotate - Renders recognitions and the region grid over a frame.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	"github.com/nvr-ai/go-yolov2/images"
	"github.com/nvr-ai/go-yolov2/models/yolov2"
)

// Style controls colors and line widths.
type Style struct {
	Background color.Color
	Grid       color.Color
	Box        color.Color
	Label      color.Color
	LineWidth  float64
}

// DefaultStyle draws green boxes over a faint white grid.
func DefaultStyle() Style {
	return Style{
		Background: color.Black,
		Grid:       color.RGBA{R: 255, G: 255, B: 255, A: 96},
		Box:        color.RGBA{G: 255, A: 255},
		Label:      color.White,
		LineWidth:  2,
	}
}

// Render draws res in network input coordinates.
//
// Arguments:
//   - frame: The source frame, resized to the input size. May be nil.
//   - res: The detections of the frame.
//   - cfg: The configuration the frame was decoded with.
//   - style: Colors and line widths.
//
// Returns:
//   - image.Image: An input sized RGBA image.
func Render(frame image.Image, res *yolov2.Result, cfg *yolov2.Config, style Style) image.Image {
	w, h := cfg.Geometry.InputWidth, cfg.Geometry.InputHeight
	dc := gg.NewContext(w, h)

	dc.SetColor(style.Background)
	dc.Clear()
	if frame != nil {
		if b := frame.Bounds(); b.Dx() != w || b.Dy() != h {
			frame = resize.Resize(uint(w), uint(h), frame, resize.Bilinear)
		}
		dc.DrawImage(frame, 0, 0)
	}

	drawRegions(dc, w, h, style)

	if res == nil {
		return dc.Image()
	}
	for _, r := range res.Recognitions {
		drawRecognition(dc, r, style)
	}
	return dc.Image()
}

// WritePNG renders and encodes the frame as PNG.
func WritePNG(out io.Writer, frame image.Image, res *yolov2.Result, cfg *yolov2.Config, style Style) error {
	img := Render(frame, res, cfg, style)
	dc := gg.NewContextForImage(img)
	return dc.EncodePNG(out)
}

// drawRegions outlines the 3x3 region grid and numbers each cell.
func drawRegions(dc *gg.Context, w, h int, style Style) {
	bw := float64(w) / yolov2.RegionGrid
	bh := float64(h) / yolov2.RegionGrid

	dc.SetColor(style.Grid)
	dc.SetLineWidth(1)
	for i := 1; i < yolov2.RegionGrid; i++ {
		dc.DrawLine(bw*float64(i), 0, bw*float64(i), float64(h))
		dc.DrawLine(0, bh*float64(i), float64(w), bh*float64(i))
	}
	dc.Stroke()

	for row := 0; row < yolov2.RegionGrid; row++ {
		for col := 0; col < yolov2.RegionGrid; col++ {
			label := strconv.Itoa(yolov2.RegionGrid*row + col + 1)
			dc.DrawStringAnchored(label, bw*(float64(col)+0.5), bh*(float64(row)+0.5), 0.5, 0.5)
		}
	}
}

func drawRecognition(dc *gg.Context, r yolov2.Recognition, style Style) {
	b := r.Box
	dc.SetColor(style.Box)
	dc.SetLineWidth(style.LineWidth)
	dc.DrawRectangle(float64(b.Left), float64(b.Top), float64(b.Width(images.EdgesExclusive)), float64(b.Height(images.EdgesExclusive)))
	dc.Stroke()

	label := fmt.Sprintf("%s %.2f", r.Name, r.Confidence)
	tw, th := dc.MeasureString(label)
	y := float64(b.Top) - th - 2
	if y < 0 {
		y = float64(b.Top)
	}
	dc.DrawRectangle(float64(b.Left), y, tw+4, th+4)
	dc.Fill()

	dc.SetColor(style.Label)
	dc.DrawStringAnchored(label, float64(b.Left)+2, y+2, 0, 1)
}
