package inference

import (
	"image"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// PrepareInput resizes img to width x height and writes it into dst as NHWC
// float32 RGB in [0, 1].
//
// Arguments:
//   - img: The frame to prepare.
//   - dst: The destination buffer; must hold at least width*height*3 values.
//   - width: The network input width.
//   - height: The network input height.
//
// Returns:
//   - error: An error if dst is too small or the size is not positive.
func PrepareInput(img image.Image, dst []float32, width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.Errorf("invalid input size %dx%d", width, height)
	}
	if img == nil {
		return errors.New("image is nil")
	}
	if len(dst) < width*height*3 {
		return errors.Errorf("destination only holds %d floats, needs %d", len(dst), width*height*3)
	}

	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		img = resize.Resize(uint(width), uint(height), img, resize.Bilinear)
		b = img.Bounds()
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			dst[i] = float32(r>>8) / 255.0
			dst[i+1] = float32(g>>8) / 255.0
			dst[i+2] = float32(bl>>8) / 255.0
			i += 3
		}
	}
	return nil
}
