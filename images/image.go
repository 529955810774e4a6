// Package images - Image loading and box geometry.
package images

import (
	"bytes"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"

	"github.com/pkg/errors"
)

// ImageFormat represents supported image formats.
type ImageFormat string

// ImageFormat constants.
const (
	// FormatJPEG is the JPEG image format.
	FormatJPEG ImageFormat = "jpeg"
	// FormatPNG is the PNG image format.
	FormatPNG ImageFormat = "png"
)

// Image is an encoded frame read from disk.
type Image struct {
	// The format of the image.
	Format ImageFormat `json:"format" yaml:"format"`
	// The encoded bytes of the image.
	Data []byte `json:"-" yaml:"-"`
	// The width of the image.
	Width int `json:"width" yaml:"width"`
	// The height of the image.
	Height int `json:"height" yaml:"height"`
}

// Load reads an encoded image and its header.
//
// Arguments:
//   - path: A JPEG or PNG file.
//
// Returns:
//   - *Image: The encoded image with its format and size.
//   - error: An error if the file cannot be read or is not a supported format.
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse reads the header of an encoded image.
func Parse(data []byte) (*Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "reading image header")
	}
	switch f := ImageFormat(format); f {
	case FormatJPEG, FormatPNG:
		return &Image{Format: f, Data: data, Width: cfg.Width, Height: cfg.Height}, nil
	default:
		return nil, errors.Errorf("unsupported image format %q", format)
	}
}

// Decode decodes the pixels.
func (i *Image) Decode() (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(i.Data))
	if err != nil {
		return nil, errors.Wrap(err, "decoding image")
	}
	return img, nil
}
