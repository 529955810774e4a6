// Package util - Loading frames and tensor dumps from disk.
package util

import (
	"bufio"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nvr-ai/go-yolov2/models/yolov2"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Extensions of supported inputs.
var (
	ImageExtensions  = []string{".jpg", ".jpeg", ".png"}
	TensorExtensions = []string{".npy", ".bin"}
)

// ErrUnsupportedFormat is returned for a tensor dump with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported tensor format")

// FrameFile is one frame found on disk.
type FrameFile struct {
	// Path is the path to the file.
	Path string
	// Frame is the number parsed from a "frame-N" name, or -1.
	Frame int
}

// ListFrames returns the files in dir with one of the given extensions.
// Files named "frame-N.ext" come first, ordered by N; the rest follow by name.
//
// Arguments:
//   - dir: Directory containing frames.
//   - exts: Lower case extensions including the dot.
//
// Returns:
//   - []FrameFile: The frames in processing order.
//   - error: Error if the directory cannot be read.
func ListFrames(dir string, exts ...string) ([]FrameFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var frames []FrameFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !contains(exts, ext) {
			continue
		}
		frame, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())), "frame-"))
		if err != nil || frame < 0 {
			frame = -1
		}
		frames = append(frames, FrameFile{Path: filepath.Join(dir, entry.Name()), Frame: frame})
	}

	sort.SliceStable(frames, func(i, j int) bool {
		a, b := frames[i], frames[j]
		if (a.Frame < 0) != (b.Frame < 0) {
			return a.Frame >= 0
		}
		if a.Frame != b.Frame {
			return a.Frame < b.Frame
		}
		return a.Path < b.Path
	})

	return frames, nil
}

// LoadTensor reads a network output dump. ".npy" files must hold a float32
// array shaped like g.Shape(); ".bin" files hold raw little endian float32
// values in row-major order.
func LoadTensor(path string, g yolov2.Geometry) (*yolov2.PredictionTensor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".npy":
		dense := new(tensor.Dense)
		if err := dense.ReadNpy(bufio.NewReader(f)); err != nil {
			return nil, errors.Wrapf(err, "reading %s", path)
		}
		return yolov2.FromDense(dense, g)
	case ".bin":
		info, err := f.Stat()
		if err != nil {
			return nil, err
		}
		if info.Size()%4 != 0 {
			return nil, errors.Errorf("%s: size %d is not a multiple of 4", path, info.Size())
		}
		data := make([]float32, info.Size()/4)
		if err := binary.Read(bufio.NewReader(f), binary.LittleEndian, data); err != nil {
			return nil, errors.Wrapf(err, "reading %s", path)
		}
		return yolov2.NewPredictionTensor(data, g)
	default:
		return nil, errors.Wrap(ErrUnsupportedFormat, path)
	}
}

// SaveTensor writes a network output dump in the format selected by the
// extension of path.
func SaveTensor(path string, t *yolov2.PredictionTensor) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".npy":
		err = t.Dense().WriteNpy(w)
	case ".bin":
		err = writeFloats(w, t.Dense().Data().([]float32))
	default:
		err = errors.Wrap(ErrUnsupportedFormat, path)
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func writeFloats(w *bufio.Writer, data []float32) error {
	var buf [4]byte
	for _, v := range data {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
