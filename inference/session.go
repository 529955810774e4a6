package inference

import (
	"context"
	"os"
	"sync"

	"github.com/nvr-ai/go-yolov2/models/yolov2"
	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
)

// ErrLibraryNotFound is returned when the onnxruntime shared library is missing.
var ErrLibraryNotFound = errors.New("onnxruntime library not found")

// Session runs a tiny YOLOv2 ONNX model with preallocated input and output
// tensors. Runs are serialized; a Session may be shared between goroutines.
type Session struct {
	mu       sync.Mutex
	session  *ort.AdvancedSession
	input    *ort.Tensor[float32]
	output   *ort.Tensor[float32]
	geometry yolov2.Geometry
}

// NewSession loads the model described by m into an onnxruntime session.
//
// The onnxruntime environment is initialized on first use and shared by every
// session in the process. Call Shutdown once all sessions are closed.
//
// Arguments:
//   - m: The model. Its path, tensor names and shapes are used as is.
//   - opts: Runtime options.
//
// Returns:
//   - *Session: The session, which must be closed by the caller.
//   - error: ErrLibraryNotFound, or an error from onnxruntime.
//
// Example:
//
//	m, _ := yolov2.NewModel(model.NewModelArgs{Path: "tiny-yolov2.onnx"}, nil)
//	s, err := inference.NewSession(m, inference.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	defer s.Close()
func NewSession(m *yolov2.YOLOv2, opts Options) (*Session, error) {
	base := m.Options()
	if len(base.Inputs) != 1 || len(base.Outputs) != 1 {
		return nil, errors.Errorf("expected one input and one output, got %d and %d",
			len(base.Inputs), len(base.Outputs))
	}

	if err := initEnvironment(opts.SharedLibraryPath); err != nil {
		return nil, err
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(base.InputShape...))
	if err != nil {
		return nil, errors.Wrap(err, "creating input tensor")
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(base.OutputShape...))
	if err != nil {
		input.Destroy()
		return nil, errors.Wrap(err, "creating output tensor")
	}

	options, err := sessionOptions(opts)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, err
	}
	defer options.Destroy()

	session, err := ort.NewAdvancedSession(
		base.Path,
		base.Inputs,
		base.Outputs,
		[]ort.Value{input},
		[]ort.Value{output},
		options,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, errors.Wrapf(err, "loading model %s", base.Path)
	}

	return &Session{
		session:  session,
		input:    input,
		output:   output,
		geometry: m.Config().Geometry,
	}, nil
}

// Predict copies input into the session, runs the model and returns a copy of
// the output grid.
func (s *Session) Predict(ctx context.Context, input []float32) (*yolov2.PredictionTensor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, errors.New("session is closed")
	}

	dst := s.input.GetData()
	if len(input) != len(dst) {
		return nil, errors.Errorf("input holds %d values, model expects %d", len(input), len(dst))
	}
	copy(dst, input)

	if err := s.session.Run(); err != nil {
		return nil, errors.Wrap(err, "running session")
	}

	out := make([]float32, len(s.output.GetData()))
	copy(out, s.output.GetData())
	return yolov2.NewPredictionTensor(out, s.geometry)
}

// Close releases the native session and its tensors.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.input != nil {
		s.input.Destroy()
		s.input = nil
	}
	if s.output != nil {
		s.output.Destroy()
		s.output = nil
	}
	if s.session != nil {
		err := s.session.Destroy()
		s.session = nil
		if err != nil {
			return errors.Wrap(err, "destroying session")
		}
	}
	return nil
}

var envMu sync.Mutex

// initEnvironment loads the shared library once per process.
func initEnvironment(libPath string) error {
	envMu.Lock()
	defer envMu.Unlock()

	if ort.IsInitialized() {
		return nil
	}
	if libPath == "" {
		libPath = DefaultSharedLibraryPath()
	}
	if _, err := os.Stat(libPath); err != nil {
		return errors.Wrapf(ErrLibraryNotFound, "%s: %v", libPath, err)
	}

	ort.SetSharedLibraryPath(libPath)
	if err := ort.InitializeEnvironment(); err != nil {
		return errors.Wrap(err, "initializing onnxruntime")
	}
	return nil
}

// Shutdown releases the process wide onnxruntime environment.
func Shutdown() error {
	envMu.Lock()
	defer envMu.Unlock()

	if !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}
