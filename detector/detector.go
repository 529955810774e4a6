// Package detector - Runs frames through inference and decoding one at a time.
package detector

import (
	"context"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/nvr-ai/go-yolov2/inference"
	"github.com/nvr-ai/go-yolov2/logger"
	"github.com/nvr-ai/go-yolov2/models/yolov2"
	"github.com/nvr-ai/go-yolov2/profiler"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// CounterDropped counts frames rejected because another frame was in flight.
const CounterDropped = "frames_dropped"

var (
	// ErrBusy is returned when a frame arrives while another is being processed.
	// The frame is dropped, never queued.
	ErrBusy = errors.New("detector busy, frame dropped")
	// ErrNoPredictor is returned when inference is requested from a detector
	// built without a predictor.
	ErrNoPredictor = errors.New("uninitialized detector")
)

// FrameTiming is the wall time spent in each stage of one frame.
type FrameTiming struct {
	Inference   time.Duration `json:"inference"`
	Postprocess time.Duration `json:"postprocess"`
}

// String renders the timing the way the frame overlay shows it.
func (t FrameTiming) String() string {
	return fmt.Sprintf("Inference: %d ms Prediction: %d ms", t.Inference.Milliseconds(), t.Postprocess.Milliseconds())
}

// Frame is the outcome of one processed frame.
type Frame struct {
	ID     uuid.UUID      `json:"id"`
	Result *yolov2.Result `json:"result"`
	Timing FrameTiming    `json:"timing"`
}

// Detector enforces that a frame is fully decoded before the next one starts.
// Frames arriving in the meantime fail fast with ErrBusy.
type Detector struct {
	predictor inference.Predictor
	config    *yolov2.Config
	gate      *semaphore.Weighted
	input     []float32
	log       logrus.FieldLogger
	profiler  *profiler.StageProfiler
	last      atomic.Pointer[Frame]
}

// Option customizes a Detector.
type Option func(*Detector)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log logrus.FieldLogger) Option {
	return func(d *Detector) {
		d.log = log
	}
}

// WithProfiler sets the stage profiler. The default keeps a private one.
func WithProfiler(p *profiler.StageProfiler) Option {
	return func(d *Detector) {
		d.profiler = p
	}
}

// New creates a detector.
//
// Arguments:
//   - predictor: Runs the network. May be nil when only Process is used.
//   - cfg: The decode configuration.
//   - opts: Optional settings.
//
// Returns:
//   - *Detector: The detector.
//   - error: An error wrapping yolov2.ErrInvalidConfig.
//
// Example:
//
//	d, err := detector.New(session, yolov2.DefaultConfig(), detector.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	frame, err := d.DetectImage(ctx, img)
func New(predictor inference.Predictor, cfg *yolov2.Config, opts ...Option) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &Detector{
		predictor: predictor,
		config:    cfg,
		gate:      semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = logger.Discard()
	}
	if d.profiler == nil {
		d.profiler = profiler.NewStageProfiler(0)
	}
	return d, nil
}

// Config returns the decode configuration.
func (d *Detector) Config() *yolov2.Config {
	return d.config
}

// Profiler returns the stage profiler.
func (d *Detector) Profiler() *profiler.StageProfiler {
	return d.profiler
}

// Last returns the most recently completed frame, or nil.
func (d *Detector) Last() *Frame {
	return d.last.Load()
}

// DetectImage preprocesses img, runs inference and decodes the output.
func (d *Detector) DetectImage(ctx context.Context, img image.Image) (*Frame, error) {
	if err := d.acquire(); err != nil {
		return nil, err
	}
	defer d.gate.Release(1)

	g := d.config.Geometry
	if d.input == nil {
		d.input = make([]float32, g.InputWidth*g.InputHeight*3)
	}
	if err := inference.PrepareInput(img, d.input, g.InputWidth, g.InputHeight); err != nil {
		return nil, errors.Wrap(err, "preparing input")
	}
	return d.run(ctx, d.input)
}

// DetectInput runs inference on an already preprocessed NHWC input and
// decodes the output.
func (d *Detector) DetectInput(ctx context.Context, input []float32) (*Frame, error) {
	if err := d.acquire(); err != nil {
		return nil, err
	}
	defer d.gate.Release(1)

	return d.run(ctx, input)
}

// Process decodes an output tensor produced elsewhere.
func (d *Detector) Process(ctx context.Context, t *yolov2.PredictionTensor) (*Frame, error) {
	if err := d.acquire(); err != nil {
		return nil, err
	}
	defer d.gate.Release(1)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.decode(uuid.New(), t, FrameTiming{})
}

func (d *Detector) acquire() error {
	if !d.gate.TryAcquire(1) {
		d.profiler.Increment(CounterDropped)
		d.log.Warn("frame dropped, previous frame still in flight")
		return ErrBusy
	}
	return nil
}

func (d *Detector) run(ctx context.Context, input []float32) (*Frame, error) {
	if d.predictor == nil {
		return nil, ErrNoPredictor
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.New()
	done := d.profiler.StartOperation(profiler.StageInference)
	out, err := d.predictor.Predict(ctx, input)
	timing := FrameTiming{Inference: done()}
	if err != nil {
		d.log.WithError(err).WithField(logger.FrameIDKey, id).Error("inference failed")
		return nil, errors.Wrap(err, "inference failed")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.decode(id, out, timing)
}

func (d *Detector) decode(id uuid.UUID, t *yolov2.PredictionTensor, timing FrameTiming) (*Frame, error) {
	done := d.profiler.StartOperation(profiler.StagePostprocess)
	res, err := yolov2.Detect(t, d.config)
	timing.Postprocess = done()
	if err != nil {
		return nil, err
	}

	frame := &Frame{ID: id, Result: res, Timing: timing}
	d.last.Store(frame)

	d.log.WithFields(logrus.Fields{
		logger.FrameIDKey: id,
		"candidates":      res.Candidates,
		"suppressed":      res.Suppressed,
		"recognitions":    len(res.Recognitions),
		"inference_ms":    timing.Inference.Milliseconds(),
		"postprocess_ms":  timing.Postprocess.Milliseconds(),
	}).Debug("frame processed")

	return frame, nil
}
