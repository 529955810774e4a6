// Command yolov2 decodes tiny YOLOv2 outputs, either from tensor dumps or by
// running an ONNX model on images, and reports what it sees.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/nvr-ai/go-yolov2/annotate"
	"github.com/nvr-ai/go-yolov2/config"
	"github.com/nvr-ai/go-yolov2/detector"
	"github.com/nvr-ai/go-yolov2/images"
	"github.com/nvr-ai/go-yolov2/inference"
	"github.com/nvr-ai/go-yolov2/logger"
	"github.com/nvr-ai/go-yolov2/models/yolov2"
	"github.com/nvr-ai/go-yolov2/util"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type options struct {
	configPath  string
	tensorPath  string
	imagePath   string
	modelPath   string
	annotateDir string
	jsonOutput  bool
	logLevel    string
	logFile     string
}

// report is one JSON line written per frame with -json.
type report struct {
	File         string               `json:"file"`
	FrameID      string               `json:"frame_id"`
	Recognitions []yolov2.Recognition `json:"recognitions"`
	Regions      []int                `json:"regions"`
	Display      string               `json:"display"`
	TopLabels    yolov2.LabelSummary  `json:"top_labels"`
	Timing       detector.FrameTiming `json:"timing"`
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Path to a YAML configuration file")
	flag.StringVar(&opts.tensorPath, "tensor", "", "Output tensor dump (.npy, .bin) or a directory of dumps")
	flag.StringVar(&opts.imagePath, "image", "", "Image (.jpg, .jpeg, .png) or a directory of images")
	flag.StringVar(&opts.modelPath, "model", "", "Path to the ONNX model, overrides the configuration")
	flag.StringVar(&opts.annotateDir, "annotate", "", "Directory to write annotated PNGs to")
	flag.BoolVar(&opts.jsonOutput, "json", false, "Write one JSON report per frame to stdout")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level, overrides the configuration")
	flag.StringVar(&opts.logFile, "log-file", "", "Rotated log file, overrides the configuration")
	flag.Parse()

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "yolov2:", err)
		os.Exit(1)
	}
}

func run(opts options, stdout io.Writer) error {
	if (opts.tensorPath == "") == (opts.imagePath == "") {
		return errors.New("exactly one of -tensor or -image is required")
	}

	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return err
		}
	}
	if opts.modelPath != "" {
		cfg.Model.Path = opts.modelPath
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}

	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	m, err := cfg.NewModel()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var (
		predictor inference.Predictor
		inputs    []util.FrameFile
	)
	if opts.imagePath != "" {
		session, err := inference.NewSession(m, cfg.Runtime)
		if err != nil {
			return err
		}
		defer inference.Shutdown()
		defer session.Close()
		predictor = session

		if inputs, err = collect(opts.imagePath, util.ImageExtensions); err != nil {
			return err
		}
	} else if inputs, err = collect(opts.tensorPath, util.TensorExtensions); err != nil {
		return err
	}

	d, err := detector.New(predictor, m.Config(), detector.WithLogger(log))
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"model":  m.Options().Name,
		"frames": len(inputs),
	}).Info("starting")

	if opts.annotateDir != "" {
		if err := os.MkdirAll(opts.annotateDir, 0o755); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(stdout)
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame, img, err := processFrame(ctx, d, in.Path, opts.imagePath != "")
		if err != nil {
			return errors.Wrap(err, in.Path)
		}

		if opts.jsonOutput {
			if err := enc.Encode(newReport(in.Path, frame)); err != nil {
				return err
			}
		} else {
			printFrame(stdout, in.Path, frame)
		}

		if opts.annotateDir != "" {
			if err := writeAnnotation(opts.annotateDir, in.Path, img, frame, m.Config()); err != nil {
				return err
			}
		}
	}

	d.Profiler().Report(log)
	return nil
}

// collect returns path itself, or the frames found in it when it is a directory.
func collect(path string, exts []string) ([]util.FrameFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []util.FrameFile{{Path: path, Frame: -1}}, nil
	}
	return util.ListFrames(path, exts...)
}

func processFrame(ctx context.Context, d *detector.Detector, path string, isImage bool) (*detector.Frame, image.Image, error) {
	if !isImage {
		t, err := util.LoadTensor(path, d.Config().Geometry)
		if err != nil {
			return nil, nil, err
		}
		frame, err := d.Process(ctx, t)
		return frame, nil, err
	}

	encoded, err := images.Load(path)
	if err != nil {
		return nil, nil, err
	}
	img, err := encoded.Decode()
	if err != nil {
		return nil, nil, err
	}
	frame, err := d.DetectImage(ctx, img)
	return frame, img, err
}

func newReport(path string, frame *detector.Frame) report {
	res := frame.Result
	return report{
		File:         path,
		FrameID:      frame.ID.String(),
		Recognitions: res.Recognitions,
		Regions:      res.Regions,
		Display:      res.Display,
		TopLabels:    res.TopLabels(yolov2.DefaultLabelsToShow),
		Timing:       frame.Timing,
	}
}

func printFrame(w io.Writer, path string, frame *detector.Frame) {
	res := frame.Result
	fmt.Fprintf(w, "%s\n", path)
	for _, r := range res.Recognitions {
		fmt.Fprintf(w, "  %s\n", r)
	}
	if res.Display != "" {
		fmt.Fprintf(w, "  %s\n", strings.TrimRight(res.Display, " "))
	}
	for _, line := range strings.Split(strings.TrimSuffix(res.TopLabels(yolov2.DefaultLabelsToShow).String(), "\n"), "\n") {
		if line != "" {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	fmt.Fprintf(w, "  %s\n", frame.Timing)
}

func writeAnnotation(dir, path string, img image.Image, frame *detector.Frame, cfg *yolov2.Config) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".png"
	out, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	if err := annotate.WritePNG(out, img, frame.Result, cfg, annotate.DefaultStyle()); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
