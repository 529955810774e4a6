// Package logger - Structured logging setup shared by the detector and CLI.
package logger

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FrameIDKey is the field carrying the per-frame correlation id.
const FrameIDKey = "frame_id"

// Fields is an alias so callers do not need to import logrus for literals.
type Fields = logrus.Fields

// Options configures a logger.
type Options struct {
	// Level is a logrus level name. Empty selects "info".
	Level string `json:"level" yaml:"level"`
	// File, when set, receives a rotated copy of every entry.
	File string `json:"file" yaml:"file"`
	// MaxSizeMB is the size at which File is rotated.
	MaxSizeMB int `json:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of rotated files kept.
	MaxBackups int `json:"max_backups" yaml:"max_backups"`
	// MaxAgeDays is how long rotated files are kept.
	MaxAgeDays int `json:"max_age_days" yaml:"max_age_days"`
	// NoColors disables terminal colors.
	NoColors bool `json:"no_colors" yaml:"no_colors"`
	// ReportCaller adds file, line and function to every entry.
	ReportCaller bool `json:"report_caller" yaml:"report_caller"`
	// Output overrides stderr. Used by tests.
	Output io.Writer `json:"-" yaml:"-"`
}

// New builds a logger writing nested formatted entries to stderr and,
// optionally, to a rotating file.
//
// Arguments:
//   - opts: The logger options.
//
// Returns:
//   - *logrus.Logger: The logger.
//   - io.Closer: Closes the rotating file; a no-op when File is empty.
//   - error: An error if the level cannot be parsed.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		l, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, err
		}
		level = l
	}

	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(&formatter.Formatter{
		NoColors:        opts.NoColors,
		TimestampFormat: "2006-01-02 15:04:05.000",
		HideKeys:        false,
		CallerFirst:     true,
		CustomCallerFormatter: func(f *runtime.Frame) string {
			s := strings.Split(f.Function, ".")
			funcName := s[len(s)-1]
			return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, funcName)
		},
	})
	log.SetReportCaller(opts.ReportCaller)

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    withDefault(opts.MaxSizeMB, 100),
			MaxBackups: withDefault(opts.MaxBackups, 3),
			MaxAge:     withDefault(opts.MaxAgeDays, 7),
		}
		out = io.MultiWriter(out, file)
		closer = file
	}
	log.SetOutput(out)

	return log, closer, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
