// Package profiler - Per stage timing of the detection pipeline.
package profiler

import (
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Stage names recorded by the detector.
const (
	StageInference   = "inference"
	StagePostprocess = "postprocess"
)

// DefaultMaxSamples is the size of the rolling window used for averages.
const DefaultMaxSamples = 600

// TimeTracker tracks timing statistics of one stage.
type TimeTracker struct {
	durations []time.Duration
	windowSum time.Duration
	minTime   time.Duration
	maxTime   time.Duration
	count     int64
}

// StageStats is a point in time view of a TimeTracker.
type StageStats struct {
	// Count is the number of completed operations since creation.
	Count int64 `json:"count"`
	// Min is the fastest operation seen.
	Min time.Duration `json:"min"`
	// Max is the slowest operation seen.
	Max time.Duration `json:"max"`
	// Average is the mean over the rolling window.
	Average time.Duration `json:"average"`
	// Last is the most recent duration.
	Last time.Duration `json:"last"`
}

// StageProfiler records how long each pipeline stage takes and counts events
// such as dropped frames. It is safe for concurrent use.
type StageProfiler struct {
	mu         sync.Mutex
	maxSamples int
	stages     map[string]*TimeTracker
	counters   map[string]int64
}

// NewStageProfiler creates a profiler keeping at most maxSamples durations per
// stage for averaging. A non-positive value selects DefaultMaxSamples.
func NewStageProfiler(maxSamples int) *StageProfiler {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	return &StageProfiler{
		maxSamples: maxSamples,
		stages:     make(map[string]*TimeTracker),
		counters:   make(map[string]int64),
	}
}

// StartOperation begins timing a stage.
//
// Arguments:
//   - name: The stage to track.
//
// Returns:
//   - A function to call when the stage completes. It returns the measured
//     duration.
//
// Example:
//
//	done := p.StartOperation(profiler.StageInference)
//	out, err := predictor.Predict(ctx, input)
//	elapsed := done()
func (p *StageProfiler) StartOperation(name string) func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		d := time.Since(start)
		p.Record(name, d)
		return d
	}
}

// Record adds one completed operation to a stage.
func (p *StageProfiler) Record(name string, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tracker, ok := p.stages[name]
	if !ok {
		tracker = &TimeTracker{minTime: d, maxTime: d}
		p.stages[name] = tracker
	}

	tracker.durations = append(tracker.durations, d)
	tracker.windowSum += d
	if len(tracker.durations) > p.maxSamples {
		tracker.windowSum -= tracker.durations[0]
		tracker.durations = tracker.durations[1:]
	}
	tracker.count++

	if d < tracker.minTime {
		tracker.minTime = d
	}
	if d > tracker.maxTime {
		tracker.maxTime = d
	}
}

// Increment adds one to a named counter.
func (p *StageProfiler) Increment(name string) {
	p.mu.Lock()
	p.counters[name]++
	p.mu.Unlock()
}

// Counter returns the current value of a named counter.
func (p *StageProfiler) Counter(name string) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counters[name]
}

// Snapshot returns the statistics of every stage recorded so far.
func (p *StageProfiler) Snapshot() map[string]StageStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string]StageStats, len(p.stages))
	for name, t := range p.stages {
		s := StageStats{Count: t.count, Min: t.minTime, Max: t.maxTime}
		if n := len(t.durations); n > 0 {
			s.Average = t.windowSum / time.Duration(n)
			s.Last = t.durations[n-1]
		}
		out[name] = s
	}
	return out
}

// Report logs one line per stage and counter at info level, in name order.
func (p *StageProfiler) Report(log logrus.FieldLogger) {
	stats := p.Snapshot()
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := stats[name]
		log.WithFields(logrus.Fields{
			"stage":   name,
			"count":   s.Count,
			"avg_ms":  float64(s.Average.Microseconds()) / 1000,
			"min_ms":  float64(s.Min.Microseconds()) / 1000,
			"max_ms":  float64(s.Max.Microseconds()) / 1000,
			"last_ms": float64(s.Last.Microseconds()) / 1000,
		}).Info("stage timing")
	}

	p.mu.Lock()
	counters := make(logrus.Fields, len(p.counters))
	for name, v := range p.counters {
		counters[name] = v
	}
	p.mu.Unlock()
	if len(counters) > 0 {
		log.WithFields(counters).Info("counters")
	}
}
