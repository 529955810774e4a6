package profiler

import (
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageProfilerRecord(t *testing.T) {
	p := NewStageProfiler(2)

	p.Record(StageInference, 30*time.Millisecond)
	p.Record(StageInference, 10*time.Millisecond)
	p.Record(StageInference, 20*time.Millisecond)

	s := p.Snapshot()[StageInference]
	assert.Equal(t, int64(3), s.Count)
	assert.Equal(t, 10*time.Millisecond, s.Min)
	assert.Equal(t, 30*time.Millisecond, s.Max)
	assert.Equal(t, 15*time.Millisecond, s.Average, "average covers the last two samples only")
	assert.Equal(t, 20*time.Millisecond, s.Last)
}

func TestStageProfilerStartOperation(t *testing.T) {
	p := NewStageProfiler(0)

	done := p.StartOperation(StagePostprocess)
	time.Sleep(time.Millisecond)
	d := done()

	s, ok := p.Snapshot()[StagePostprocess]
	require.True(t, ok)
	assert.Equal(t, int64(1), s.Count)
	assert.Equal(t, d, s.Last)
	assert.GreaterOrEqual(t, d, time.Millisecond)
}

func TestStageProfilerConcurrent(t *testing.T) {
	p := NewStageProfiler(10)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p.Record(StageInference, time.Microsecond)
				p.Increment("frames")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(800), p.Snapshot()[StageInference].Count)
	assert.Equal(t, int64(800), p.Counter("frames"))
	assert.Equal(t, int64(0), p.Counter("dropped"))
}

func TestStageProfilerReport(t *testing.T) {
	log, hook := test.NewNullLogger()
	p := NewStageProfiler(0)
	p.Record(StagePostprocess, 2*time.Millisecond)
	p.Record(StageInference, 5*time.Millisecond)
	p.Increment("dropped")

	p.Report(log)

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, StageInference, entries[0].Data["stage"])
	assert.Equal(t, 5.0, entries[0].Data["avg_ms"])
	assert.Equal(t, StagePostprocess, entries[1].Data["stage"])
	assert.Equal(t, int64(1), entries[2].Data["dropped"])
	assert.Equal(t, logrus.InfoLevel, entries[2].Level)
}
