package metrics

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	c := NewCollector()

	counter := c.Counter(MetricRulesPassed)
	counter.Inc()
	counter.Inc()
	counter.Add(5)

	assert.Equal(t, int64(7), counter.Value())
	assert.Same(t, counter, c.Counter(MetricRulesPassed))
}

func TestCounter_Concurrent(t *testing.T) {
	counter := &Counter{}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				counter.Inc()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1000), counter.Value())
}

func TestHistogram(t *testing.T) {
	hist := NewHistogram(100)
	for i := 1; i <= 100; i++ {
		hist.Observe(float64(i))
	}

	stats := hist.Stats()
	assert.Equal(t, 100, stats.Count)
	assert.Equal(t, 1.0, stats.Min)
	assert.Equal(t, 100.0, stats.Max)
	assert.InDelta(t, 50.5, stats.Avg, 0.001)
	assert.Equal(t, 51.0, stats.P50)
}

func TestHistogram_Rotation(t *testing.T) {
	hist := NewHistogram(3)
	for i := 1; i <= 5; i++ {
		hist.Observe(float64(i))
	}

	stats := hist.Stats()
	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 3.0, stats.Min)
}

func TestHistogram_Empty(t *testing.T) {
	assert.Equal(t, HistogramStats{}, NewHistogram(10).Stats())
}

func TestTimer(t *testing.T) {
	c := NewCollector()
	timer := c.Timer(MetricRuleDuration)

	ctx := timer.Start()
	time.Sleep(5 * time.Millisecond)
	d := ctx.Stop()

	assert.GreaterOrEqual(t, d, 5*time.Millisecond)
	timer.Observe(time.Second)
	stats := timer.Stats()
	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, 1.0, stats.Max)
}

func TestExport(t *testing.T) {
	c := NewCollector()
	c.Counter(MetricRunsTotal).Inc()
	c.Timer(MetricRunDuration).Observe(2 * time.Second)

	data, err := c.Export()
	require.NoError(t, err)

	var decoded struct {
		Counters map[string]int64          `json:"counters"`
		Timers   map[string]HistogramStats `json:"timers"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, int64(1), decoded.Counters[MetricRunsTotal])
	assert.Equal(t, 1, decoded.Timers[MetricRunDuration].Count)
}

func TestExportPrometheus(t *testing.T) {
	c := NewCollector()
	c.Counter("b_total").Add(2)
	c.Counter("a_total").Inc()
	c.Timer("run").Observe(time.Second)

	out := c.ExportPrometheus()
	assert.Contains(t, out, "# TYPE a_total counter\na_total 1\n")
	assert.Contains(t, out, "run_seconds_count 1")
	assert.Less(t, strings.Index(out, "a_total"), strings.Index(out, "b_total"))
}

func TestReset(t *testing.T) {
	c := NewCollector()
	c.Counter("x").Inc()
	c.Reset()
	assert.Equal(t, int64(0), c.Counter("x").Value())
}

func TestGlobal(t *testing.T) {
	assert.Same(t, Global(), Global())
	before := Global().Counter("packagelint_test_total").Value()
	IncCounter("packagelint_test_total")
	assert.Equal(t, before+1, Global().Counter("packagelint_test_total").Value())
	StartTimer("packagelint_test").Stop()
}
