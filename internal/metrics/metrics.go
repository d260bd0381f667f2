// Package metrics collects counters and timings for packagelint runs.
package metrics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Collector collects and manages metrics.
type Collector struct {
	mu        sync.RWMutex
	counters  map[string]*Counter
	timers    map[string]*Timer
	startTime time.Time
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		counters:  make(map[string]*Counter),
		timers:    make(map[string]*Timer),
		startTime: time.Now(),
	}
}

// Counter is a monotonically increasing counter.
type Counter struct {
	value atomic.Int64
}

// Inc increments the counter by 1.
func (c *Counter) Inc() {
	c.value.Add(1)
}

// Add adds n to the counter.
func (c *Counter) Add(n int64) {
	c.value.Add(n)
}

// Value returns the current counter value.
func (c *Counter) Value() int64 {
	return c.value.Load()
}

// Histogram keeps the most recent observations.
type Histogram struct {
	values []float64
	mu     sync.Mutex
	max    int
}

// NewHistogram creates a new histogram with max values capacity.
func NewHistogram(maxValues int) *Histogram {
	return &Histogram{
		values: make([]float64, 0, maxValues),
		max:    maxValues,
	}
}

// Observe records a value in the histogram.
func (h *Histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.values) >= h.max {
		h.values = h.values[1:]
	}
	h.values = append(h.values, v)
}

// Stats returns histogram statistics.
func (h *Histogram) Stats() HistogramStats {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.values) == 0 {
		return HistogramStats{}
	}

	sorted := make([]float64, len(h.values))
	copy(sorted, h.values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	n := len(sorted)
	return HistogramStats{
		Count: n,
		Min:   sorted[0],
		Max:   sorted[n-1],
		Avg:   sum / float64(n),
		P50:   sorted[n*50/100],
		P90:   sorted[n*90/100],
		P99:   sorted[(n*99)/100],
	}
}

// HistogramStats contains histogram statistics.
type HistogramStats struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	P50   float64 `json:"p50"`
	P90   float64 `json:"p90"`
	P99   float64 `json:"p99"`
}

// Timer measures durations in seconds.
type Timer struct {
	histogram *Histogram
}

// Start starts a new timer context.
func (t *Timer) Start() *TimerContext {
	return &TimerContext{timer: t, start: time.Now()}
}

// Observe records a duration measured elsewhere.
func (t *Timer) Observe(d time.Duration) {
	t.histogram.Observe(d.Seconds())
}

// Stats returns statistics over the recorded durations.
func (t *Timer) Stats() HistogramStats {
	return t.histogram.Stats()
}

// TimerContext represents an active timer.
type TimerContext struct {
	timer *Timer
	start time.Time
}

// Stop stops the timer and records the duration.
func (tc *TimerContext) Stop() time.Duration {
	d := time.Since(tc.start)
	tc.timer.Observe(d)
	return d
}

// Counter returns or creates a counter.
func (c *Collector) Counter(name string) *Counter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if counter, ok := c.counters[name]; ok {
		return counter
	}
	counter := &Counter{}
	c.counters[name] = counter
	return counter
}

// Timer returns or creates a timer.
func (c *Collector) Timer(name string) *Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	if timer, ok := c.timers[name]; ok {
		return timer
	}
	timer := &Timer{histogram: NewHistogram(1000)}
	c.timers[name] = timer
	return timer
}

// Uptime returns the duration since the collector was created.
func (c *Collector) Uptime() time.Duration {
	return time.Since(c.startTime)
}

// Export exports metrics to JSON.
func (c *Collector) Export() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	export := struct {
		Uptime   string                    `json:"uptime"`
		Counters map[string]int64          `json:"counters"`
		Timers   map[string]HistogramStats `json:"timers"`
	}{
		Uptime:   time.Since(c.startTime).String(),
		Counters: make(map[string]int64, len(c.counters)),
		Timers:   make(map[string]HistogramStats, len(c.timers)),
	}

	for name, counter := range c.counters {
		export.Counters[name] = counter.Value()
	}
	for name, timer := range c.timers {
		export.Timers[name] = timer.Stats()
	}

	return json.MarshalIndent(export, "", "  ")
}

// ExportPrometheus exports metrics in Prometheus text format, sorted by name.
func (c *Collector) ExportPrometheus() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var sb strings.Builder

	for _, name := range sortedKeys(c.counters) {
		fmt.Fprintf(&sb, "# TYPE %s counter\n", name)
		fmt.Fprintf(&sb, "%s %d\n", name, c.counters[name].Value())
	}

	for _, name := range sortedKeys(c.timers) {
		stats := c.timers[name].Stats()
		fmt.Fprintf(&sb, "# TYPE %s_seconds summary\n", name)
		fmt.Fprintf(&sb, "%s_seconds_count %d\n", name, stats.Count)
		fmt.Fprintf(&sb, "%s_seconds{quantile=\"0.5\"} %f\n", name, stats.P50)
		fmt.Fprintf(&sb, "%s_seconds{quantile=\"0.9\"} %f\n", name, stats.P90)
		fmt.Fprintf(&sb, "%s_seconds{quantile=\"0.99\"} %f\n", name, stats.P99)
	}

	return sb.String()
}

// Reset resets all metrics.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counters = make(map[string]*Counter)
	c.timers = make(map[string]*Timer)
	c.startTime = time.Now()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
