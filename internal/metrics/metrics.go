// Package metrics implements a lightweight performance collector:
// per-name timing samples plus counters, summarized on demand, backed
// by github.com/armon/go-metrics. internal/* packages otherwise stay
// silent; a Collector is an opt-in instrument a caller threads
// through, not something the core reaches for on its own.
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	gometrics "github.com/armon/go-metrics"
)

// Collector records timing samples and counters for one analysis run.
// Each Collector owns a private in-memory sink so concurrent *Analyzer
// instances and concurrent tests never share state through a
// package-level global.
type Collector struct {
	m    *gometrics.Metrics
	sink *gometrics.InmemSink
}

// New creates a Collector under the given service name, attached to
// every metric as a go-metrics "service" label rather than a key
// prefix, so Summary is keyed by the exact names passed to Time,
// Increment and Add. The sink retains a single long interval with
// no windowing, so Summary reflects the Collector's entire lifetime.
func New(service string) *Collector {
	sink := gometrics.NewInmemSink(time.Hour, time.Hour)
	conf := gometrics.DefaultConfig(service)
	conf.EnableHostname = false
	conf.EnableRuntimeMetrics = false
	conf.EnableServiceLabel = true
	m, _ := gometrics.New(conf, sink)
	return &Collector{m: m, sink: sink}
}

// Time starts a timing measurement and returns a stop function that
// records the elapsed duration:
//
//	stop := c.Time("analyze.module")
//	defer stop()
func (c *Collector) Time(name string) func() {
	start := time.Now()
	return func() { c.m.MeasureSince([]string{name}, start) }
}

// Increment adds 1 to a counter.
func (c *Collector) Increment(name string) { c.m.IncrCounter([]string{name}, 1) }

// Add adds value to a counter.
func (c *Collector) Add(name string, value float32) { c.m.IncrCounter([]string{name}, value) }

// TimingStats aggregates the samples recorded under one name
// (count/mean/min/max/total). go-metrics' in-memory sink aggregates
// samples on the fly and does not retain the raw population, so
// percentiles are not reconstructable here and are omitted rather
// than faked from an aggregate.
type TimingStats struct {
	Count int
	Total time.Duration
	Mean  time.Duration
	Min   time.Duration
	Max   time.Duration
}

// Summary is a point-in-time snapshot of the collector: every
// timing and counter recorded since the Collector was created.
type Summary struct {
	Timings  map[string]TimingStats
	Counters map[string]int64
}

// Summary aggregates every interval the in-memory sink has retained
// A name present in more than
// one retained interval is merged rather than overwritten.
func (c *Collector) Summary() Summary {
	out := Summary{Timings: map[string]TimingStats{}, Counters: map[string]int64{}}
	for _, interval := range c.sink.Data() {
		// Map keys carry the flattened labels; s.Name is the bare name.
		for _, s := range interval.Samples {
			out.Timings[s.Name] = mergeTimingStats(out.Timings[s.Name], s)
		}
		for _, s := range interval.Counters {
			out.Counters[s.Name] += int64(s.Sum)
		}
	}
	return out
}

// go-metrics records MeasureSince durations in milliseconds as a
// float64 aggregate; mergeTimingStats converts back to time.Duration
// and folds a second retained interval's aggregate into the first.
func mergeTimingStats(prev TimingStats, s gometrics.SampledValue) TimingStats {
	count := prev.Count + s.Count
	total := prev.Total + time.Duration(s.Sum*float64(time.Millisecond))
	min := time.Duration(s.Min * float64(time.Millisecond))
	max := time.Duration(s.Max * float64(time.Millisecond))
	if prev.Count > 0 && prev.Min < min {
		min = prev.Min
	}
	if prev.Count > 0 && prev.Max > max {
		max = prev.Max
	}
	var mean time.Duration
	if count > 0 {
		mean = total / time.Duration(count)
	}
	return TimingStats{Count: count, Total: total, Mean: mean, Min: min, Max: max}
}

// Report renders a human-readable text report, consumed by cmd/gtc's
// stats printing. Names are sorted so the report is deterministic
// across runs.
func (s Summary) Report() string {
	var b strings.Builder

	timingNames := make([]string, 0, len(s.Timings))
	for name := range s.Timings {
		timingNames = append(timingNames, name)
	}
	sort.Strings(timingNames)
	for _, name := range timingNames {
		t := s.Timings[name]
		fmt.Fprintf(&b, "%s: count=%d total=%s mean=%s min=%s max=%s\n",
			name, t.Count, t.Total, t.Mean, t.Min, t.Max)
	}

	counterNames := make([]string, 0, len(s.Counters))
	for name := range s.Counters {
		counterNames = append(counterNames, name)
	}
	sort.Strings(counterNames)
	for _, name := range counterNames {
		fmt.Fprintf(&b, "%s: %d\n", name, s.Counters[name])
	}

	return b.String()
}
