// Package metrics exposes benchmark timings and runtime memory statistics as
// Prometheus metrics, written to a text file after a run.
package metrics

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "matbench"

// BenchmarkMetrics holds the collectors for one matbench process. Each
// instance owns a private registry, so tests and sweeps never collide with
// the default registerer.
type BenchmarkMetrics struct {
	registry *prometheus.Registry

	duration  *prometheus.GaugeVec
	gflops    *prometheus.GaugeVec
	runs      *prometheus.CounterVec
	speedup   *prometheus.GaugeVec
	workers   prometheus.Gauge
	heapAlloc prometheus.Gauge
	numGC     prometheus.Gauge
	gcPause   prometheus.Gauge
	heapRatio *prometheus.GaugeVec
}

// NewBenchmarkMetrics creates and registers the benchmark collectors.
func NewBenchmarkMetrics() *BenchmarkMetrics {
	m := &BenchmarkMetrics{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "multiply_duration_seconds",
			Help:      "Wall-clock duration of the last multiplication per strategy and size.",
		}, []string{"strategy", "size"}),
		gflops: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "multiply_gflops",
			Help:      "Throughput of the last multiplication, counting 2n^3 floating-point operations.",
		}, []string{"strategy", "size"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "multiply_runs_total",
			Help:      "Number of multiplications by strategy and outcome.",
		}, []string{"strategy", "status"}),
		speedup: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "parallel_speedup_ratio",
			Help:      "Sequential duration divided by parallel duration.",
		}, []string{"size"}),
		workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "parallel_workers",
			Help:      "Worker count used by the parallel strategy.",
		}),
		heapAlloc: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "heap_alloc_bytes",
			Help:      "Heap bytes in use at the end of the run.",
		}),
		numGC: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gc_cycles",
			Help:      "Completed GC cycles at the end of the run.",
		}),
		gcPause: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gc_pause_seconds",
			Help:      "Cumulative GC pause time at the end of the run.",
		}),
		heapRatio: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "heap_operand_ratio",
			Help:      "Live heap after the run divided by the size of one operand matrix.",
		}, []string{"size"}),
	}
	m.registry.MustRegister(m.duration, m.gflops, m.runs, m.speedup, m.workers,
		m.heapAlloc, m.numGC, m.gcPause, m.heapRatio)
	return m
}

// Registry returns the private registry.
func (m *BenchmarkMetrics) Registry() *prometheus.Registry { return m.registry }

// ObserveRun records one strategy run. Failed runs only bump the counter.
func (m *BenchmarkMetrics) ObserveRun(strategy string, size int, d time.Duration, err error) {
	if err != nil {
		m.runs.WithLabelValues(strategy, "error").Inc()
		return
	}
	m.runs.WithLabelValues(strategy, "ok").Inc()
	sz := strconv.Itoa(size)
	m.duration.WithLabelValues(strategy, sz).Set(d.Seconds())
	if d > 0 {
		n := float64(size)
		m.gflops.WithLabelValues(strategy, sz).Set(2 * n * n * n / d.Seconds() / 1e9)
	}
}

// ObserveSpeedup records the parallel speedup for a size. Non-positive
// durations are ignored.
func (m *BenchmarkMetrics) ObserveSpeedup(size int, parallel, sequential time.Duration) {
	if parallel <= 0 || sequential <= 0 {
		return
	}
	m.speedup.WithLabelValues(strconv.Itoa(size)).Set(sequential.Seconds() / parallel.Seconds())
}

// SetWorkers records the parallel worker count.
func (m *BenchmarkMetrics) SetWorkers(n int) { m.workers.Set(float64(n)) }

// ObserveMemory records the memory state after a run. The heap ratio is
// only recorded for non-empty operands.
func (m *BenchmarkMetrics) ObserveMemory(r RunMemory) {
	m.heapAlloc.Set(float64(r.HeapAlloc))
	m.numGC.Set(float64(r.NumGC))
	m.gcPause.Set(r.GCPause.Seconds())
	if r.Size > 0 {
		m.heapRatio.WithLabelValues(strconv.Itoa(r.Size)).Set(r.HeapPerOperand())
	}
}

// WriteText writes every metric in the Prometheus text exposition format.
func (m *BenchmarkMetrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// WriteTextfile atomically writes the metrics to path, in the layout
// expected by node_exporter's textfile collector.
func (m *BenchmarkMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
