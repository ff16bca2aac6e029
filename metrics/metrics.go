// Package metrics collects solve statistics for batch runs. Nothing is served;
// the registry is written as a node-exporter textfile when a run ends.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for maxcov runs
	Registry = prometheus.NewRegistry()
	// Solves counts finished solves by engine status
	Solves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "maxcov_solves_total", Help: "Finished solves by status."},
		[]string{"status"},
	)
	// SolveDuration records wall time of a whole solve, all objective levels included
	SolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "maxcov_solve_duration_seconds", Help: "Solve duration in seconds.", Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300, 900, 3600}},
		[]string{"status"},
	)
	// ProgramSize holds the size of the last built program
	ProgramSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "maxcov_program_size", Help: "Variables and constraints of the last built program."},
		[]string{"kind"},
	)
	// Coverage records the covered client count of each solved instance
	Coverage = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "maxcov_covered_clients", Help: "Covered clients per solved instance.", Buckets: prometheus.LinearBuckets(0, 5, 20)},
	)
	// Failures counts solves that ended in an error rather than a status
	Failures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "maxcov_solve_failures_total", Help: "Solves that returned an error."},
	)
)

// RegisterDefault registers the collectors on Registry once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(Solves)
		Registry.MustRegister(SolveDuration)
		Registry.MustRegister(ProgramSize)
		Registry.MustRegister(Coverage)
		Registry.MustRegister(Failures)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once

// ObserveSolve records one finished solve. covered is negative when the
// solve produced no tours.
func ObserveSolve(status string, d time.Duration, vars, constrs, covered int) {
	Solves.WithLabelValues(status).Inc()
	SolveDuration.WithLabelValues(status).Observe(d.Seconds())
	ProgramSize.WithLabelValues("vars").Set(float64(vars))
	ProgramSize.WithLabelValues("constrs").Set(float64(constrs))
	if covered >= 0 {
		Coverage.Observe(float64(covered))
	}
}

// WriteTextfile dumps Registry in the text exposition format.
func WriteTextfile(path string) error {
	RegisterDefault()
	return prometheus.WriteToTextfile(path, Registry)
}
