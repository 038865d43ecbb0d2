package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "git.home.luguber.info/inful/docmatrix/internal/foundation/errors"
)

const namespace = "docmatrix"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg            *prom.Registry
	branchDuration *prom.HistogramVec
	runDuration    prom.Histogram
	targets        *prom.CounterVec
	warnings       *prom.CounterVec
	outcomes       *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the metrics on reg, or on a
// fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		branchDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "branch_duration_seconds",
			Help:      "Duration of one branch pass, checkout to last write",
			Buckets:   prom.DefBuckets,
		}, []string{"branch"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Total run duration",
			Buckets:   prom.DefBuckets,
		}),
		targets: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "targets_generated_total",
			Help:      "Generated build targets by distro and kind",
		}, []string{"distro", "kind"}),
		warnings: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_total",
			Help:      "Warnings emitted during runs by kind",
		}, []string{"kind"}),
		outcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Run outcomes by final status",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.branchDuration, pr.runDuration, pr.targets, pr.warnings, pr.outcomes)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveBranchDuration(branch string, d time.Duration) {
	p.branchDuration.WithLabelValues(branch).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncTargets(distro, kind string) {
	p.targets.WithLabelValues(distro, kind).Inc()
}

func (p *PrometheusRecorder) IncWarnings(kind string, n int) {
	if n <= 0 {
		return
	}
	p.warnings.WithLabelValues(kind).Add(float64(n))
}

func (p *PrometheusRecorder) IncRunOutcome(outcome Outcome) {
	p.outcomes.WithLabelValues(string(outcome)).Inc()
}

// WriteTextfile writes the registry in the text exposition format to path.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write metrics textfile").
			WithContext("file", path).
			Build()
	}
	return nil
}
