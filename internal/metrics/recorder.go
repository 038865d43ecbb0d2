package metrics

import "time"

// Outcome is the final status of one run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeWarning Outcome = "warning"
	OutcomeFailed  Outcome = "failed"
)

// Recorder receives engine observations.
type Recorder interface {
	ObserveBranchDuration(branch string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncTargets(distro, kind string)
	IncWarnings(kind string, n int)
	IncRunOutcome(outcome Outcome)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBranchDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)            {}
func (NoopRecorder) IncTargets(string, string)                   {}
func (NoopRecorder) IncWarnings(string, int)                     {}
func (NoopRecorder) IncRunOutcome(Outcome)                       {}
