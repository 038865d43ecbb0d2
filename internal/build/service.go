package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/docmatrix/internal/matrix"
)

// Service executes generate calls. The CLI and watch mode are thin wrappers
// over it.
type Service interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

// Request contains the inputs of one generate call.
type Request struct {
	// Group selects which branches are visited. It is normalized against
	// the distro map's sites, so "publish-docs" selects publish_docs. Empty
	// means working_only.
	Group matrix.BranchGroup
	// Distro restricts the run to one distro id.
	Distro string
	// SinglePage is a group/subgroup:topic specifier restricting the run to one topic.
	SinglePage string
	// DryRun computes every target without rendering or writing.
	DryRun bool
}

// Status represents the outcome of a run.
type Status string

const (
	StatusSuccess Status = "success"
	// StatusWarning means every target was handled but warnings were raised.
	StatusWarning Status = "warning"
	StatusFailed  Status = "failed"
)

// Result is the outcome of a run.
type Result struct {
	Status Status
	Report *Report

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}
