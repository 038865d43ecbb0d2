package build

import (
	"git.home.luguber.info/inful/docmatrix/internal/matrix"
)

// WarningKind classifies non-fatal events of a run.
type WarningKind string

const (
	WarnMissingBranch   WarningKind = "missing_branch"
	WarnNonexistent     WarningKind = "nonexistent_topic"
	WarnOrphan          WarningKind = "orphan"
	WarnMissingSource   WarningKind = "missing_source"
	WarnDistroMap       WarningKind = "distro_map"
	WarnLegacyTopicMap  WarningKind = "legacy_topic_map"
	WarnRestoreStash    WarningKind = "restore_stash"
	WarnRestoreCheckout WarningKind = "restore_checkout"
)

// Warning is one recorded warning.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Branch  string      `json:"branch,omitempty"`
	Message string      `json:"message"`
	Items   []string    `json:"items,omitempty"`
}

// TargetRecord describes one generated (or, in a dry run, planned) file.
type TargetRecord struct {
	Distro      string `json:"distro"`
	Branch      string `json:"branch"`
	Kind        string `json:"kind"`
	RepoPath    string `json:"repo_path"`
	OutputPath  string `json:"output_path"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Title       string `json:"title,omitempty"`
}

// Report collects everything a run did.
type Report struct {
	RunID         string         `json:"run_id"`
	Group         string         `json:"branch_group"`
	Distro        string         `json:"distro,omitempty"`
	WorkingBranch string         `json:"working_branch"`
	DryRun        bool           `json:"dry_run"`
	Branches      []string       `json:"branches"`
	Missing       []string       `json:"missing_branches,omitempty"`
	Targets       []TargetRecord `json:"targets"`
	Skipped       []TargetRecord `json:"skipped,omitempty"`
	Warnings      []Warning      `json:"warnings,omitempty"`
	AssetsCopied  int            `json:"assets_copied"`
	// Stashed reports that uncommitted changes were stashed before leaving
	// the working branch; Restored that the stash was popped again.
	Stashed  bool `json:"stashed"`
	Restored bool `json:"restored"`
}

func newReport(runID string, req Request) *Report {
	group := req.Group
	if group == "" {
		group = matrix.GroupWorkingOnly
	}
	return &Report{RunID: runID, Group: group.String(), Distro: req.Distro, DryRun: req.DryRun}
}

func (r *Report) warn(w Warning) {
	r.Warnings = append(r.Warnings, w)
}

// Pages counts generated page targets.
func (r *Report) Pages() int { return r.count(matrix.TargetPage.String()) }

// Aliases counts generated redirect targets.
func (r *Report) Aliases() int { return r.count(matrix.TargetAlias.String()) }

func (r *Report) count(kind string) int {
	n := 0
	for _, t := range r.Targets {
		if t.Kind == kind {
			n++
		}
	}
	return n
}

// WarningsOf returns the warnings of one kind.
func (r *Report) WarningsOf(kind WarningKind) []Warning {
	var out []Warning
	for _, w := range r.Warnings {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}
