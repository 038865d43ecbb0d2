package distromap

import (
	"fmt"

	"git.home.luguber.info/inful/docmatrix/internal/config"
	"git.home.luguber.info/inful/docmatrix/internal/foundation"
)

// Distro is a named edition of the documentation with its own branch mapping.
type Distro struct {
	ID     string
	Name   string
	Author string
	Site   Site

	branches []*DistroBranch
	byID     map[string]*DistroBranch
}

// Branch returns the listed configuration for branchID.
func (d *Distro) Branch(branchID string) (*DistroBranch, bool) {
	b, ok := d.byID[branchID]
	return b, ok
}

// HasBranch reports whether branchID is explicitly listed for the distro.
func (d *Distro) HasBranch(branchID string) bool {
	_, ok := d.byID[branchID]
	return ok
}

// BranchIDs returns listed branch ids in document order.
func (d *Distro) BranchIDs() []string {
	ids := make([]string, 0, len(d.branches))
	for _, b := range d.branches {
		ids = append(ids, b.ID)
	}
	return ids
}

// Branches returns listed branches in document order.
func (d *Distro) Branches() []*DistroBranch {
	out := make([]*DistroBranch, len(d.branches))
	copy(out, d.branches)
	return out
}

// BranchOrDev returns the listed configuration for branchID or a synthetic
// development configuration when the distro does not list it.
func (d *Distro) BranchOrDev(branchID string, opts config.DevBranchConfig) *DistroBranch {
	if b, ok := d.byID[branchID]; ok {
		return b
	}
	return newDevBranch(d, branchID, opts)
}

// IsValid is the fail-fast gate.
func (d *Distro) IsValid() bool {
	c := foundation.NewCollector(true)
	d.validate(c)
	return c.Result().Valid
}

// Errors walks the whole distro and returns every violation.
func (d *Distro) Errors() []foundation.FieldError {
	c := foundation.NewCollector(false)
	d.validate(c)
	return c.Result().Errors
}

func (d *Distro) label() string { return fmt.Sprintf("distro '%s'", d.ID) }

func (d *Distro) validate(c *foundation.Collector) bool {
	label := d.label()
	if !c.Check(foundation.ValidID(d.ID), label, "invalid_distro_id",
		fmt.Sprintf("Distro ID '%s' is not a valid string.", d.ID)) {
		return false
	}
	if !c.Check(foundation.ValidString(d.Name), label, "invalid_distro_name",
		fmt.Sprintf("Distro name '%s' for distro '%s' is not a valid string.", d.Name, d.ID)) {
		return false
	}
	if !c.Check(foundation.ValidString(d.Author), label, "invalid_distro_author",
		fmt.Sprintf("Distro author '%s' for distro '%s' is not a valid string.", d.Author, d.ID)) {
		return false
	}
	if !d.Site.validate(c, fmt.Sprintf("%s > site '%s'", label, d.Site.ID)) {
		return false
	}
	if !c.Check(len(d.branches) > 0, label, "no_branches",
		fmt.Sprintf("Distro '%s' does not list any branches.", d.ID)) {
		return false
	}
	for _, b := range d.branches {
		if !b.validate(c, fmt.Sprintf("%s > branch '%s'", label, b.ID)) {
			return false
		}
	}
	return true
}
