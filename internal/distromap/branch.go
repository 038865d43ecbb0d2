package distromap

import (
	"fmt"
	"path"
	"path/filepath"

	"git.home.luguber.info/inful/docmatrix/internal/config"
	"git.home.luguber.info/inful/docmatrix/internal/foundation"
)

// Asset directories created under every branch output directory.
const (
	ImageDirName      = "_images"
	StylesheetDirName = "_stylesheets"
	JavascriptDirName = "_javascripts"
)

// DistroBranch is one git branch as built for one distro.
type DistroBranch struct {
	ID   string
	Name string
	Dir  string

	// DistroName and DistroAuthor are the distro values after branch overrides.
	DistroName   string
	DistroAuthor string

	// NameOverride and AuthorOverride hold distro-overrides values as written.
	NameOverride   foundation.Option[string]
	AuthorOverride foundation.Option[string]

	// Dev marks a synthetic configuration for a branch the distro map does not list.
	Dev bool

	distro *Distro
}

// Distro returns the owning distro.
func (b *DistroBranch) Distro() *Distro { return b.distro }

// BranchPath is the output directory for this branch: <preview>/<distro>/<dir>.
func (b *DistroBranch) BranchPath(previewRoot string) string {
	return filepath.Join(previewRoot, b.distro.ID, b.Dir)
}

// URLBase is the site-relative URL prefix of pages built from this branch.
func (b *DistroBranch) URLBase() string {
	return path.Join("/", b.Dir)
}

func (b *DistroBranch) ImageDir(previewRoot string) string {
	return filepath.Join(b.BranchPath(previewRoot), ImageDirName)
}

func (b *DistroBranch) StylesheetDir(previewRoot string) string {
	return filepath.Join(b.BranchPath(previewRoot), StylesheetDirName)
}

func (b *DistroBranch) JavascriptDir(previewRoot string) string {
	return filepath.Join(b.BranchPath(previewRoot), JavascriptDirName)
}

// newDevBranch synthesizes a configuration for a branch the distro does not list.
func newDevBranch(d *Distro, branchID string, opts config.DevBranchConfig) *DistroBranch {
	b := &DistroBranch{
		ID:     branchID,
		Name:   opts.Name,
		Dir:    branchID,
		Dev:    true,
		distro: d,
	}
	if opts.Inherit() {
		b.DistroName = d.Name
		b.DistroAuthor = d.Author
	} else {
		b.DistroName = opts.PlaceholderName
		b.DistroAuthor = opts.PlaceholderAuthor
	}
	return b
}

type branchCheck struct {
	ok   bool
	code string
	msg  string
}

func (b *DistroBranch) validate(c *foundation.Collector, label string) bool {
	checks := []branchCheck{
		{foundation.ValidString(b.ID), "invalid_branch_id", fmt.Sprintf("Branch ID '%s' is not a valid string.", b.ID)},
		{foundation.ValidString(b.Name), "invalid_branch_name", fmt.Sprintf("Branch name '%s' for branch ID '%s' is not a valid string.", b.Name, b.ID)},
		{foundation.ValidString(b.Dir), "invalid_branch_dir", fmt.Sprintf("Branch dir '%s' for branch ID '%s' is not a valid string.", b.Dir, b.ID)},
		overrideCheck(b.NameOverride, b.DistroName, b.ID, "name"),
		overrideCheck(b.AuthorOverride, b.DistroAuthor, b.ID, "author"),
	}
	for _, chk := range checks {
		if !c.Check(chk.ok, label, chk.code, chk.msg) {
			return false
		}
	}
	return true
}

// overrideCheck validates a branchwise distro value. A value taken from
// distro-overrides is reported as an override, so a blank override is not
// confused with a blank distro field.
func overrideCheck(override foundation.Option[string], resolved, branchID, field string) branchCheck {
	if v, ok := override.Get(); ok {
		return branchCheck{foundation.ValidString(v), "invalid_override_" + field,
			fmt.Sprintf("Branch ID '%s' overrides the distro %s with '%s', which is not a valid string.", branchID, field, v)}
	}
	return branchCheck{foundation.ValidString(resolved), "invalid_branch_distro_" + field,
		fmt.Sprintf("Branchwise distro %s '%s' for branch ID '%s' is not a valid string.", field, resolved, branchID)}
}
