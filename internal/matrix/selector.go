// Package matrix decides what a run builds: which branches are visited, in
// which order, and which distro configurations are built on each of them.
package matrix

import (
	"errors"
	"fmt"
	"regexp"
	"slices"

	"git.home.luguber.info/inful/docmatrix/internal/config"
	"git.home.luguber.info/inful/docmatrix/internal/distromap"
	ferrors "git.home.luguber.info/inful/docmatrix/internal/foundation/errors"
)

var (
	// ErrUnknownDistro is returned when the distro filter names no distro.
	ErrUnknownDistro = distromap.ErrUnknownDistro
	// ErrNoBranches is returned when the repository has no local branches yet.
	ErrNoBranches = errors.New("no local branches")
)

// DetachedBranch is the branch name used while HEAD is detached.
const DetachedBranch = "detached"

var detachedPattern = regexp.MustCompile(`^\((HEAD )?detached (from|at) .*\)$`)

// Request is one generate call.
type Request struct {
	Group BranchGroup
	// Distro restricts the run to one distro id; empty builds all.
	Distro string
	// SinglePage restricts the run to one topic on the working branch.
	SinglePage *SinglePage
	// LocalBranches lists local branches with the current branch first.
	LocalBranches []string
}

// BranchPass is one branch visit with the distro configurations built on it.
type BranchPass struct {
	Branch  string
	Working bool
	Builds  []*distromap.DistroBranch
}

// Plan is the ordered set of branch passes for a run.
type Plan struct {
	Group         BranchGroup
	Distro        string
	WorkingBranch string
	SinglePage    *SinglePage
	Passes        []BranchPass
	// Missing lists branches the distro map names that do not exist locally.
	Missing []string
}

// LeavesWorkingBranch reports whether any pass requires a checkout.
func (p *Plan) LeavesWorkingBranch() bool {
	for _, pass := range p.Passes {
		if !pass.Working {
			return true
		}
	}
	return false
}

// Selector computes build plans from the distro map.
type Selector struct {
	distros *distromap.DistroMap
	sites   *distromap.SiteMap
	dev     config.DevBranchConfig
}

func NewSelector(dm *distromap.DistroMap, dev config.DevBranchConfig) *Selector {
	return &Selector{distros: dm, sites: distromap.NewSiteMap(dm), dev: dev}
}

// Sites exposes the site grouping used for publish_<site> groups.
func (s *Selector) Sites() *distromap.SiteMap { return s.sites }

// Plan resolves a request into branch passes.
func (s *Selector) Plan(req Request) (*Plan, error) {
	if len(req.LocalBranches) == 0 {
		return nil, ferrors.WrapError(ErrNoBranches, ferrors.CategoryGit,
			"the docs repository needs at least one commit before it can be built").
			UserAction().
			Build()
	}
	if req.Group == "" {
		req.Group = GroupWorkingOnly
	}
	if req.Distro != "" && !s.distros.Has(req.Distro) {
		return nil, ferrors.WrapError(fmt.Errorf("%w: '%s'", ErrUnknownDistro, req.Distro), ferrors.CategoryValidation,
			fmt.Sprintf("distro '%s' does not exist in the distro map", req.Distro)).
			UserAction().
			Build()
	}

	local := make([]string, len(req.LocalBranches))
	for i, b := range req.LocalBranches {
		local[i] = normalizeBranch(b)
	}
	working := local[0]

	groupBranches, err := s.groupBranches(req.Group, local)
	if err != nil {
		return nil, err
	}

	missing, err := s.missingBranches(req.Distro, local)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Group:         req.Group,
		Distro:        req.Distro,
		WorkingBranch: working,
		SinglePage:    req.SinglePage,
		Missing:       missing,
	}
	for _, branch := range workingFirst(groupBranches, working) {
		// Branches outside the distro scope are not in missing but may
		// still be absent locally.
		if !slices.Contains(local, branch) {
			continue
		}
		isWorking := branch == working
		if req.SinglePage != nil && !isWorking {
			continue
		}
		pass := BranchPass{Branch: branch, Working: isWorking, Builds: s.builds(req, branch, isWorking)}
		if len(pass.Builds) == 0 {
			continue
		}
		plan.Passes = append(plan.Passes, pass)
	}
	return plan, nil
}

func (s *Selector) builds(req Request, branch string, working bool) []*distromap.DistroBranch {
	var out []*distromap.DistroBranch
	for _, d := range s.distros.Distros() {
		if req.Distro != "" {
			if d.ID == req.Distro {
				out = append(out, d.BranchOrDev(branch, s.dev))
			}
			continue
		}
		listed := d.HasBranch(branch)
		if req.Group.IsPublish() && !listed {
			continue
		}
		if req.Group == GroupAll && !working && !listed {
			continue
		}
		out = append(out, d.BranchOrDev(branch, s.dev))
	}
	return out
}

func (s *Selector) groupBranches(g BranchGroup, local []string) ([]string, error) {
	switch g {
	case GroupWorkingOnly:
		return local[:1], nil
	case GroupPublish:
		return s.distros.BranchIDs("")
	case GroupAll:
		return local, nil
	}
	if siteID, ok := g.Site(); ok {
		if site, found := s.sites.Site(siteID); found {
			return site.Branches, nil
		}
	}
	return nil, ferrors.ValidationError(fmt.Sprintf("unknown branch group '%s'", g)).Build()
}

// missingBranches lists, sorted, the branches the distro map names for the
// run's distro scope that are not present locally.
func (s *Selector) missingBranches(distroID string, local []string) ([]string, error) {
	referenced, err := s.distros.BranchIDs(distroID)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, b := range referenced {
		if !slices.Contains(local, b) {
			missing = append(missing, b)
		}
	}
	slices.Sort(missing)
	return missing, nil
}

func workingFirst(branches []string, working string) []string {
	out := make([]string, 0, len(branches))
	if slices.Contains(branches, working) {
		out = append(out, working)
	}
	for _, b := range branches {
		if b != working && !slices.Contains(out, b) {
			out = append(out, b)
		}
	}
	return out
}

func normalizeBranch(name string) string {
	if detachedPattern.MatchString(name) {
		return DetachedBranch
	}
	return name
}
