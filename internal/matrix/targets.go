package matrix

import (
	"path"

	"git.home.luguber.info/inful/docmatrix/internal/distromap"
	"git.home.luguber.info/inful/docmatrix/internal/topicmap"
)

// TargetKind distinguishes rendered pages from redirect pages.
type TargetKind int

const (
	TargetPage TargetKind = iota
	TargetAlias
)

func (k TargetKind) String() string {
	if k == TargetAlias {
		return "alias"
	}
	return "page"
}

// Target is one concrete (distro, branch, topic) selected for generation.
type Target struct {
	Kind   TargetKind
	Branch *distromap.DistroBranch
	Entity *topicmap.Entity
	// OutputPath is <distro>/<branchDir>/<repoPath>.html relative to the output root.
	OutputPath string
	// SourcePath is the repo-relative source file of a page target.
	SourcePath string
	// RedirectURL is set for alias targets.
	RedirectURL string
}

func (t Target) Distro() string   { return t.Branch.Distro().ID }
func (t Target) RepoPath() string { return t.Entity.RepoPath() }

// Targets walks tree for one distro/branch configuration in document order.
// With a single-page filter the walk stops after the first target.
func Targets(tree *topicmap.Tree, b *distromap.DistroBranch, sp *SinglePage) []Target {
	var segments []string
	if sp != nil {
		segments = sp.Segments
	}
	ext := tree.Options().SourceExtension
	distro := b.Distro().ID

	var out []Target
	var visit func(entities []*topicmap.Entity) bool
	visit = func(entities []*topicmap.Entity) bool {
		for _, e := range entities {
			if !e.IncludeFor(distro, segments) {
				continue
			}
			switch e.Kind() {
			case topicmap.KindGroup:
				if visit(e.Children()) {
					return true
				}
				continue
			case topicmap.KindAlias:
				out = append(out, aliasTarget(e, b))
			case topicmap.KindTopic:
				out = append(out, Target{
					Kind:       TargetPage,
					Branch:     b,
					Entity:     e,
					OutputPath: e.OutputPath(distro, b.Dir),
					SourcePath: e.SourcePath(ext),
				})
			default:
				continue
			}
			if sp != nil {
				return true
			}
		}
		return false
	}
	visit(tree.Roots())
	return out
}

func aliasTarget(e *topicmap.Entity, b *distromap.DistroBranch) Target {
	entry, _ := e.AliasEntry()
	url := entry.Resolved
	if !entry.External {
		url = path.Join(b.URLBase(), entry.Resolved+".html")
	}
	return Target{
		Kind:        TargetAlias,
		Branch:      b,
		Entity:      e,
		OutputPath:  e.OutputPath(b.Distro().ID, b.Dir),
		RedirectURL: url,
	}
}
