// Package topicmap parses the topic map into a tree of groups, topics and
// aliases and answers per-distro questions about it: navigation, inclusion,
// alias and path lists, and structural validity.
package topicmap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docmatrix/internal/foundation"
	ferrors "git.home.luguber.info/inful/docmatrix/internal/foundation/errors"
)

// ErrNoTopicMap is returned when neither the topic map nor its legacy name exists.
var ErrNoTopicMap = errors.New("no topic map file found")

// Options carries the per-run settings parsing needs.
type Options struct {
	// DistroKeys is the global key set every Distros filter resolves against.
	DistroKeys      []string
	SourceExtension string
	MaxDepth        int
}

func (o Options) withDefaults() Options {
	if o.SourceExtension == "" {
		o.SourceExtension = ".md"
	}
	return o
}

// Tree is the parsed topic map of one branch checkout.
type Tree struct {
	source string
	legacy bool
	roots  []*Entity
	opts   Options

	nav map[string][]NavItem
}

func newTree(source string, roots []*Entity, opts Options) *Tree {
	return &Tree{source: source, roots: roots, opts: opts, nav: map[string][]NavItem{}}
}

// Files names the topic map file and its deprecated fallback.
type Files struct {
	Primary string
	Legacy  string
}

// Load reads the topic map from dir, falling back to the legacy file name.
func Load(dir string, files Files, opts Options) (*Tree, error) {
	candidates := []struct {
		name   string
		legacy bool
	}{{files.Primary, false}, {files.Legacy, true}}

	for _, cand := range candidates {
		if cand.name == "" {
			continue
		}
		path := filepath.Join(dir, cand.name)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read topic map").
				Fatal().
				WithContext("file", path).
				Build()
		}
		t, err := Parse(data, path, opts)
		if err != nil {
			return nil, err
		}
		t.legacy = cand.legacy
		return t, nil
	}
	return nil, ferrors.WrapError(ErrNoTopicMap, ferrors.CategoryConfig,
		fmt.Sprintf("could not find topic map '%s' in %s", files.Primary, dir)).
		Fatal().
		UserAction().
		Build()
}

// Source is the file the tree was parsed from.
func (t *Tree) Source() string { return t.source }

// Legacy reports whether the tree came from the deprecated file name.
func (t *Tree) Legacy() bool { return t.legacy }

// Roots returns the top-level entries in document order.
func (t *Tree) Roots() []*Entity { return t.roots }

// Options returns the settings the tree was parsed with.
func (t *Tree) Options() Options { return t.opts }

// NavTree returns the navigation for distro, cached per distro key.
func (t *Tree) NavTree(distro string) []NavItem {
	if nav, ok := t.nav[distro]; ok {
		return nav
	}
	nav := []NavItem{}
	for _, r := range t.roots {
		if item := r.NavTree(distro); item != nil {
			nav = append(nav, *item)
		}
	}
	t.nav[distro] = nav
	return nav
}

// AliasList collects every alias that applies to distro.
func (t *Tree) AliasList(distro string) []AliasEntry {
	var out []AliasEntry
	for _, r := range t.roots {
		out = append(out, r.AliasList(distro)...)
	}
	return out
}

// PathList collects every real topic path that applies to distro.
func (t *Tree) PathList(distro string) []string {
	var out []string
	for _, r := range t.roots {
		out = append(out, r.PathList(distro)...)
	}
	return out
}

// FilePaths returns the repo path of every non-alias topic regardless of distro.
func (t *Tree) FilePaths() []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range t.roots {
		r.walk(func(e *Entity) {
			if e.kind == KindTopic && !seen[e.repoPath] {
				seen[e.repoPath] = true
				out = append(out, e.repoPath)
			}
		})
	}
	return out
}

// Find returns the entity at repoPath.
func (t *Tree) Find(repoPath string) (*Entity, bool) {
	var found *Entity
	for _, r := range t.roots {
		r.walk(func(e *Entity) {
			if found == nil && e.repoPath == repoPath {
				found = e
			}
		})
	}
	return found, found != nil
}

// Validate runs per-node checks on every entry followed by the tree-level
// alias and id checks for every distro. failFast stops at the first violation.
func (t *Tree) Validate(failFast bool) foundation.ValidationResult {
	c := foundation.NewCollector(failFast)
	if t.validate(c) {
		t.validateDistros(c)
	}
	return c.Result()
}

// IsValid is the fail-fast gate.
func (t *Tree) IsValid() bool { return t.Validate(true).Valid }

// Errors returns every violation with its entity breadcrumb.
func (t *Tree) Errors() []foundation.FieldError { return t.Validate(false).Errors }

// Check returns a validation error carrying the full report, or nil.
func (t *Tree) Check() error {
	if t.IsValid() {
		return nil
	}
	return t.Validate(false).ToError(
		fmt.Sprintf("The topic map file at '%s' contains the following errors", t.source))
}

func (t *Tree) validate(c *foundation.Collector) bool {
	for _, r := range t.roots {
		if r.kind != KindGroup {
			if !c.Check(false, r.label(), "top_level_not_group",
				fmt.Sprintf("Top-level entries in the topic map must all be topic groups. Entity with name '%s' is not a group.", r.Name)) {
				return false
			}
			continue
		}
		if !r.validate(c, t.opts) {
			return false
		}
	}
	return !c.Stopped()
}

func (t *Tree) validateDistros(c *foundation.Collector) {
	for _, distro := range t.opts.DistroKeys {
		paths := map[string]bool{}
		for _, p := range t.PathList(distro) {
			paths[p] = true
		}
		for _, a := range t.AliasList(distro) {
			field := fmt.Sprintf("distro '%s' > alias '%s'", distro, a.AliasPath)
			if !c.Check(!paths[a.AliasPath], field, "alias_path_collision",
				fmt.Sprintf("An actual topic file and a topic alias both exist at the same path '%s' for distro '%s'", a.AliasPath, distro)) {
				return
			}
			if a.External {
				continue
			}
			if !c.Check(a.Resolved != "" && paths[a.Resolved], field, "alias_target_missing",
				fmt.Sprintf("Topic alias '%s' points to a nonexistent topic '%s' for distro '%s'", a.AliasPath, a.RedirectTarget, distro)) {
				return
			}
		}

		ids := map[string]bool{}
		for _, r := range t.roots {
			stop := false
			r.walkDistro(distro, func(e *Entity) {
				if stop {
					return
				}
				if ids[e.id] {
					if !c.Check(false, e.label(), "duplicate_id",
						fmt.Sprintf("Topic id '%s' is used more than once for distro '%s'", e.id, distro)) {
						stop = true
					}
					return
				}
				ids[e.id] = true
			})
			if stop {
				return
			}
		}
	}
}
