package topicmap

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/docmatrix/internal/util/sets"
)

// Kind classifies a topic map entry. It is decided once at parse time.
type Kind int

const (
	KindInvalid Kind = iota
	KindGroup
	KindTopic
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindTopic:
		return "topic"
	case KindAlias:
		return "alias"
	default:
		return "invalid"
	}
}

// Crumb is one step of an entity's ancestor chain.
type Crumb struct {
	ID   string
	Name string
	Path string
}

// Entity is one node of the topic tree. Children are owned by their group;
// parent is a back-reference used only for upward naming.
type Entity struct {
	Name  string
	Dir   string
	File  string
	Alias string

	kind     Kind
	parent   *Entity
	children []*Entity
	depth    int
	line     int

	distros        sets.Set[string]
	unknownDistros []string
	unknownKeys    []string

	segment    string
	id         string
	repoPath   string
	breadcrumb []Crumb
	alias      AliasEntry
}

func (e *Entity) Kind() Kind          { return e.kind }
func (e *Entity) IsGroup() bool       { return e.kind == KindGroup }
func (e *Entity) IsAlias() bool       { return e.kind == KindAlias }
func (e *Entity) Parent() *Entity     { return e.parent }
func (e *Entity) Depth() int          { return e.depth }
func (e *Entity) Line() int           { return e.line }
func (e *Entity) ID() string          { return e.id }
func (e *Entity) RepoPath() string    { return e.repoPath }
func (e *Entity) Children() []*Entity { return e.children }

// IsTopic reports whether the entity references a file, aliases included.
func (e *Entity) IsTopic() bool { return e.kind == KindTopic || e.kind == KindAlias }

// Segment is the entity's own path component: the group dir or the topic
// file without its source extension.
func (e *Entity) Segment() string { return e.segment }

// HasDistro reports whether distro is in the entity's resolved key set.
func (e *Entity) HasDistro(distro string) bool { return e.distros.Has(distro) }

// Distros returns the resolved distro keys, sorted.
func (e *Entity) Distros() []string { return sets.Sorted(e.distros) }

// Breadcrumb returns the chain from the top-level group down to this entity.
func (e *Entity) Breadcrumb() []Crumb {
	out := make([]Crumb, len(e.breadcrumb))
	copy(out, e.breadcrumb)
	return out
}

// AliasEntry returns the alias details; ok is false for non-alias entities.
func (e *Entity) AliasEntry() (AliasEntry, bool) {
	return e.alias, e.kind == KindAlias
}

// SourcePath is the repo-relative source file for a topic.
func (e *Entity) SourcePath(ext string) string {
	if !e.IsTopic() {
		return e.repoPath
	}
	return e.repoPath + ext
}

// HTMLPath is the branch-relative page path for a topic.
func (e *Entity) HTMLPath() string {
	if !e.IsTopic() {
		return e.repoPath
	}
	return e.repoPath + ".html"
}

// OutputPath is the deterministic output location <distro>/<branchDir>/<repoPath>.html.
func (e *Entity) OutputPath(distro, branchDir string) string {
	return path.Join(distro, branchDir, e.HTMLPath())
}

// label names the entity in validation messages.
func (e *Entity) label() string {
	if e.parent == nil {
		return "Top level topic entity '" + e.Name + "'"
	}
	names := make([]string, 0, len(e.breadcrumb))
	for _, c := range e.breadcrumb {
		names = append(names, c.Name)
	}
	return "Topic entity at '" + strings.Join(names, " -> ") + "'"
}

// derive computes every ancestor-dependent field. Callers run it top-down
// so the parent is always complete.
func (e *Entity) derive(ext string) {
	switch e.kind {
	case KindGroup:
		e.segment = e.Dir
	case KindTopic, KindAlias:
		e.segment = strings.TrimSuffix(e.File, ext)
	}

	e.id = camelize(e.Name)
	e.repoPath = e.segment
	if e.parent != nil {
		e.id = e.parent.id + "::" + e.id
		e.repoPath = path.Join(e.parent.repoPath, e.segment)
		e.breadcrumb = append(e.parent.Breadcrumb(), Crumb{})
	} else {
		e.breadcrumb = []Crumb{{}}
	}
	e.breadcrumb[len(e.breadcrumb)-1] = Crumb{ID: e.id, Name: e.Name, Path: e.HTMLPath()}

	if e.kind == KindAlias {
		e.alias = newAliasEntry(e.repoPath, e.Alias, ext)
	}
}
