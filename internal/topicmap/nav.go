package topicmap

// NavItem is one navigation node. Topics carry Path, groups carry Children.
type NavItem struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Path     string    `json:"path,omitempty"`
	Children []NavItem `json:"children,omitempty"`
}

// NavTree returns the distro-filtered navigation for the entity, or nil when
// nothing under it applies to distro. Aliases never appear.
func (e *Entity) NavTree(distro string) *NavItem {
	if !e.HasDistro(distro) {
		return nil
	}
	switch e.kind {
	case KindTopic:
		return &NavItem{ID: e.id, Name: e.Name, Path: e.HTMLPath()}
	case KindGroup:
		var children []NavItem
		for _, c := range e.children {
			if sub := c.NavTree(distro); sub != nil {
				children = append(children, *sub)
			}
		}
		if len(children) == 0 {
			return nil
		}
		return &NavItem{ID: e.id, Name: e.Name, Children: children}
	default:
		return nil
	}
}

// IncludeFor is the inclusion predicate for one build pass. singlePage holds
// the path segments of the one topic being built, or nil for a full build.
func (e *Entity) IncludeFor(distro string, singlePage []string) bool {
	if !e.HasDistro(distro) {
		return false
	}
	if e.kind == KindInvalid {
		return false
	}
	if len(singlePage) > 0 {
		if e.depth >= len(singlePage) || singlePage[e.depth] != e.segment {
			return false
		}
	}
	if e.kind == KindGroup {
		for _, c := range e.children {
			if c.IncludeFor(distro, nil) {
				return true
			}
		}
		return false
	}
	return true
}

// AliasList collects alias entries under e that apply to distro.
func (e *Entity) AliasList(distro string) []AliasEntry {
	var out []AliasEntry
	e.walkDistro(distro, func(n *Entity) {
		if n.kind == KindAlias {
			out = append(out, n.alias)
		}
	})
	return out
}

// PathList collects repo paths of real (non-alias) topics under e that apply to distro.
func (e *Entity) PathList(distro string) []string {
	var out []string
	e.walkDistro(distro, func(n *Entity) {
		if n.kind == KindTopic {
			out = append(out, n.repoPath)
		}
	})
	return out
}

// walkDistro visits e and its descendants in document order, pruning
// subtrees that do not apply to distro.
func (e *Entity) walkDistro(distro string, fn func(*Entity)) {
	if !e.HasDistro(distro) {
		return
	}
	fn(e)
	for _, c := range e.children {
		c.walkDistro(distro, fn)
	}
}

func (e *Entity) walk(fn func(*Entity)) {
	fn(e)
	for _, c := range e.children {
		c.walk(fn)
	}
}
