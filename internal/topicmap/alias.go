package topicmap

import (
	"path"
	"strings"
	"unicode"

	"git.home.luguber.info/inful/docmatrix/internal/foundation"
)

// AliasEntry pairs an alias location with its redirect target.
type AliasEntry struct {
	// AliasPath is the repo path of the alias entry itself.
	AliasPath string
	// RedirectTarget is the Alias value as written in the topic map.
	RedirectTarget string
	// Resolved is the in-tree repo path the target points at, or the URL
	// itself for external targets. Empty when the target cannot be resolved.
	Resolved string
	External bool
}

func newAliasEntry(aliasPath, target, ext string) AliasEntry {
	entry := AliasEntry{AliasPath: aliasPath, RedirectTarget: target}
	if foundation.IsURL(target) {
		entry.Resolved = target
		entry.External = true
		return entry
	}
	entry.Resolved, _ = ResolveAliasTarget(aliasPath, target, ext)
	return entry
}

// ResolveAliasTarget resolves a relative alias target the way a relative URL
// reference resolves: against the directory containing the alias. A leading
// '/' anchors the target at the repo root. A trailing source extension or
// ".html" is dropped. Targets that escape the repo root are rejected.
func ResolveAliasTarget(aliasPath, target, ext string) (string, bool) {
	t := strings.TrimSpace(target)
	if t == "" || strings.Contains(t, "://") || strings.ContainsFunc(t, unicode.IsSpace) {
		return "", false
	}

	var joined string
	if strings.HasPrefix(t, "/") {
		joined = path.Clean(t)
	} else {
		joined = path.Clean("/" + path.Join(path.Dir(aliasPath), t))
		// path.Clean on a rooted path swallows leading "..", so check escape separately.
		if escapes(path.Dir(aliasPath), t) {
			return "", false
		}
	}
	joined = strings.TrimPrefix(joined, "/")
	if ext != "" {
		joined = strings.TrimSuffix(joined, ext)
	}
	joined = strings.TrimSuffix(joined, ".html")
	if joined == "" || joined == "." {
		return "", false
	}
	return joined, true
}

func escapes(base, target string) bool {
	rel := path.Join(base, target)
	return rel == ".." || strings.HasPrefix(rel, "../")
}

// validAliasSyntax reports whether an alias value is an absolute http(s) URL
// or a resolvable in-tree path.
func validAliasSyntax(aliasPath, target, ext string) bool {
	if foundation.IsURL(target) {
		return true
	}
	_, ok := ResolveAliasTarget(aliasPath, target, ext)
	return ok
}
