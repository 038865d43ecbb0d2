package topicmap

import (
	"regexp"
	"slices"
	"strings"

	"git.home.luguber.info/inful/docmatrix/internal/util/sets"
)

// AllDistros is the filter entry that selects every known distro key.
const AllDistros = "all"

// ResolveDistros expands a comma separated Distros filter against the known
// keys. Entries may contain '*' wildcards; a blank filter or an "all" entry
// selects every key. Literal entries that are not known are returned in unknown.
func ResolveDistros(raw string, known []string) (resolved sets.Set[string], unknown []string) {
	values := splitFilter(raw)
	if len(values) == 0 {
		return sets.New(known...), nil
	}
	for _, v := range values {
		if v == AllDistros {
			return sets.New(known...), nil
		}
	}

	resolved = sets.New[string]()
	for _, v := range values {
		if strings.Contains(v, "*") {
			for _, k := range MatchPattern(v, known) {
				resolved.Add(k)
			}
			continue
		}
		if slices.Contains(known, v) {
			resolved.Add(v)
		} else {
			unknown = append(unknown, v)
		}
	}
	return resolved, unknown
}

// MatchPattern returns the keys matched by a glob where '*' matches any run
// of characters and the whole key must match.
func MatchPattern(pattern string, keys []string) []string {
	re := globRegexp(pattern)
	var out []string
	for _, k := range keys {
		if re.MatchString(k) {
			out = append(out, k)
		}
	}
	return out
}

func globRegexp(pattern string) *regexp.Regexp {
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`\A` + strings.Join(parts, ".*") + `\z`)
}

func splitFilter(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
