package matrix

import (
	"fmt"
	"path"
	"strings"

	ferrors "git.home.luguber.info/inful/docmatrix/internal/foundation/errors"
)

// SinglePage identifies the one topic a refresh builds, written as
// "group/subgroup:topic".
type SinglePage struct {
	Raw      string
	Segments []string
}

// ParseSinglePage parses a single-page specifier. The topic may carry the source extension.
func ParseSinglePage(raw, ext string) (*SinglePage, error) {
	raw = strings.TrimSpace(raw)
	groups, topic, ok := strings.Cut(raw, ":")
	if !ok || strings.Contains(topic, ":") {
		return nil, invalidSinglePage(raw, "expected <group>[/<subgroup>]:<topic>")
	}
	topic = strings.TrimSuffix(strings.TrimSpace(topic), ext)
	if topic == "" || strings.Contains(topic, "/") {
		return nil, invalidSinglePage(raw, "topic name must be a single non-blank segment")
	}
	var segments []string
	for _, g := range strings.Split(groups, "/") {
		g = strings.TrimSpace(g)
		if g == "" {
			return nil, invalidSinglePage(raw, "group path contains a blank segment")
		}
		segments = append(segments, g)
	}
	return &SinglePage{Raw: raw, Segments: append(segments, topic)}, nil
}

// RepoPath is the topic's repo path, e.g. "group/subgroup/topic".
func (sp *SinglePage) RepoPath() string { return path.Join(sp.Segments...) }

func invalidSinglePage(raw, reason string) error {
	return ferrors.ValidationError(fmt.Sprintf("invalid page '%s': %s", raw, reason)).Build()
}
