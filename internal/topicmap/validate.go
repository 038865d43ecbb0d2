package topicmap

import (
	"fmt"

	"git.home.luguber.info/inful/docmatrix/internal/foundation"
)

// Validate checks the entity and its subtree. failFast stops at the first violation.
func (e *Entity) Validate(opts Options, failFast bool) foundation.ValidationResult {
	c := foundation.NewCollector(failFast)
	e.validate(c, opts)
	return c.Result()
}

// IsValid is the fail-fast gate for the entity subtree.
func (e *Entity) IsValid(opts Options) bool { return e.Validate(opts, true).Valid }

// Errors returns every violation in the entity subtree.
func (e *Entity) Errors(opts Options) []foundation.FieldError { return e.Validate(opts, false).Errors }

func (e *Entity) validate(c *foundation.Collector, opts Options) bool {
	label := e.label()

	if !c.Check(foundation.ValidString(e.Name), label, "invalid_name",
		fmt.Sprintf("Topic entity on line %d has a missing or invalid 'Name' value.", e.line)) {
		return false
	}
	for _, key := range e.unknownKeys {
		if !c.Check(false, label, "unknown_key", fmt.Sprintf("%s has unrecognized key '%s'.", label, key)) {
			return false
		}
	}
	for _, d := range e.unknownDistros {
		if !c.Check(false, label, "unknown_distro",
			fmt.Sprintf("%s 'Distros' filter includes nonexistent distro key '%s'.", label, d)) {
			return false
		}
	}
	if !c.Check(e.depth <= opts.MaxDepth, label, "max_depth",
		fmt.Sprintf("%s exceeds the maximum nested depth of %d.", label, opts.MaxDepth)) {
		return false
	}

	switch e.kind {
	case KindGroup:
		if !c.Check(foundation.ValidString(e.Dir), label, "invalid_dir",
			fmt.Sprintf("%s has invalid 'Dir' value.", label)) {
			return false
		}
		if !c.Check(e.Alias == "", label, "alias_on_group",
			fmt.Sprintf("%s is a group; 'Alias' is only valid on a topic.", label)) {
			return false
		}
		if !c.Check(len(e.children) > 0, label, "empty_group",
			fmt.Sprintf("%s is a group with no topics.", label)) {
			return false
		}
		for _, child := range e.children {
			if !child.validate(c, opts) {
				return false
			}
		}
	case KindTopic, KindAlias:
		if !c.Check(foundation.ValidString(e.File), label, "invalid_file",
			fmt.Sprintf("%s has invalid 'File' value.", label)) {
			return false
		}
		if e.kind == KindAlias {
			if !c.Check(validAliasSyntax(e.repoPath, e.Alias, opts.SourceExtension), label, "invalid_alias",
				fmt.Sprintf("%s has invalid 'Alias' value '%s'.", label, e.Alias)) {
				return false
			}
		}
	default:
		if !c.Check(false, label, "unparseable",
			fmt.Sprintf("%s on line %d is not parseable as a group or a topic.", label, e.line)) {
			return false
		}
	}
	return !c.Stopped()
}
