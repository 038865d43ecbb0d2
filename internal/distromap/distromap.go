// Package distromap parses the distribution matrix: which distros exist,
// which site each belongs to, and which git branches each distro is built from.
package distromap

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docmatrix/internal/foundation"
	ferrors "git.home.luguber.info/inful/docmatrix/internal/foundation/errors"
)

// ErrUnknownDistro is returned when a lookup names a distro that is not in the map.
var ErrUnknownDistro = errors.New("unknown distro")

// DistroMap holds every distro in document order.
type DistroMap struct {
	source   string
	distros  []*Distro
	byID     map[string]*Distro
	warnings []string
}

// Load reads and parses the distro map at path. A missing or structurally
// malformed file is a fatal config error.
func Load(path string) (*DistroMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read distro map").
			Fatal().
			UserAction().
			WithContext("file", path).
			Build()
	}
	return Parse(data, path)
}

// Parse decodes distro map YAML. source names the file in error messages.
func Parse(data []byte, source string) (*DistroMap, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, parseError(source, fmt.Sprintf("invalid YAML: %v", err))
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, parseError(source, "file is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, parseError(source, "top level must be a mapping of distro keys")
	}

	dm := &DistroMap{source: source, byID: map[string]*Distro{}}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		if _, dup := dm.byID[key.Value]; dup {
			return nil, parseError(source, fmt.Sprintf("distro key '%s' is used more than once", key.Value))
		}
		d, err := dm.parseDistro(key.Value, val)
		if err != nil {
			return nil, err
		}
		dm.distros = append(dm.distros, d)
		dm.byID[d.ID] = d
	}
	return dm, nil
}

func parseError(source, msg string) error {
	return ferrors.ConfigError(fmt.Sprintf("Error parsing '%s': %s", source, msg)).
		UserAction().
		WithContext("file", source).
		Build()
}

func (dm *DistroMap) warnf(format string, args ...any) {
	dm.warnings = append(dm.warnings, fmt.Sprintf(format, args...))
}

func (dm *DistroMap) parseDistro(id string, node *yaml.Node) (*Distro, error) {
	if node.Kind != yaml.MappingNode {
		return nil, parseError(dm.source, fmt.Sprintf("distro '%s' must be a mapping", id))
	}
	d := &Distro{ID: id, byID: map[string]*DistroBranch{}}
	var branches *yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		switch key {
		case "branches":
			branches = val
			continue
		case "name", "author", "site", "site_name", "site_url":
		default:
			dm.warnf("distro '%s': ignoring unrecognized key '%s'", id, key)
			continue
		}
		s, err := dm.scalar(val, fmt.Sprintf("distro '%s' > %s", id, key))
		if err != nil {
			return nil, err
		}
		switch key {
		case "name":
			d.Name = s
		case "author":
			d.Author = s
		case "site":
			d.Site.ID = s
		case "site_name":
			d.Site.Name = s
		case "site_url":
			d.Site.URL = s
		}
	}

	if branches == nil || (branches.Kind == yaml.ScalarNode && branches.Tag == "!!null") {
		return d, nil
	}
	if branches.Kind != yaml.MappingNode {
		return nil, parseError(dm.source, fmt.Sprintf("distro '%s' > branches must be a mapping", id))
	}
	for i := 0; i+1 < len(branches.Content); i += 2 {
		branchID := branches.Content[i].Value
		if d.HasBranch(branchID) {
			return nil, parseError(dm.source,
				fmt.Sprintf("distro '%s' lists git branch '%s' multiple times", id, branchID))
		}
		b, err := dm.parseBranch(d, branchID, branches.Content[i+1])
		if err != nil {
			return nil, err
		}
		d.branches = append(d.branches, b)
		d.byID[branchID] = b
	}
	return d, nil
}

func (dm *DistroMap) parseBranch(d *Distro, id string, node *yaml.Node) (*DistroBranch, error) {
	label := fmt.Sprintf("distro '%s' > branch '%s'", d.ID, id)
	if node.Kind != yaml.MappingNode {
		return nil, parseError(dm.source, label+" must be a mapping")
	}
	b := &DistroBranch{ID: id, distro: d}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		switch key {
		case "name", "dir":
			s, err := dm.scalar(val, label+" > "+key)
			if err != nil {
				return nil, err
			}
			if key == "name" {
				b.Name = s
			} else {
				b.Dir = s
			}
		case "distro-overrides", "overrides":
			if err := dm.applyOverrides(b, val, label); err != nil {
				return nil, err
			}
		default:
			dm.warnf("%s: ignoring unrecognized key '%s'", label, key)
		}
	}
	b.DistroName = b.NameOverride.UnwrapOr(d.Name)
	b.DistroAuthor = b.AuthorOverride.UnwrapOr(d.Author)
	return b, nil
}

func (dm *DistroMap) applyOverrides(b *DistroBranch, node *yaml.Node, label string) error {
	if node.Kind != yaml.MappingNode {
		return parseError(dm.source, label+" > overrides must be a mapping")
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		switch key {
		case "name", "author":
			s, err := dm.scalar(val, label+" > overrides > "+key)
			if err != nil {
				return err
			}
			if key == "name" {
				b.NameOverride = foundation.Some(s)
			} else {
				b.AuthorOverride = foundation.Some(s)
			}
		case "site", "site_name", "site_url":
			dm.warnf("%s: site overrides are not supported; ignoring '%s'", label, key)
		default:
			dm.warnf("%s: only name and author may be overridden; ignoring '%s'", label, key)
		}
	}
	return nil
}

// scalar returns the string value of a scalar node. null decodes to "" so
// validation reports it as blank.
func (dm *DistroMap) scalar(node *yaml.Node, label string) (string, error) {
	if node.Kind != yaml.ScalarNode {
		return "", parseError(dm.source, label+" must be a string")
	}
	if node.Tag == "!!null" {
		return "", nil
	}
	return node.Value, nil
}

// Source is the file the map was parsed from.
func (dm *DistroMap) Source() string { return dm.source }

// Distro returns the distro with the given id.
func (dm *DistroMap) Distro(id string) (*Distro, bool) {
	d, ok := dm.byID[id]
	return d, ok
}

// Has reports whether id names a distro.
func (dm *DistroMap) Has(id string) bool {
	_, ok := dm.byID[id]
	return ok
}

// IDs returns every distro id in document order.
func (dm *DistroMap) IDs() []string {
	ids := make([]string, 0, len(dm.distros))
	for _, d := range dm.distros {
		ids = append(ids, d.ID)
	}
	return ids
}

// Distros returns every distro in document order.
func (dm *DistroMap) Distros() []*Distro {
	out := make([]*Distro, len(dm.distros))
	copy(out, dm.distros)
	return out
}

// BranchIDs returns the branches listed for distroID, or the first-seen
// union across all distros when distroID is empty.
func (dm *DistroMap) BranchIDs(distroID string) ([]string, error) {
	if distroID != "" {
		d, ok := dm.byID[distroID]
		if !ok {
			return nil, fmt.Errorf("%w: '%s'", ErrUnknownDistro, distroID)
		}
		return d.BranchIDs(), nil
	}
	seen := map[string]bool{}
	var out []string
	for _, d := range dm.distros {
		for _, id := range d.BranchIDs() {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out, nil
}

// Warnings returns non-fatal parse findings such as rejected overrides.
func (dm *DistroMap) Warnings() []string {
	out := make([]string, len(dm.warnings))
	copy(out, dm.warnings)
	return out
}

// Validate walks every distro. failFast stops at the first violation.
func (dm *DistroMap) Validate(failFast bool) foundation.ValidationResult {
	c := foundation.NewCollector(failFast)
	for _, d := range dm.distros {
		if !d.validate(c) {
			break
		}
	}
	return c.Result()
}

// IsValid is the fail-fast gate.
func (dm *DistroMap) IsValid() bool { return dm.Validate(true).Valid }

// Errors returns every violation with its distro/branch breadcrumb.
func (dm *DistroMap) Errors() []foundation.FieldError { return dm.Validate(false).Errors }

// Check returns a validation error carrying the verbose report, or nil.
func (dm *DistroMap) Check() error {
	if dm.IsValid() {
		return nil
	}
	return dm.Validate(false).ToError(
		fmt.Sprintf("The distro map file at '%s' contains the following errors", dm.source))
}
