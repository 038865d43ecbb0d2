package matrix

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docmatrix/internal/distromap"
	ferrors "git.home.luguber.info/inful/docmatrix/internal/foundation/errors"
	"git.home.luguber.info/inful/docmatrix/internal/foundation/normalization"
)

// BranchGroup is the build scope: which branches participate in a run.
type BranchGroup string

const (
	GroupWorkingOnly BranchGroup = "working_only"
	GroupPublish     BranchGroup = "publish"
	GroupAll         BranchGroup = "all"

	publishSitePrefix = "publish_"
)

// PublishSite is the group holding the branches of one site's distros.
func PublishSite(siteID string) BranchGroup {
	return BranchGroup(publishSitePrefix + siteID)
}

// IsPublish reports whether the group only builds distro/branch pairs the
// distro map lists.
func (g BranchGroup) IsPublish() bool {
	return g == GroupPublish || strings.HasPrefix(string(g), publishSitePrefix)
}

// Site returns the site id of a publish_<site> group.
func (g BranchGroup) Site() (string, bool) {
	if !strings.HasPrefix(string(g), publishSitePrefix) {
		return "", false
	}
	return strings.TrimPrefix(string(g), publishSitePrefix), true
}

func (g BranchGroup) String() string { return string(g) }

// ParseBranchGroup normalizes raw ("working-only", "Publish", "publish_docs")
// against the fixed groups plus one publish group per site. Blank means working only.
func ParseBranchGroup(raw string, sites *distromap.SiteMap) (BranchGroup, error) {
	if strings.TrimSpace(raw) == "" {
		return GroupWorkingOnly, nil
	}
	values := map[string]BranchGroup{
		string(GroupWorkingOnly): GroupWorkingOnly,
		string(GroupPublish):     GroupPublish,
		string(GroupAll):         GroupAll,
	}
	if sites != nil {
		for _, id := range sites.IDs() {
			values[publishSitePrefix+id] = PublishSite(id)
		}
	}
	n := normalization.WithCustomNormalizer(values, GroupWorkingOnly, normalization.SnakeCase)
	g, err := n.NormalizeWithError(raw)
	if err != nil {
		return "", ferrors.ValidationError(fmt.Sprintf("unknown branch group '%s'", raw)).
			WithCause(err).
			WithContext("valid", n.ValidKeys()).
			Build()
	}
	return g, nil
}
