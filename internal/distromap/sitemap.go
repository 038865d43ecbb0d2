package distromap

import "slices"

// SiteInfo aggregates the distros published under one site.
type SiteInfo struct {
	ID        string
	Name      string
	URL       string
	DistroIDs []string
	// Branches is the first-seen union of branch ids across the site's distros.
	Branches []string
}

// SiteMap groups distros by site id in first-seen order.
type SiteMap struct {
	sites []*SiteInfo
	byID  map[string]*SiteInfo
}

func NewSiteMap(dm *DistroMap) *SiteMap {
	sm := &SiteMap{byID: map[string]*SiteInfo{}}
	for _, d := range dm.distros {
		info, ok := sm.byID[d.Site.ID]
		if !ok {
			info = &SiteInfo{ID: d.Site.ID, Name: d.Site.Name, URL: d.Site.URL}
			sm.byID[info.ID] = info
			sm.sites = append(sm.sites, info)
		}
		info.DistroIDs = append(info.DistroIDs, d.ID)
		for _, b := range d.branches {
			if !slices.Contains(info.Branches, b.ID) {
				info.Branches = append(info.Branches, b.ID)
			}
		}
	}
	return sm
}

func (sm *SiteMap) Sites() []*SiteInfo { return sm.sites }

func (sm *SiteMap) IDs() []string {
	ids := make([]string, 0, len(sm.sites))
	for _, s := range sm.sites {
		ids = append(ids, s.ID)
	}
	return ids
}

func (sm *SiteMap) Site(id string) (*SiteInfo, bool) {
	s, ok := sm.byID[id]
	return s, ok
}
