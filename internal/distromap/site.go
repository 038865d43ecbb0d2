package distromap

import (
	"fmt"

	"git.home.luguber.info/inful/docmatrix/internal/foundation"
)

// Site is a deployable bundle that one or more distros are published under.
type Site struct {
	ID   string
	Name string
	URL  string
}

func (s Site) validate(c *foundation.Collector, label string) bool {
	if !c.Check(foundation.ValidID(s.ID), label, "invalid_site_id",
		fmt.Sprintf("Site ID '%s' is not a valid ID.", s.ID)) {
		return false
	}
	if !c.Check(foundation.ValidString(s.Name), label, "invalid_site_name",
		fmt.Sprintf("Site name '%s' for site ID '%s' is not a valid string.", s.Name, s.ID)) {
		return false
	}
	return c.Check(foundation.ValidString(s.URL), label, "invalid_site_url",
		fmt.Sprintf("Site URL '%s' for site ID '%s' is not a valid string.", s.URL, s.ID))
}
