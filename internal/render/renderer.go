// Package render turns topic sources into finished pages: the renderer
// collaborator converts markup to HTML and a Layout wraps the result with
// navigation and site chrome. Alias redirect pages are produced here too.
package render

import (
	"git.home.luguber.info/inful/docmatrix/internal/topicmap"
)

// Attributes are the page attributes supplied to the renderer for one topic.
type Attributes struct {
	DistroID       string
	ProductTitle   string
	ProductVersion string
	ProductAuthor  string
	ImagesDir      string
	RepoPath       string

	Breadcrumb    []topicmap.Crumb
	GroupTitle    string
	GroupID       string
	SubgroupTitle string
	SubgroupID    string
	TopicTitle    string
	TopicID       string
}

// Values returns the attributes as name/value pairs referenced from sources
// as {name}. Subgroup values are blank for topics directly under a group.
func (a Attributes) Values() map[string]string {
	return map[string]string{
		"distro":          a.DistroID,
		"product-title":   a.ProductTitle,
		"product-version": a.ProductVersion,
		"product-author":  a.ProductAuthor,
		"imagesdir":       a.ImagesDir,
		"repo_path":       a.RepoPath,
		"group_title":     a.GroupTitle,
		"group_id":        a.GroupID,
		"subgroup_title":  a.SubgroupTitle,
		"subgroup_id":     a.SubgroupID,
		"topic_title":     a.TopicTitle,
		"topic_id":        a.TopicID,
	}
}

// NewAttributes derives breadcrumb fields from the topic's ancestor chain.
func NewAttributes(crumbs []topicmap.Crumb) Attributes {
	a := Attributes{Breadcrumb: crumbs}
	if len(crumbs) == 0 {
		return a
	}
	a.GroupTitle, a.GroupID = crumbs[0].Name, crumbs[0].ID
	last := crumbs[len(crumbs)-1]
	a.TopicTitle, a.TopicID = last.Name, last.ID
	if len(crumbs) == 3 {
		a.SubgroupTitle, a.SubgroupID = crumbs[1].Name, crumbs[1].ID
	}
	return a
}

// Result is the rendered body of one topic.
type Result struct {
	Title string
	HTML  string
}

// Renderer converts a topic source file into HTML.
type Renderer interface {
	Render(sourcePath string, attrs Attributes) (Result, error)
}
