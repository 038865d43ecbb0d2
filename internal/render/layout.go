package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/docmatrix/internal/foundation/errors"
	"git.home.luguber.info/inful/docmatrix/internal/topicmap"
)

// LayoutFile is the optional page template under the docs root.
const LayoutFile = "_templates/page.html"

// Page carries everything a layout needs to wrap one rendered topic.
type Page struct {
	Attributes

	Title   string
	Content template.HTML

	SiteName  string
	SiteURL   string
	DistroKey string
	URLBase   string
	Nav       []topicmap.NavItem

	CSSPath        string
	JavascriptPath string
	ImagesPath     string
}

// Href resolves a nav path against the branch URL base.
func (p Page) Href(navPath string) string {
	return path.Join(p.URLBase, navPath)
}

// navLevel is one level of the nav tree as seen by the recursive template.
type navLevel struct {
	Page  Page
	Items []topicmap.NavItem
}

var layoutFuncs = template.FuncMap{
	"level": func(p Page, items []topicmap.NavItem) navLevel { return navLevel{Page: p, Items: items} },
}

// Layout wraps a rendered topic into a complete HTML document.
type Layout interface {
	Apply(p Page) ([]byte, error)
}

// TemplateLayout is a Layout backed by an html/template.
type TemplateLayout struct {
	tpl *template.Template
}

// NewTemplateLayout parses the template source text.
func NewTemplateLayout(name, text string) (*TemplateLayout, error) {
	tpl, err := template.New(name).Funcs(layoutFuncs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse page layout").
			WithContext("file", name).
			Fatal().
			Build()
	}
	return &TemplateLayout{tpl: tpl}, nil
}

// DefaultLayout returns the built-in page layout.
func DefaultLayout() *TemplateLayout {
	l, err := NewTemplateLayout("default", defaultLayout)
	if err != nil {
		panic(err)
	}
	return l
}

// LoadLayout uses docsRoot/_templates/page.html when it exists and the
// built-in layout otherwise.
func LoadLayout(docsRoot string) (*TemplateLayout, error) {
	file := filepath.Join(docsRoot, filepath.FromSlash(LayoutFile))
	data, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultLayout(), nil
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read page layout").
			WithContext("file", file).
			Build()
	}
	return NewTemplateLayout(file, string(data))
}

func (l *TemplateLayout) Apply(p Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := l.tpl.Execute(&buf, p); err != nil {
		return nil, ferrors.RenderError(fmt.Sprintf("page layout failed: %v", err)).
			WithCause(err).
			WithContext("repo_path", p.RepoPath).
			Build()
	}
	return buf.Bytes(), nil
}

const defaultLayout = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{if .Title}}{{.Title}} | {{end}}{{.ProductTitle}} {{.ProductVersion}}</title>
<link rel="stylesheet" href="{{.CSSPath}}/docs.css">
</head>
<body data-distro="{{.DistroKey}}">
<header><a href="{{.SiteURL}}">{{.SiteName}}</a> <span>{{.ProductTitle}} {{.ProductVersion}}</span></header>
<nav>
{{- define "nav"}}<ul>{{range .Items}}<li>{{if .Children}}<span>{{.Name}}</span>{{template "nav" (level $.Page .Children)}}{{else}}<a href="{{$.Page.Href .Path}}">{{.Name}}</a>{{end}}</li>{{end}}</ul>{{end}}
{{- template "nav" (level . .Nav)}}
</nav>
<ol class="breadcrumb">{{range .Breadcrumb}}<li>{{.Name}}</li>{{end}}</ol>
<main>
{{.Content}}
</main>
<footer>{{.ProductAuthor}}</footer>
<script src="{{.JavascriptPath}}/docs.js"></script>
</body>
</html>
`
