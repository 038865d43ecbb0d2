package render

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/docmatrix/internal/foundation/errors"
	"git.home.luguber.info/inful/docmatrix/internal/topicmap"
)

func TestMarkdownRendererSubstitutesAttributes(t *testing.T) {
	r := NewMarkdownRenderer()
	res, err := r.RenderBytes([]byte("# Installing {product-title}\n\nVersion {product-version} for {distro}. Keep {unknown}.\n"), Attributes{
		DistroID:       "ent",
		ProductTitle:   "Enterprise",
		ProductVersion: "3.0",
	})
	require.NoError(t, err)

	assert.Equal(t, "Installing Enterprise", res.Title)
	assert.Contains(t, res.HTML, "Version 3.0 for ent.")
	assert.Contains(t, res.HTML, "{unknown}")
}

func TestMarkdownRendererSubstitutesBreadcrumbAttributes(t *testing.T) {
	attrs := NewAttributes([]topicmap.Crumb{
		{ID: "Admin", Name: "Administration"},
		{ID: "Admin::Users", Name: "Users"},
		{ID: "Admin::Users::Roles", Name: "Roles"},
	})
	src := "# {topic_title}\n\nIn {group_title} / {subgroup_title} ({topic_id}, {group_id}, {subgroup_id}).\n"
	res, err := NewMarkdownRenderer().RenderBytes([]byte(src), attrs)
	require.NoError(t, err)

	assert.Equal(t, "Roles", res.Title)
	assert.Contains(t, res.HTML, "In Administration / Users (Admin::Users::Roles, Admin, Admin::Users).")

	flat := NewAttributes([]topicmap.Crumb{{ID: "Guide", Name: "Guide"}, {ID: "Guide::Intro", Name: "Intro"}})
	res, err = NewMarkdownRenderer().RenderBytes([]byte("Under [{subgroup_title}]\n"), flat)
	require.NoError(t, err)
	assert.Contains(t, res.HTML, "Under []")
}

func TestMarkdownRendererGFMTables(t *testing.T) {
	res, err := NewMarkdownRenderer().RenderBytes([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n"), Attributes{})
	require.NoError(t, err)
	assert.Contains(t, res.HTML, "<table>")
	assert.Empty(t, res.Title)
}

func TestMarkdownRendererMissingSource(t *testing.T) {
	_, err := NewMarkdownRenderer().Render(filepath.Join(t.TempDir(), "nope.md"), Attributes{})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
}

func TestMarkdownRendererReadsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "topic.md")
	require.NoError(t, os.WriteFile(file, []byte("# Hello\n"), 0o600))

	res, err := NewMarkdownRenderer().Render(file, Attributes{})
	require.NoError(t, err)
	assert.Equal(t, "Hello", res.Title)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name, in, want string
		ok             bool
	}{
		{"plain", "<h1>Title</h1><p>x</p>", "Title", true},
		{"nested", "<div><h1 id=\"a\">A <em>nested</em>\n title</h1></div>", "A nested title", true},
		{"first wins", "<h1>One</h1><h1>Two</h1>", "One", true},
		{"none", "<h2>Sub</h2>", "", false},
		{"empty", "<h1> </h1>", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractTitle(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestWriteRedirect(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRedirect(&buf, "/latest/admin/new.html"))
	out := buf.String()

	assert.Contains(t, out, `<link rel="canonical" href="/latest/admin/new.html"/>`)
	assert.Contains(t, out, `<meta name="robots" content="noindex">`)
	assert.Contains(t, out, `content="0; url=/latest/admin/new.html"`)
}

func TestNewAttributesBreadcrumb(t *testing.T) {
	crumbs := []topicmap.Crumb{
		{ID: "Admin", Name: "Admin"},
		{ID: "Admin___Networking", Name: "Networking"},
		{ID: "Admin___Networking___Routes", Name: "Routes"},
	}
	a := NewAttributes(crumbs)
	assert.Equal(t, "Admin", a.GroupID)
	assert.Equal(t, "Networking", a.SubgroupTitle)
	assert.Equal(t, "Routes", a.TopicTitle)

	two := NewAttributes(crumbs[:2:2])
	assert.Empty(t, two.SubgroupID)
	assert.Equal(t, "Networking", two.TopicTitle)
}

func TestDefaultLayout(t *testing.T) {
	page := Page{
		Attributes: Attributes{ProductTitle: "Enterprise", ProductVersion: "3.0", ProductAuthor: "Docs Team"},
		Title:      "Install",
		Content:    "<p>body</p>",
		SiteName:   "Example Docs",
		SiteURL:    "https://docs.example.com/",
		URLBase:    "/latest",
		Nav: []topicmap.NavItem{{
			ID: "Install", Name: "Install",
			Children: []topicmap.NavItem{{ID: "Install___Quick", Name: "Quick", Path: "install/quick.html"}},
		}},
		CSSPath:        "/latest/_stylesheets",
		JavascriptPath: "/latest/_javascripts",
	}
	out, err := DefaultLayout().Apply(page)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "<title>Install | Enterprise 3.0</title>")
	assert.Contains(t, html, `<a href="/latest/install/quick.html">Quick</a>`)
	assert.Contains(t, html, "<p>body</p>")
	assert.Contains(t, html, "Docs Team")
}

func TestLoadLayout(t *testing.T) {
	root := t.TempDir()
	l, err := LoadLayout(root)
	require.NoError(t, err)
	require.NotNil(t, l)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "_templates"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, LayoutFile), []byte("<h1>{{.Title}}</h1>{{.Content}}"), 0o600))
	l, err = LoadLayout(root)
	require.NoError(t, err)
	out, err := l.Apply(Page{Title: "T", Content: "<p>x</p>"})
	require.NoError(t, err)
	assert.Equal(t, "<h1>T</h1><p>x</p>", string(out))

	require.NoError(t, os.WriteFile(filepath.Join(root, LayoutFile), []byte("{{.Title"), 0o600))
	_, err = LoadLayout(root)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}
