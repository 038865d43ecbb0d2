package topicmap

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/docmatrix/internal/foundation/errors"
)

func testOptions(keys ...string) Options {
	if len(keys) == 0 {
		keys = []string{"stable"}
	}
	return Options{DistroKeys: keys, SourceExtension: ".md", MaxDepth: 2}
}

func mustParse(t *testing.T, src string, opts Options) *Tree {
	t.Helper()
	tree, err := Parse([]byte(src), "_topic_map.yml", opts)
	require.NoError(t, err)
	return tree
}

func TestParse_SingleTopic(t *testing.T) {
	tree := mustParse(t, `
- Name: Guide
  Dir: guide
  Topics:
    - Name: Intro
      File: intro
`, testOptions())

	require.Len(t, tree.Roots(), 1)
	group := tree.Roots()[0]
	assert.Equal(t, KindGroup, group.Kind())
	require.Len(t, group.Children(), 1)

	intro := group.Children()[0]
	assert.Equal(t, KindTopic, intro.Kind())
	assert.Equal(t, "guide/intro", intro.RepoPath())
	assert.Equal(t, "guide/intro.md", intro.SourcePath(".md"))
	assert.Equal(t, "stable/1.0/guide/intro.html", intro.OutputPath("stable", "1.0"))
	assert.Equal(t, "Guide::Intro", intro.ID())
	assert.Equal(t, 1, intro.Depth())
	assert.Same(t, group, intro.Parent())
	assert.True(t, tree.IsValid())
	assert.Equal(t, []string{"guide/intro"}, tree.PathList("stable"))
}

func TestParse_DocumentStream(t *testing.T) {
	tree := mustParse(t, `---
Name: Guide
Dir: guide
Topics:
  - Name: Intro
    File: intro.md
---
Name: Reference
Dir: ref
Topics:
  - Name: API Calls
    File: api
`, testOptions())

	require.Len(t, tree.Roots(), 2)
	assert.Equal(t, []string{"guide/intro", "ref/api"}, tree.FilePaths())
	api, ok := tree.Find("ref/api")
	require.True(t, ok)
	assert.Equal(t, "Reference::ApiCalls", api.ID())
}

func TestParse_Malformed(t *testing.T) {
	tests := map[string]string{
		"empty":          "",
		"scalar":         "hello\n",
		"entry scalar":   "- just a string\n",
		"topics mapping": "- Name: G\n  Dir: g\n  Topics: {a: b}\n",
		"name list":      "- Name: [a]\n  Dir: g\n",
		"bad yaml":       "- Name: [\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src), "_topic_map.yml", testOptions())
			require.Error(t, err)
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
		})
	}
}

func TestClassification(t *testing.T) {
	tree := mustParse(t, `
- Name: Guide
  Dir: guide
  Topics:
    - Name: Old
      File: old
      Alias: new
    - Name: New
      File: new
    - Name: Both
      Dir: both
      File: both
    - Name: Neither
`, testOptions())

	kids := tree.Roots()[0].Children()
	assert.Equal(t, KindAlias, kids[0].Kind())
	assert.True(t, kids[0].IsTopic())
	assert.Equal(t, KindTopic, kids[1].Kind())
	assert.Equal(t, KindInvalid, kids[2].Kind())
	assert.Equal(t, KindInvalid, kids[3].Kind())
	assert.Equal(t, "invalid", kids[3].Kind().String())
}

func TestAliasResolution(t *testing.T) {
	tree := mustParse(t, `
- Name: Guide
  Dir: guide
  Topics:
    - Name: Old
      File: old
      Alias: new
    - Name: New
      File: new
`, testOptions())

	assert.Equal(t, []string{"guide/new"}, tree.PathList("stable"))
	aliases := tree.AliasList("stable")
	require.Len(t, aliases, 1)
	assert.Equal(t, "guide/old", aliases[0].AliasPath)
	assert.Equal(t, "new", aliases[0].RedirectTarget)
	assert.Equal(t, "guide/new", aliases[0].Resolved)
	assert.False(t, aliases[0].External)
	assert.True(t, tree.IsValid())
	assert.Len(t, tree.NavTree("stable")[0].Children, 1, "alias must not appear in navigation")
}

func TestResolveAliasTarget(t *testing.T) {
	tests := []struct {
		alias, target, want string
		ok                  bool
	}{
		{"guide/old", "new", "guide/new", true},
		{"guide/old", "new.md", "guide/new", true},
		{"guide/old", "new.html", "guide/new", true},
		{"guide/sub/old", "../other/x", "guide/other/x", true},
		{"guide/old", "/ref/api", "ref/api", true},
		{"guide/old", "../../escape", "", false},
		{"guide/old", "", "", false},
		{"guide/old", "has space", "", false},
		{"guide/old", "ftp://host/x", "", false},
		{"guide/old", "/", "", false},
	}
	for _, tt := range tests {
		got, ok := ResolveAliasTarget(tt.alias, tt.target, ".md")
		assert.Equal(t, tt.ok, ok, "%s -> %s", tt.alias, tt.target)
		assert.Equal(t, tt.want, got, "%s -> %s", tt.alias, tt.target)
	}
}

func TestValidation_AliasErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{
			name: "collision",
			src: `
- Name: Guide
  Dir: guide
  Topics:
    - Name: One
      File: one
      Alias: two
    - Name: Other
      File: one
    - Name: Two
      File: two
`,
			code: "alias_path_collision",
		},
		{
			name: "dangling",
			src: `
- Name: Guide
  Dir: guide
  Topics:
    - Name: Old
      File: old
      Alias: missing
`,
			code: "alias_target_missing",
		},
		{
			name: "syntax",
			src: `
- Name: Guide
  Dir: guide
  Topics:
    - Name: Old
      File: old
      Alias: "mailto://x y"
`,
			code: "invalid_alias",
		},
		{
			name: "alias on group",
			src: `
- Name: Guide
  Dir: guide
  Alias: elsewhere
  Topics:
    - Name: A
      File: a
`,
			code: "alias_on_group",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, tt.src, testOptions())
			assert.False(t, tree.IsValid())
			var codes []string
			for _, fe := range tree.Errors() {
				codes = append(codes, fe.Code)
			}
			assert.Contains(t, codes, tt.code)
		})
	}
}

func TestValidation_ExternalAliasPasses(t *testing.T) {
	tree := mustParse(t, `
- Name: Guide
  Dir: guide
  Topics:
    - Name: Upstream
      File: upstream
      Alias: https://example.com/docs
    - Name: A
      File: a
`, testOptions())

	require.True(t, tree.IsValid(), "%v", tree.Errors())
	aliases := tree.AliasList("stable")
	require.Len(t, aliases, 1)
	assert.True(t, aliases[0].External)
}

func TestValidation_NodeErrors(t *testing.T) {
	tree := mustParse(t, `
- Name: Guide
  Dir: guide
  Distros: stable,ghost
  Extra: 1
  Topics:
    - Name: ""
      File: a
    - Name: Empty
      File: " "
    - Name: Lonely
      Dir: lonely
      Topics: []
- Name: Loose
  File: loose
`, testOptions())

	assert.False(t, tree.IsValid())
	codes := map[string]string{}
	for _, fe := range tree.Errors() {
		codes[fe.Code] = fe.Field
	}
	assert.Equal(t, "Top level topic entity 'Guide'", codes["unknown_key"])
	assert.Equal(t, "Top level topic entity 'Guide'", codes["unknown_distro"])
	assert.Contains(t, codes, "invalid_name")
	assert.Equal(t, "Topic entity at 'Guide -> Empty'", codes["invalid_file"])
	assert.Equal(t, "Topic entity at 'Guide -> Lonely'", codes["empty_group"])
	assert.Equal(t, "Top level topic entity 'Loose'", codes["top_level_not_group"])

	fast := tree.Validate(true)
	assert.Len(t, fast.Errors, 1)
}

func TestValidation_DuplicateIDs(t *testing.T) {
	tree := mustParse(t, `
- Name: Guide
  Dir: guide
  Topics:
    - Name: Intro
      File: intro
    - Name: intro
      File: intro-two
`, testOptions())

	errs := tree.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "duplicate_id", errs[0].Code)
}

func TestValidation_DuplicateIDsInDisjointDistrosPass(t *testing.T) {
	tree := mustParse(t, `
- Name: Guide
  Dir: guide
  Topics:
    - Name: Intro
      File: intro
      Distros: a
    - Name: Intro
      File: intro-b
      Distros: b
`, testOptions("a", "b"))

	assert.True(t, tree.IsValid(), "%v", tree.Errors())
}

func TestValidation_Depth(t *testing.T) {
	src := `
- Name: L0
  Dir: l0
  Topics:
    - Name: L1
      Dir: l1
      Topics:
        - Name: L2
          Dir: l2
          Topics:
            - Name: L3
              File: l3
`
	deep := mustParse(t, src, testOptions())
	errs := deep.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "max_depth", errs[0].Code)
	assert.Equal(t, "Topic entity at 'L0 -> L1 -> L2 -> L3'", errs[0].Field)

	opts := testOptions()
	opts.MaxDepth = 3
	assert.True(t, mustParse(t, src, opts).IsValid())
}

func TestCheck_ReportsEveryIssue(t *testing.T) {
	tree := mustParse(t, `
- Name: Guide
  Dir: guide
  Topics:
    - Name: A
      File: " "
    - Name: B
      File: b
      Alias: nowhere
`, testOptions())

	err := tree.Check()
	require.Error(t, err)
	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryValidation, ce.Category())
	assert.Len(t, ce.Issues(), 2)
}

func TestLoad_LegacyFallback(t *testing.T) {
	dir := t.TempDir()
	files := Files{Primary: "_topic_map.yml", Legacy: "_build_cfg.yml"}
	src := []byte("- Name: G\n  Dir: g\n  Topics:\n    - Name: A\n      File: a\n")

	_, err := Load(dir, files, testOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoTopicMap))

	require.NoError(t, os.WriteFile(filepath.Join(dir, files.Legacy), src, 0o600))
	tree, err := Load(dir, files, testOptions())
	require.NoError(t, err)
	assert.True(t, tree.Legacy())

	require.NoError(t, os.WriteFile(filepath.Join(dir, files.Primary), src, 0o600))
	tree, err = Load(dir, files, testOptions())
	require.NoError(t, err)
	assert.False(t, tree.Legacy())
	assert.Equal(t, filepath.Join(dir, files.Primary), tree.Source())
}

func TestBreadcrumb(t *testing.T) {
	tree := mustParse(t, `
- Name: Getting Started
  Dir: start
  Topics:
    - Name: Sub group
      Dir: sub
      Topics:
        - Name: First steps
          File: first
`, testOptions())

	leaf, ok := tree.Find("start/sub/first")
	require.True(t, ok)
	assert.Equal(t, []Crumb{
		{ID: "GettingStarted", Name: "Getting Started", Path: "start"},
		{ID: "GettingStarted::SubGroup", Name: "Sub group", Path: "start/sub"},
		{ID: "GettingStarted::SubGroup::FirstSteps", Name: "First steps", Path: "start/sub/first.html"},
	}, leaf.Breadcrumb())
}
