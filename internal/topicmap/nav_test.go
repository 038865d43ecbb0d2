package topicmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docmatrix/internal/util/sets"
)

func TestResolveDistros(t *testing.T) {
	known := []string{"stage-a", "stage-b", "prod"}
	tests := []struct {
		raw     string
		want    []string
		unknown []string
	}{
		{"stage-*", []string{"stage-a", "stage-b"}, nil},
		{"all", []string{"prod", "stage-a", "stage-b"}, nil},
		{"prod, all", []string{"prod", "stage-a", "stage-b"}, nil},
		{"", []string{"prod", "stage-a", "stage-b"}, nil},
		{"   ", []string{"prod", "stage-a", "stage-b"}, nil},
		{"prod,prod", []string{"prod"}, nil},
		{"*-b,prod", []string{"prod", "stage-b"}, nil},
		{"st*e-*", []string{"stage-a", "stage-b"}, nil},
		{"nope-*", nil, nil},
		{"prod,ghost", []string{"prod"}, []string{"ghost"}},
		{"stage.a", nil, []string{"stage.a"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, unknown := ResolveDistros(tt.raw, known)
			if tt.want == nil {
				assert.Zero(t, got.Len())
			} else {
				assert.Equal(t, tt.want, sets.Sorted(got))
			}
			assert.Equal(t, tt.unknown, unknown)
		})
	}
}

func TestMatchPattern_QuotesMeta(t *testing.T) {
	assert.Equal(t, []string{"a.b"}, MatchPattern("a.b", []string{"a.b", "axb"}))
	assert.Equal(t, []string{"a.b", "axb"}, MatchPattern("a*b", []string{"a.b", "axb"}))
}

func TestGlobGroupExcludedForOtherDistro(t *testing.T) {
	tree := mustParse(t, `
- Name: Staging
  Dir: staging
  Distros: stage-*
  Topics:
    - Name: Deploy
      File: deploy
    - Name: Nested
      Dir: nested
      Topics:
        - Name: Deep
          File: deep
`, testOptions("stage-a", "stage-b", "prod"))

	group := tree.Roots()[0]
	assert.Equal(t, []string{"stage-a", "stage-b"}, group.Distros())

	group.walk(func(e *Entity) {
		assert.False(t, e.IncludeFor("prod", nil), e.RepoPath())
		assert.True(t, e.IncludeFor("stage-b", nil), e.RepoPath())
	})
	assert.False(t, group.IncludeFor("prod", nil))
	assert.True(t, group.IncludeFor("stage-a", nil))
	assert.Empty(t, tree.NavTree("prod"))
	assert.Empty(t, tree.PathList("prod"))
	assert.Len(t, tree.NavTree("stage-b"), 1)
}

func TestNavTree(t *testing.T) {
	tree := mustParse(t, `
- Name: Guide
  Dir: guide
  Topics:
    - Name: Intro
      File: intro
    - Name: Old
      File: old
      Alias: intro
    - Name: Prod only
      Dir: prod
      Distros: prod
      Topics:
        - Name: Ops
          File: ops
    - Name: Empty for stage
      Dir: mixed
      Topics:
        - Name: Prod page
          File: page
          Distros: prod
- Name: All aliases
  Dir: moved
  Topics:
    - Name: Gone
      File: gone
      Alias: /guide/intro
`, testOptions("stage", "prod"))

	stage := tree.NavTree("stage")
	require.Len(t, stage, 1, "group of only aliases and collapsed groups must not surface")
	assert.Equal(t, NavItem{
		ID:   "Guide",
		Name: "Guide",
		Children: []NavItem{
			{ID: "Guide::Intro", Name: "Intro", Path: "guide/intro.html"},
		},
	}, stage[0])

	prod := tree.NavTree("prod")
	require.Len(t, prod, 1)
	require.Len(t, prod[0].Children, 3)
	assert.Equal(t, "Guide::ProdOnly", prod[0].Children[1].ID)

	// cached per distro
	again := tree.NavTree("stage")
	assert.Equal(t, stage, again)
	assert.Len(t, tree.nav, 2)

	assert.True(t, tree.IsValid(), "%v", tree.Errors())
}

func TestIncludeFor_SinglePage(t *testing.T) {
	tree := mustParse(t, `
- Name: Guide
  Dir: guide
  Topics:
    - Name: Sub
      Dir: sub
      Topics:
        - Name: Target
          File: target
        - Name: Other
          File: other
    - Name: Intro
      File: intro
`, testOptions())

	single := []string{"guide", "sub", "target"}
	guide := tree.Roots()[0]
	sub := guide.Children()[0]
	assert.True(t, guide.IncludeFor("stable", single))
	assert.True(t, sub.IncludeFor("stable", single))
	assert.True(t, sub.Children()[0].IncludeFor("stable", single))
	assert.False(t, sub.Children()[1].IncludeFor("stable", single))
	assert.False(t, guide.Children()[1].IncludeFor("stable", single))
	assert.False(t, guide.IncludeFor("stable", []string{"other"}))
	assert.False(t, guide.IncludeFor("ghost", nil))
}
