package matrix

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docmatrix/internal/config"
	"git.home.luguber.info/inful/docmatrix/internal/distromap"
	ferrors "git.home.luguber.info/inful/docmatrix/internal/foundation/errors"
	"git.home.luguber.info/inful/docmatrix/internal/topicmap"
)

const scenarioDistroMap = `
stable:
  name: Stable
  author: A
  site: docs
  site_name: Docs
  site_url: http://x
  branches:
    main:
      name: "1.0"
      dir: "1.0"
`

const multiDistroMap = `
d1:
  name: D1
  author: A
  site: docs
  site_name: Docs
  site_url: http://x
  branches:
    v1: {name: "1", dir: v1}
d2:
  name: D2
  author: B
  site: extra
  site_name: Extra
  site_url: http://y
  branches:
    v2: {name: "2", dir: v2}
    gone: {name: gone, dir: gone}
`

func newSelector(t *testing.T, src string) *Selector {
	t.Helper()
	dm, err := distromap.Parse([]byte(src), "_distro_map.yml")
	require.NoError(t, err)
	return NewSelector(dm, config.Default(".").DevBranch)
}

type buildPair struct {
	distro, branch string
	dev            bool
}

func pairs(p *Plan) []buildPair {
	var out []buildPair
	for _, pass := range p.Passes {
		for _, b := range pass.Builds {
			out = append(out, buildPair{b.Distro().ID, pass.Branch, b.Dev})
		}
	}
	return out
}

func TestPlan_AllGroupWorkingBranchBuildsEveryDistro(t *testing.T) {
	s := newSelector(t, `
d1:
  name: D1
  author: A
  site: docs
  site_name: Docs
  site_url: http://x
  branches:
    v1: {name: "1", dir: v1}
d2:
  name: D2
  author: B
  site: docs
  site_name: Docs
  site_url: http://x
  branches:
    other: {name: o, dir: o}
`)
	plan, err := s.Plan(Request{Group: GroupAll, LocalBranches: []string{"main", "v1"}})
	require.NoError(t, err)

	assert.Equal(t, []buildPair{
		{"d1", "main", true},
		{"d2", "main", true},
		{"d1", "v1", false},
	}, pairs(plan))
	assert.Equal(t, []string{"other"}, plan.Missing)
	assert.True(t, plan.Passes[0].Working)
	assert.True(t, plan.LeavesWorkingBranch())

	dev := plan.Passes[0].Builds[0]
	assert.Equal(t, "main", dev.Dir)
	assert.Equal(t, "Branch Build", dev.Name)
	assert.Equal(t, "D1", dev.DistroName)
}

func TestPlan_PublishOnlyListedPairs(t *testing.T) {
	s := newSelector(t, multiDistroMap)
	plan, err := s.Plan(Request{Group: GroupPublish, LocalBranches: []string{"v2", "main", "v1"}})
	require.NoError(t, err)

	assert.Equal(t, []buildPair{
		{"d2", "v2", false},
		{"d1", "v1", false},
	}, pairs(plan))
	assert.Equal(t, "v2", plan.Passes[0].Branch, "working branch goes first")
	assert.Equal(t, []string{"gone"}, plan.Missing)
}

func TestPlan_PublishSite(t *testing.T) {
	s := newSelector(t, multiDistroMap)
	g, err := ParseBranchGroup("publish-extra", s.Sites())
	require.NoError(t, err)
	assert.Equal(t, PublishSite("extra"), g)

	plan, err := s.Plan(Request{Group: g, LocalBranches: []string{"main", "v1", "v2"}})
	require.NoError(t, err)
	assert.Equal(t, []buildPair{{"d2", "v2", false}}, pairs(plan))
}

func TestPlan_DistroFilterBuildsEveryBranch(t *testing.T) {
	s := newSelector(t, multiDistroMap)
	plan, err := s.Plan(Request{Group: GroupAll, Distro: "d1", LocalBranches: []string{"main", "v1", "v2"}})
	require.NoError(t, err)

	assert.Equal(t, []buildPair{
		{"d1", "main", true},
		{"d1", "v1", false},
		{"d1", "v2", true},
	}, pairs(plan))
	assert.Empty(t, plan.Missing, "missing branches are scoped to the filtered distro")
}

func TestPlan_PublishDistroFilterSkipsAbsentBranchesOfOtherDistros(t *testing.T) {
	s := newSelector(t, multiDistroMap)
	plan, err := s.Plan(Request{Group: GroupPublish, Distro: "d1", LocalBranches: []string{"v1", "v2"}})
	require.NoError(t, err)

	var branches []string
	for _, p := range plan.Passes {
		branches = append(branches, p.Branch)
	}
	assert.NotContains(t, branches, "gone")
	assert.Equal(t, []buildPair{
		{"d1", "v1", false},
		{"d1", "v2", true},
	}, pairs(plan))
	assert.Empty(t, plan.Missing, "the warning stays scoped to the filtered distro")
}

func TestPlan_WorkingOnly(t *testing.T) {
	s := newSelector(t, multiDistroMap)
	plan, err := s.Plan(Request{LocalBranches: []string{"v1", "v2"}})
	require.NoError(t, err)

	assert.Equal(t, GroupWorkingOnly, plan.Group)
	assert.Equal(t, []buildPair{{"d1", "v1", false}, {"d2", "v1", true}}, pairs(plan))
	assert.False(t, plan.LeavesWorkingBranch())
}

func TestPlan_SinglePageNeverLeavesWorkingBranch(t *testing.T) {
	s := newSelector(t, multiDistroMap)
	sp, err := ParseSinglePage("guide:intro", ".md")
	require.NoError(t, err)

	plan, err := s.Plan(Request{Group: GroupAll, SinglePage: sp, LocalBranches: []string{"main", "v1", "v2"}})
	require.NoError(t, err)
	require.Len(t, plan.Passes, 1)
	assert.Equal(t, "main", plan.Passes[0].Branch)
	assert.False(t, plan.LeavesWorkingBranch())
}

func TestPlan_Errors(t *testing.T) {
	s := newSelector(t, multiDistroMap)

	_, err := s.Plan(Request{LocalBranches: nil})
	assert.True(t, errors.Is(err, ErrNoBranches))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryGit))

	_, err = s.Plan(Request{Distro: "nope", LocalBranches: []string{"main"}})
	assert.True(t, errors.Is(err, ErrUnknownDistro))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	_, err = s.Plan(Request{Group: PublishSite("ghost"), LocalBranches: []string{"main"}})
	assert.Error(t, err)
}

func TestPlan_DetachedHead(t *testing.T) {
	s := newSelector(t, multiDistroMap)
	plan, err := s.Plan(Request{LocalBranches: []string{"(HEAD detached at 1a2b3c)", "v1"}})
	require.NoError(t, err)
	assert.Equal(t, DetachedBranch, plan.WorkingBranch)
	assert.Equal(t, "detached", plan.Passes[0].Builds[0].Dir)
}

func TestParseBranchGroup(t *testing.T) {
	s := newSelector(t, multiDistroMap)
	tests := map[string]BranchGroup{
		"":             GroupWorkingOnly,
		"working-only": GroupWorkingOnly,
		"Publish":      GroupPublish,
		"ALL":          GroupAll,
		"publish_docs": PublishSite("docs"),
	}
	for raw, want := range tests {
		got, err := ParseBranchGroup(raw, s.Sites())
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseBranchGroup("nightly", s.Sites())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	assert.True(t, PublishSite("docs").IsPublish())
	assert.False(t, GroupAll.IsPublish())
}

func TestParseSinglePage(t *testing.T) {
	sp, err := ParseSinglePage("guide/sub:intro.md", ".md")
	require.NoError(t, err)
	assert.Equal(t, []string{"guide", "sub", "intro"}, sp.Segments)
	assert.Equal(t, "guide/sub/intro", sp.RepoPath())

	for _, bad := range []string{"guide", "guide:", ":intro", "a::b", "a//b:c", "a:b/c"} {
		_, err := ParseSinglePage(bad, ".md")
		assert.Error(t, err, bad)
	}
}

func TestTargets_SingleTopic(t *testing.T) {
	s := newSelector(t, scenarioDistroMap)
	tree, err := topicmap.Parse([]byte(`
- Name: Guide
  Dir: guide
  Topics:
    - Name: Intro
      File: intro
`), "_topic_map.yml", topicmap.Options{DistroKeys: []string{"stable"}, SourceExtension: ".md", MaxDepth: 2})
	require.NoError(t, err)

	plan, err := s.Plan(Request{Group: GroupPublish, LocalBranches: []string{"main"}})
	require.NoError(t, err)
	require.Len(t, plan.Passes, 1)
	require.Len(t, plan.Passes[0].Builds, 1)

	targets := Targets(tree, plan.Passes[0].Builds[0], nil)
	require.Len(t, targets, 1)
	assert.Equal(t, "stable", targets[0].Distro())
	assert.Equal(t, "guide/intro", targets[0].RepoPath())
	assert.Equal(t, "stable/1.0/guide/intro.html", targets[0].OutputPath)
	assert.Equal(t, "guide/intro.md", targets[0].SourcePath)
	assert.Equal(t, TargetPage, targets[0].Kind)
}

func TestTargets_AliasesAndSinglePage(t *testing.T) {
	s := newSelector(t, scenarioDistroMap)
	tree, err := topicmap.Parse([]byte(`
- Name: Guide
  Dir: guide
  Topics:
    - Name: Old
      File: old
      Alias: new
    - Name: New
      File: new
    - Name: Upstream
      File: upstream
      Alias: https://example.com/
- Name: Ref
  Dir: ref
  Topics:
    - Name: API
      File: api
`), "_topic_map.yml", topicmap.Options{DistroKeys: []string{"stable"}, SourceExtension: ".md", MaxDepth: 2})
	require.NoError(t, err)
	plan, err := s.Plan(Request{LocalBranches: []string{"main"}})
	require.NoError(t, err)
	b := plan.Passes[0].Builds[0]

	all := Targets(tree, b, nil)
	require.Len(t, all, 4)
	assert.Equal(t, TargetAlias, all[0].Kind)
	assert.Equal(t, "/1.0/guide/new.html", all[0].RedirectURL)
	assert.Equal(t, "stable/1.0/guide/old.html", all[0].OutputPath)
	assert.Equal(t, "https://example.com/", all[2].RedirectURL)

	sp, err := ParseSinglePage("ref:api", ".md")
	require.NoError(t, err)
	one := Targets(tree, b, sp)
	require.Len(t, one, 1)
	assert.Equal(t, "ref/api", one[0].RepoPath())
}
