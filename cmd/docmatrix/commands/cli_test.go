package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docmatrix/internal/config"
	ferrors "git.home.luguber.info/inful/docmatrix/internal/foundation/errors"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Name("docmatrix"), kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return cli, ctx
}

func TestParseBuildFlags(t *testing.T) {
	cli, ctx := parse(t, "--docs-root", "/tmp/docs", "build", "--distro", "ent", "-g", "publish")
	assert.Equal(t, "build", ctx.Command())
	assert.Equal(t, "/tmp/docs", cli.DocsRoot)
	assert.Equal(t, "ent", cli.Build.Distro)
	assert.Equal(t, "publish", cli.Build.Group)
}

func TestParseDefaults(t *testing.T) {
	cli, _ := parse(t, "plan")
	assert.Equal(t, "working_only", cli.Plan.Group)
	assert.False(t, cli.Plan.JSON)
	assert.Empty(t, cli.Config)
}

func TestRefreshRequiresPage(t *testing.T) {
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)
	_, err = parser.Parse([]string{"refresh"})
	require.Error(t, err)

	_, err = parser.Parse([]string{"refresh", "--page", "guide:intro"})
	require.NoError(t, err)
	assert.Equal(t, "guide:intro", cli.Refresh.Page)
}

func writeDocs(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return root
}

const distroMap = `
stable:
  name: Stable
  author: A
  site: docs
  site_name: Docs
  site_url: http://x
  branches:
    main: {name: "1.0", dir: "1.0"}
`

func TestRunValidate(t *testing.T) {
	root := writeDocs(t, map[string]string{
		"_distro_map.yml": distroMap,
		"_topic_map.yml":  "- Name: Guide\n  Dir: guide\n  Topics:\n    - Name: Intro\n      File: intro\n",
		"guide/intro.md":  "# Intro\n",
		"guide/extra.md":  "# Extra\n",
	})
	var out bytes.Buffer
	require.NoError(t, runValidate(&out, config.Default(root)))
	assert.Contains(t, out.String(), "are valid (1 distro(s))")
	assert.Contains(t, out.String(), "'guide/extra.md' is not referenced")
}

func TestRunValidateReportsEveryProblem(t *testing.T) {
	root := writeDocs(t, map[string]string{
		"_distro_map.yml": distroMap,
		"_topic_map.yml": `
- Name: Guide
  Dir: guide
  Topics:
    - Name: Old
      File: old
      Alias: missing
    - Name: Bad
      File: bad
      Distros: nope
`,
	})
	var out bytes.Buffer
	err := runValidate(&out, config.Default(root))
	require.Error(t, err)
	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryValidation, classified.Category())
	assert.GreaterOrEqual(t, len(classified.Issues()), 2)
}

func TestRunClean(t *testing.T) {
	root := writeDocs(t, map[string]string{
		"_preview/stable/1.0/guide/intro.html": "x",
		"_package/docs/index.html":             "x",
		"guide/intro.md":                       "# Intro\n",
	})
	require.NoError(t, runClean(config.Default(root)))

	for _, dir := range []string{"_preview", "_package"} {
		_, err := os.Stat(filepath.Join(root, dir))
		assert.True(t, os.IsNotExist(err), dir)
	}
	_, err := os.Stat(filepath.Join(root, "guide", "intro.md"))
	assert.NoError(t, err)
}
