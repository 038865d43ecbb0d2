package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"git.home.luguber.info/inful/docmatrix/internal/build"
	"git.home.luguber.info/inful/docmatrix/internal/matrix"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Distro string `help:"Build only this distro"`
	Group  string `short:"g" help:"Branch group: working_only, publish, publish_<site> or all" default:"working_only"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	e, err := newEngine(cfg, g.Logger)
	if err != nil {
		return err
	}
	res, err := e.run(g.Ctx, build.Request{Group: matrix.BranchGroup(b.Group), Distro: b.Distro})
	if err != nil {
		return err
	}
	printSummary(os.Stdout, res, cfg.PreviewRoot())
	return nil
}

func printSummary(w io.Writer, res *build.Result, previewRoot string) {
	r := res.Report
	_, _ = fmt.Fprintf(w, "Generated %d page(s) and %d alias(es) across %d branch(es) into %s in %s\n",
		r.Pages(), r.Aliases(), len(r.Branches), previewRoot, res.Duration.Round(time.Millisecond))
	if n := len(r.Warnings); n > 0 {
		_, _ = fmt.Fprintf(w, "%d warning(s); rerun with --verbose for details\n", n)
	}
}
