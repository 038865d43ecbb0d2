package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"git.home.luguber.info/inful/docmatrix/internal/build"
	"git.home.luguber.info/inful/docmatrix/internal/matrix"
)

// PlanCmd implements the 'plan' command.
type PlanCmd struct {
	Distro string `help:"Plan only this distro"`
	Group  string `short:"g" help:"Branch group: working_only, publish, publish_<site> or all" default:"working_only"`
	Page   string `short:"p" help:"Plan a single topic, as group/subgroup:topic"`
	JSON   bool   `name:"json" help:"Print the full report as JSON"`
}

func (p *PlanCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	e, err := newEngine(cfg, g.Logger)
	if err != nil {
		return err
	}
	res, err := e.Run(g.Ctx, build.Request{
		Group:      matrix.BranchGroup(p.Group),
		Distro:     p.Distro,
		SinglePage: p.Page,
		DryRun:     true,
	})
	if err != nil {
		return err
	}
	if p.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Report)
	}
	return printPlan(os.Stdout, res.Report)
}

func printPlan(w io.Writer, r *build.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "BRANCH\tDISTRO\tKIND\tOUTPUT\tREDIRECT")
	for _, t := range r.Targets {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.Branch, t.Distro, t.Kind, t.OutputPath, t.RedirectURL)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, m := range r.Missing {
		_, _ = fmt.Fprintf(w, "missing branch: %s\n", m)
	}
	for _, s := range r.Skipped {
		_, _ = fmt.Fprintf(w, "skipped (no source): %s\n", s.OutputPath)
	}
	return nil
}
