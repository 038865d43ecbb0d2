package commands

import (
	"os"

	"git.home.luguber.info/inful/docmatrix/internal/build"
)

// RefreshCmd implements the 'refresh' command.
type RefreshCmd struct {
	Page   string `short:"p" required:"" help:"Topic to rebuild, as group/subgroup:topic"`
	Distro string `help:"Rebuild only for this distro"`
}

func (r *RefreshCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	e, err := newEngine(cfg, g.Logger)
	if err != nil {
		return err
	}
	res, err := e.run(g.Ctx, build.Request{Distro: r.Distro, SinglePage: r.Page})
	if err != nil {
		return err
	}
	printSummary(os.Stdout, res, cfg.PreviewRoot())
	return nil
}
