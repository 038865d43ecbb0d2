package commands

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/docmatrix/internal/config"
	"git.home.luguber.info/inful/docmatrix/internal/output"
)

// CleanCmd implements the 'clean' command.
type CleanCmd struct{}

func (c *CleanCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	if err := runClean(cfg); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "Removed %s and %s\n", cfg.PreviewRoot(), cfg.PackageRoot())
	return nil
}

func runClean(cfg *config.Config) error {
	sink := output.NewDirSink(cfg.DocsRoot)
	for _, dir := range []string{cfg.PreviewDir, cfg.PackageDir} {
		if err := sink.RemoveAll(dir); err != nil {
			return err
		}
	}
	return nil
}
