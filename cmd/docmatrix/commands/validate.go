package commands

import (
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/docmatrix/internal/config"
	"git.home.luguber.info/inful/docmatrix/internal/distromap"
	"git.home.luguber.info/inful/docmatrix/internal/docs"
	"git.home.luguber.info/inful/docmatrix/internal/topicmap"
)

// ValidateCmd implements the 'validate' command. It checks the checked-out
// branch only and never touches git.
type ValidateCmd struct{}

func (v *ValidateCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	return runValidate(os.Stdout, cfg)
}

func runValidate(w io.Writer, cfg *config.Config) error {
	dm, err := distromap.Load(cfg.DistroMapPath())
	if err != nil {
		return err
	}
	for _, warning := range dm.Warnings() {
		_, _ = fmt.Fprintf(w, "warning: %s\n", warning)
	}
	result := dm.Validate(false)

	tree, err := topicmap.Load(cfg.DocsRoot, topicmap.Files{
		Primary: cfg.TopicMapFile,
		Legacy:  cfg.LegacyTopicMapFile,
	}, topicmap.Options{
		DistroKeys:      dm.IDs(),
		SourceExtension: cfg.SourceExtension,
		MaxDepth:        cfg.MaxDepth,
	})
	if err != nil {
		return err
	}
	if tree.Legacy() {
		_, _ = fmt.Fprintf(w, "warning: '%s' is deprecated; rename it to '%s'\n", cfg.LegacyTopicMapFile, cfg.TopicMapFile)
	}
	result = result.Combine(tree.Validate(false))

	if found, ferr := docs.NewDiscovery(cfg).FindTopicFiles(); ferr == nil {
		rec := docs.Reconcile(tree.FilePaths(), found)
		for _, p := range rec.Nonexistent {
			_, _ = fmt.Fprintf(w, "warning: topic '%s' has no source file\n", p)
		}
		for _, p := range rec.Orphans {
			_, _ = fmt.Fprintf(w, "warning: '%s%s' is not referenced by the topic map\n", p, cfg.SourceExtension)
		}
	}

	if !result.Valid {
		return result.ToError(
			fmt.Sprintf("Found %d problem(s) in '%s' and '%s'", len(result.Errors), dm.Source(), tree.Source()))
	}
	_, _ = fmt.Fprintf(w, "%s and %s are valid (%d distro(s))\n", dm.Source(), tree.Source(), len(dm.IDs()))
	return nil
}
