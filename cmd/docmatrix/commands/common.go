package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docmatrix/internal/build"
	"git.home.luguber.info/inful/docmatrix/internal/config"
	"git.home.luguber.info/inful/docmatrix/internal/git"
	"git.home.luguber.info/inful/docmatrix/internal/logfields"
	"git.home.luguber.info/inful/docmatrix/internal/metrics"
)

var _ build.SourceControl = (*git.Repo)(nil)

// Global carries process-wide state into subcommands.
type Global struct {
	Ctx    context.Context
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config   string           `short:"c" help:"Configuration file path (default: <docs-root>/docmatrix.yaml)" type:"path"`
	DocsRoot string           `name:"docs-root" short:"d" help:"Documentation repository root" default:"." type:"path"`
	Verbose  bool             `short:"v" help:"Enable verbose logging"`
	Version  kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Build every selected distro and branch"`
	Refresh  RefreshCmd  `cmd:"" help:"Rebuild a single topic on the working branch"`
	Plan     PlanCmd     `cmd:"" help:"List the targets a build would generate without writing anything"`
	Validate ValidateCmd `cmd:"" help:"Validate the distro map and topic map and report every problem"`
	Watch    WatchCmd    `cmd:"" help:"Rebuild the working branch when files change"`
	Clean    CleanCmd    `cmd:"" help:"Remove the preview and package directories"`
}

// AfterApply runs after flag parsing; install a default logger until the
// configuration is loaded.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// LoadConfig reads the run configuration and reinstalls the default logger
// according to its logging section.
func (c *CLI) LoadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config, c.DocsRoot, c.Config != "")
	if err != nil {
		return nil, err
	}
	logger := cfg.Logging.NewLogger(os.Stderr, c.Verbose)
	slog.SetDefault(logger)
	g.Logger = logger
	return cfg, nil
}

// engine wires the engine for cfg against the git repository at the docs root.
type engine struct {
	*build.Engine
	recorder *metrics.PrometheusRecorder
	textfile string
	logger   *slog.Logger
}

func newEngine(cfg *config.Config, logger *slog.Logger) (*engine, error) {
	repo, err := git.Open(cfg.DocsRoot)
	if err != nil {
		return nil, err
	}
	e := &engine{Engine: build.NewEngine(cfg, repo).WithLogger(logger), textfile: cfg.Metrics.Textfile, logger: logger}
	if e.textfile != "" {
		e.recorder = metrics.NewPrometheusRecorder(nil)
		e.WithRecorder(e.recorder)
	}
	return e, nil
}

// run executes req and exports metrics when a textfile is configured.
func (e *engine) run(ctx context.Context, req build.Request) (*build.Result, error) {
	res, err := e.Run(ctx, req)
	if e.recorder != nil && e.textfile != "" {
		if werr := e.recorder.WriteTextfile(e.textfile); werr != nil {
			e.logger.Warn("Failed to write metrics", logfields.File(e.textfile), logfields.Error(werr))
		}
	}
	return res, err
}
