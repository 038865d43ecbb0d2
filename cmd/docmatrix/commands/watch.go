package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"git.home.luguber.info/inful/docmatrix/internal/build"
	"git.home.luguber.info/inful/docmatrix/internal/logfields"
	"git.home.luguber.info/inful/docmatrix/internal/metrics"
	"git.home.luguber.info/inful/docmatrix/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Distro        string        `help:"Rebuild only this distro"`
	Quiet         time.Duration `help:"Quiet window before a rebuild" default:"300ms"`
	MetricsListen string        `name:"metrics-listen" help:"Serve Prometheus metrics on this address (e.g. :9090)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	e, err := newEngine(cfg, g.Logger)
	if err != nil {
		return err
	}
	if w.MetricsListen != "" {
		if e.recorder == nil {
			e.recorder = metrics.NewPrometheusRecorder(nil)
			e.WithRecorder(e.recorder)
		}
		srv := &http.Server{Addr: w.MetricsListen, Handler: e.recorder.HTTPHandler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				g.Logger.Warn("Metrics server stopped", logfields.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		g.Logger.Info("Serving metrics", "addr", w.MetricsListen)
	}

	watcher, err := watch.New(watch.Options{
		Root:        cfg.DocsRoot,
		SkipDirs:    []string{cfg.PreviewDir, cfg.PackageDir},
		QuietWindow: w.Quiet,
		Logger:      g.Logger,
	})
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	rebuild := func(ctx context.Context) error {
		_, err := e.run(ctx, build.Request{Distro: w.Distro})
		return err
	}
	if err := rebuild(g.Ctx); err != nil {
		g.Logger.Error("Initial build failed", logfields.Error(err))
	}
	g.Logger.Info("Watching for changes", logfields.Path(cfg.DocsRoot))
	return watcher.Run(g.Ctx, rebuild)
}
