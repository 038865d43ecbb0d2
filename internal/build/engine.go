package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docmatrix/internal/config"
	"git.home.luguber.info/inful/docmatrix/internal/distromap"
	"git.home.luguber.info/inful/docmatrix/internal/docs"
	ferrors "git.home.luguber.info/inful/docmatrix/internal/foundation/errors"
	"git.home.luguber.info/inful/docmatrix/internal/logfields"
	"git.home.luguber.info/inful/docmatrix/internal/matrix"
	"git.home.luguber.info/inful/docmatrix/internal/metrics"
	"git.home.luguber.info/inful/docmatrix/internal/output"
	"git.home.luguber.info/inful/docmatrix/internal/render"
	"git.home.luguber.info/inful/docmatrix/internal/topicmap"
)

// Engine is the standard Service implementation.
type Engine struct {
	cfg      *config.Config
	scm      SourceControl
	renderer render.Renderer
	layout   render.Layout
	sink     output.Sink
	assets   *output.FSSink
	recorder metrics.Recorder
	logger   *slog.Logger
	newRunID func() string
}

var _ Service = (*Engine)(nil)

// NewEngine creates an engine for cfg driving scm. Output goes to the
// preview directory on disk unless WithSink replaces it.
func NewEngine(cfg *config.Config, scm SourceControl) *Engine {
	sink := output.NewDirSink(cfg.PreviewRoot())
	return &Engine{
		cfg:      cfg,
		scm:      scm,
		renderer: render.NewMarkdownRenderer(),
		sink:     sink,
		assets:   sink,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		newRunID: uuid.NewString,
	}
}

// WithRenderer replaces the markdown renderer.
func (e *Engine) WithRenderer(r render.Renderer) *Engine {
	e.renderer = r
	return e
}

// WithLayout replaces the page layout. Without one the layout is loaded from
// the docs root on every branch, falling back to the built-in layout.
func (e *Engine) WithLayout(l render.Layout) *Engine {
	e.layout = l
	return e
}

// WithSink replaces the output sink. Branch asset directories are only
// copied when the sink is an *output.FSSink.
func (e *Engine) WithSink(s output.Sink) *Engine {
	e.sink = s
	e.assets, _ = s.(*output.FSSink)
	return e
}

func (e *Engine) WithRecorder(r metrics.Recorder) *Engine {
	e.recorder = r
	return e
}

func (e *Engine) WithLogger(l *slog.Logger) *Engine {
	e.logger = l
	return e
}

// run holds the state of one Run call.
type run struct {
	*Engine
	ctx    context.Context
	req    Request
	logger *slog.Logger
	report *Report
	dm     *distromap.DistroMap
	single *matrix.SinglePage
}

// Run executes one generate call.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	runID := e.newRunID()
	r := &run{
		Engine: e,
		ctx:    ctx,
		req:    req,
		logger: e.logger.With(logfields.RunID(runID)),
		report: newReport(runID, req),
	}
	result := &Result{StartTime: start, Report: r.report}

	err := r.execute()

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(start)
	e.recorder.ObserveRunDuration(result.Duration)
	switch {
	case err != nil:
		result.Status = StatusFailed
		e.recorder.IncRunOutcome(metrics.OutcomeFailed)
		r.logger.Error("Run failed", logfields.Error(err), logfields.DurationMS(msSince(start)))
	case len(r.report.Warnings) > 0:
		result.Status = StatusWarning
		e.recorder.IncRunOutcome(metrics.OutcomeWarning)
	default:
		result.Status = StatusSuccess
		e.recorder.IncRunOutcome(metrics.OutcomeSuccess)
	}
	if err == nil {
		r.logger.Info("Run complete",
			slog.String("status", string(result.Status)),
			slog.Int("pages", r.report.Pages()),
			slog.Int("aliases", r.report.Aliases()),
			slog.Int("warnings", len(r.report.Warnings)),
			logfields.DurationMS(msSince(start)))
	}
	return result, err
}

func (r *run) execute() (err error) {
	dm, err := distromap.Load(r.cfg.DistroMapPath())
	if err != nil {
		return err
	}
	for _, w := range dm.Warnings() {
		r.logger.Warn(w, logfields.File(dm.Source()))
		r.report.warn(Warning{Kind: WarnDistroMap, Message: w})
	}
	r.recorder.IncWarnings(string(WarnDistroMap), len(dm.Warnings()))
	if err := dm.Check(); err != nil {
		return err
	}
	r.dm = dm

	if r.req.SinglePage != "" {
		r.single, err = matrix.ParseSinglePage(r.req.SinglePage, r.cfg.SourceExtension)
		if err != nil {
			return err
		}
	}

	branches, err := r.scm.LocalBranches()
	if err != nil {
		return err
	}
	selector := matrix.NewSelector(dm, r.cfg.DevBranch)
	group, err := matrix.ParseBranchGroup(string(r.req.Group), selector.Sites())
	if err != nil {
		return err
	}
	plan, err := selector.Plan(matrix.Request{
		Group:         group,
		Distro:        r.req.Distro,
		SinglePage:    r.single,
		LocalBranches: branches,
	})
	if err != nil {
		return err
	}
	r.report.Group = plan.Group.String()
	r.report.WorkingBranch = plan.WorkingBranch
	r.report.Missing = plan.Missing
	r.logger.Info("Starting run",
		logfields.BranchGroup(plan.Group.String()),
		logfields.Branch(plan.WorkingBranch),
		logfields.Count(len(plan.Passes)))

	if len(plan.Missing) > 0 && r.single == nil {
		msg := fmt.Sprintf("The distro map references %d branch(es) that do not exist locally and will be skipped", len(plan.Missing))
		r.warnList(WarnMissingBranch, "", msg, plan.Missing)
	}

	guard := newBranchGuard(r.scm, plan.WorkingBranch, r.logger, r.report)
	if plan.LeavesWorkingBranch() {
		defer func() {
			if rerr := guard.restore(); rerr != nil && err == nil {
				err = rerr
			}
		}()
	}

	for _, pass := range plan.Passes {
		if cerr := r.ctx.Err(); cerr != nil {
			return cerr
		}
		if err := r.buildPass(guard, pass); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) buildPass(guard *branchGuard, pass matrix.BranchPass) error {
	start := time.Now()
	logger := r.logger.With(logfields.Branch(pass.Branch))
	r.report.Branches = append(r.report.Branches, pass.Branch)

	if err := guard.checkout(pass.Branch); err != nil {
		return err
	}

	tree, err := topicmap.Load(r.cfg.DocsRoot, topicmap.Files{
		Primary: r.cfg.TopicMapFile,
		Legacy:  r.cfg.LegacyTopicMapFile,
	}, topicmap.Options{
		DistroKeys:      r.dm.IDs(),
		SourceExtension: r.cfg.SourceExtension,
		MaxDepth:        r.cfg.MaxDepth,
	})
	if err != nil {
		return err
	}
	if tree.Legacy() {
		msg := fmt.Sprintf("The '%s' file is deprecated. Rename it to '%s'.", r.cfg.LegacyTopicMapFile, r.cfg.TopicMapFile)
		logger.Warn(msg, logfields.File(tree.Source()))
		r.report.warn(Warning{Kind: WarnLegacyTopicMap, Branch: pass.Branch, Message: msg})
		r.recorder.IncWarnings(string(WarnLegacyTopicMap), 1)
	}
	if err := tree.Check(); err != nil {
		return err
	}
	if r.single == nil {
		r.reconcile(logger, pass.Branch, tree)
	}

	layout := r.layout
	if layout == nil && !r.req.DryRun {
		if layout, err = render.LoadLayout(r.cfg.DocsRoot); err != nil {
			return err
		}
	}

	generated := 0
	for _, b := range pass.Builds {
		n, err := r.buildDistro(logger, tree, layout, b)
		if err != nil {
			return err
		}
		generated += n
	}
	if r.single != nil && generated == 0 {
		return ferrors.WrapError(ErrTopicNotFound, ferrors.CategoryNotFound,
			fmt.Sprintf("Could not find topic '%s' in the topic map for branch '%s'", r.single.Raw, pass.Branch)).
			WithContext("topic", r.single.RepoPath()).
			UserAction().
			Build()
	}
	r.recorder.ObserveBranchDuration(pass.Branch, time.Since(start))
	logger.Info("Branch complete", logfields.Count(len(pass.Builds)), logfields.DurationMS(msSince(start)))
	return nil
}

// buildDistro handles every target of one distro configuration and returns
// how many were selected.
func (r *run) buildDistro(logger *slog.Logger, tree *topicmap.Tree, layout render.Layout, b *distromap.DistroBranch) (int, error) {
	distro := b.Distro()
	logger = logger.With(logfields.Distro(distro.ID))
	if b.Dev {
		logger.Debug("Building unlisted branch with development settings", slog.String("dir", b.Dir))
	}

	targets := matrix.Targets(tree, b, r.single)
	if !r.req.DryRun && r.single == nil {
		if err := r.copyAssets(b); err != nil {
			return 0, err
		}
	}

	for _, t := range targets {
		if err := r.ctx.Err(); err != nil {
			return 0, err
		}
		rec := TargetRecord{
			Distro:      distro.ID,
			Branch:      b.ID,
			Kind:        t.Kind.String(),
			RepoPath:    t.RepoPath(),
			OutputPath:  t.OutputPath,
			RedirectURL: t.RedirectURL,
		}
		if t.Kind == matrix.TargetPage {
			if _, err := os.Stat(filepath.Join(r.cfg.DocsRoot, filepath.FromSlash(t.SourcePath))); errors.Is(err, fs.ErrNotExist) {
				logger.Warn("Topic source does not exist; skipping", logfields.Path(t.SourcePath))
				r.report.Skipped = append(r.report.Skipped, rec)
				r.report.warn(Warning{Kind: WarnMissingSource, Branch: b.ID, Message: "missing topic source", Items: []string{t.SourcePath}})
				r.recorder.IncWarnings(string(WarnMissingSource), 1)
				continue
			}
		}
		if !r.req.DryRun {
			title, err := r.generate(tree, layout, t)
			if err != nil {
				return 0, err
			}
			rec.Title = title
		}
		r.report.Targets = append(r.report.Targets, rec)
		r.recorder.IncTargets(distro.ID, rec.Kind)
		logger.Debug("Generated target", logfields.Topic(t.Entity.ID()), logfields.Path(t.OutputPath))
	}
	return len(targets), nil
}

// generate writes one target and returns the page title.
func (r *run) generate(tree *topicmap.Tree, layout render.Layout, t matrix.Target) (string, error) {
	if t.Kind == matrix.TargetAlias {
		var buf bytes.Buffer
		if err := render.WriteRedirect(&buf, t.RedirectURL); err != nil {
			return "", ferrors.WrapError(err, ferrors.CategoryRender, "failed to write alias page").
				WithContext("path", t.OutputPath).
				Build()
		}
		return "", r.sink.Write(t.OutputPath, buf.Bytes())
	}

	b := t.Branch
	distro := b.Distro()
	attrs := render.NewAttributes(t.Entity.Breadcrumb())
	attrs.DistroID = distro.ID
	attrs.ProductTitle = b.DistroName
	attrs.ProductVersion = b.Name
	attrs.ProductAuthor = b.DistroAuthor
	attrs.ImagesDir = path.Join(b.URLBase(), distromap.ImageDirName)
	attrs.RepoPath = t.SourcePath

	res, err := r.renderer.Render(filepath.Join(r.cfg.DocsRoot, filepath.FromSlash(t.SourcePath)), attrs)
	if err != nil {
		return "", err
	}
	title := res.Title
	if title == "" {
		title = t.Entity.Name
	}

	page := render.Page{
		Attributes:     attrs,
		Title:          title,
		Content:        template.HTML(res.HTML), //nolint:gosec // renderer output is trusted page content
		SiteName:       distro.Site.Name,
		SiteURL:        distro.Site.URL,
		DistroKey:      distro.ID,
		URLBase:        b.URLBase(),
		Nav:            tree.NavTree(distro.ID),
		CSSPath:        path.Join(b.URLBase(), distromap.StylesheetDirName),
		JavascriptPath: path.Join(b.URLBase(), distromap.JavascriptDirName),
		ImagesPath:     attrs.ImagesDir,
	}
	out, err := layout.Apply(page)
	if err != nil {
		return "", err
	}
	return title, r.sink.Write(t.OutputPath, out)
}

// copyAssets mirrors the docs root asset directories into the branch output.
func (r *run) copyAssets(b *distromap.DistroBranch) error {
	if r.assets == nil {
		return nil
	}
	for _, dir := range []string{distromap.ImageDirName, distromap.StylesheetDirName, distromap.JavascriptDirName} {
		n, err := r.assets.CopyDir(filepath.Join(r.cfg.DocsRoot, dir), path.Join(b.Distro().ID, b.Dir, dir))
		if err != nil {
			return err
		}
		r.report.AssetsCopied += n
	}
	return nil
}

// reconcile warns about topic map entries with no source and source files
// with no topic map entry.
func (r *run) reconcile(logger *slog.Logger, branch string, tree *topicmap.Tree) {
	found, err := docs.NewDiscovery(r.cfg).FindTopicFiles()
	if err != nil {
		logger.Warn("Could not scan docs root for topic files", logfields.Error(err))
		return
	}
	rec := docs.Reconcile(tree.FilePaths(), found)
	if len(rec.Nonexistent) > 0 {
		r.warnList(WarnNonexistent, branch,
			fmt.Sprintf("The topic map references %d topic(s) with no source file", len(rec.Nonexistent)), rec.Nonexistent)
	}
	if len(rec.Orphans) > 0 {
		r.warnList(WarnOrphan, branch,
			fmt.Sprintf("Found %d topic file(s) not referenced by the topic map", len(rec.Orphans)), rec.Orphans)
	}
}

// warnList logs a warning with its item count, listing every item only at
// debug level.
func (r *run) warnList(kind WarningKind, branch, msg string, items []string) {
	attrs := []any{logfields.Count(len(items))}
	if branch != "" {
		attrs = append(attrs, logfields.Branch(branch))
	}
	if r.logger.Enabled(r.ctx, slog.LevelDebug) {
		attrs = append(attrs, slog.Any("items", items))
	}
	r.logger.Warn(msg, attrs...)
	r.report.warn(Warning{Kind: kind, Branch: branch, Message: msg, Items: items})
	r.recorder.IncWarnings(string(kind), len(items))
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
