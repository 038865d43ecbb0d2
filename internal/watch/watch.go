// Package watch rebuilds the working branch when files under the docs root
// change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/docmatrix/internal/foundation/errors"
	"git.home.luguber.info/inful/docmatrix/internal/logfields"
)

// DefaultQuietWindow is how long changes must settle before a rebuild.
const DefaultQuietWindow = 300 * time.Millisecond

// Options configure a Watcher.
type Options struct {
	Root string
	// SkipDirs are directories (absolute, or relative to Root) never watched,
	// typically the preview and package output.
	SkipDirs    []string
	QuietWindow time.Duration
	Logger      *slog.Logger
}

// Watcher runs a rebuild function after debounced filesystem changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	skip     []string
	debounce *Debouncer
	logger   *slog.Logger
}

func New(opts Options) (*Watcher, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to resolve docs root").Build()
	}
	if st, statErr := os.Stat(root); statErr != nil || !st.IsDir() {
		return nil, ferrors.FileSystemError(fmt.Sprintf("docs root not found or not a directory: %s", root)).Build()
	}
	if opts.QuietWindow <= 0 {
		opts.QuietWindow = DefaultQuietWindow
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	skip := []string{filepath.Join(root, ".git")}
	for _, d := range opts.SkipDirs {
		if !filepath.IsAbs(d) {
			d = filepath.Join(root, d)
		}
		skip = append(skip, filepath.Clean(d))
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "fsnotify").Build()
	}
	w := &Watcher{
		fsw:      fsw,
		root:     root,
		skip:     skip,
		debounce: NewDebouncer(opts.QuietWindow),
		logger:   opts.Logger,
	}
	if err := w.addDirsRecursive(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	w.debounce.Stop()
	return w.fsw.Close()
}

// Run blocks until ctx is done, calling rebuild once per settled burst of
// changes. Rebuilds never overlap; changes during a rebuild queue exactly one
// follow-up. Rebuild errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, rebuild func(context.Context) error) error {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping watch")
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", logfields.Error(err))
		case <-w.debounce.C():
			w.logger.Info("Change detected; rebuilding")
			if err := rebuild(ctx); err != nil {
				w.logger.Warn("rebuild failed", logfields.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if w.skipped(ev.Name) || shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(ev.Name)
		}
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.debounce.Trigger()
}

func (w *Watcher) addDirsRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.skipped(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

func (w *Watcher) skipped(path string) bool {
	path = filepath.Clean(path)
	return slices.ContainsFunc(w.skip, func(dir string) bool {
		return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
	})
}

// shouldIgnoreEvent returns true for editor temp files and OS metadata.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
