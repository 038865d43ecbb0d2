// Package docs inspects the checked out docs tree: which topic source files
// exist on disk, and how they line up with the topic map.
package docs

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/docmatrix/internal/config"
	derrors "git.home.luguber.info/inful/docmatrix/internal/docs/errors"
	"git.home.luguber.info/inful/docmatrix/internal/logfields"
)

// Discovery finds topic source files under the docs root.
type Discovery struct {
	root           string
	ext            string
	ignoreDirs     []string
	ignorePrefixes []string
	ignoreNames    []string
}

// NewDiscovery creates a discovery for the configured docs root.
func NewDiscovery(cfg *config.Config) *Discovery {
	return &Discovery{
		root:           cfg.DocsRoot,
		ext:            cfg.SourceExtension,
		ignoreDirs:     cfg.Discovery.IgnoreDirs,
		ignorePrefixes: cfg.Discovery.IgnorePrefixes,
		ignoreNames:    cfg.Discovery.IgnoreNames,
	}
}

// FindTopicFiles returns the repo path (slash separated, no extension) of
// every source file that could be a topic. Files directly in the docs root
// are never topics since every topic lives in a group directory.
func (d *Discovery) FindTopicFiles() ([]string, error) {
	if _, err := os.Stat(d.root); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", derrors.ErrDocsRootNotFound, d.root, err)
	}

	var out []string
	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == d.root {
			return nil
		}
		name := entry.Name()
		if entry.IsDir() {
			if d.ignoredDir(name) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, d.ext) || d.ignoredName(name) {
			return nil
		}

		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return fmt.Errorf("%w: %w", derrors.ErrInvalidRelativePath, err)
		}
		rel = filepath.ToSlash(rel)
		if !strings.Contains(rel, "/") {
			return nil
		}
		repoPath := strings.TrimSuffix(rel, d.ext)
		out = append(out, repoPath)
		slog.Debug("Discovered topic file", logfields.File(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", derrors.ErrDocsDirWalkFailed, d.root, err)
	}
	slices.Sort(out)
	return out, nil
}

func (d *Discovery) ignoredDir(name string) bool {
	if slices.Contains(d.ignoreDirs, name) {
		return true
	}
	for _, p := range d.ignorePrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func (d *Discovery) ignoredName(name string) bool {
	for _, n := range d.ignoreNames {
		if strings.Contains(name, n) {
			return true
		}
	}
	return strings.HasPrefix(name, ".")
}
