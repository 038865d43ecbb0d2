// Package output writes generated pages through a go-billy filesystem.
package output

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	ferrors "git.home.luguber.info/inful/docmatrix/internal/foundation/errors"
)

const filePerm = 0o644

// Sink stores generated content by slash-separated relative path.
type Sink interface {
	Write(relPath string, content []byte) error
}

// FSSink is a Sink on a billy filesystem. Parent directories are created
// on demand.
type FSSink struct {
	fs billy.Filesystem
}

var _ Sink = (*FSSink)(nil)

// NewFSSink wraps an existing filesystem.
func NewFSSink(fsys billy.Filesystem) *FSSink {
	return &FSSink{fs: fsys}
}

// NewDirSink writes beneath root on the local disk.
func NewDirSink(root string) *FSSink {
	return NewFSSink(osfs.New(root, osfs.WithBoundOS()))
}

// NewMemorySink keeps everything in memory.
func NewMemorySink() *FSSink {
	return NewFSSink(memfs.New())
}

// Filesystem exposes the underlying filesystem.
func (s *FSSink) Filesystem() billy.Filesystem { return s.fs }

func (s *FSSink) Write(relPath string, content []byte) error {
	clean, err := cleanPath(relPath)
	if err != nil {
		return err
	}
	if dir := path.Dir(clean); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create output directory").
				WithContext("path", dir).
				Build()
		}
	}
	if err := util.WriteFile(s.fs, clean, content, filePerm); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write output file").
			WithContext("path", clean).
			Build()
	}
	return nil
}

// Read returns a previously written file.
func (s *FSSink) Read(relPath string) ([]byte, error) {
	clean, err := cleanPath(relPath)
	if err != nil {
		return nil, err
	}
	return util.ReadFile(s.fs, clean)
}

// Exists reports whether relPath exists.
func (s *FSSink) Exists(relPath string) bool {
	clean, err := cleanPath(relPath)
	if err != nil {
		return false
	}
	_, err = s.fs.Stat(clean)
	return err == nil
}

// RemoveAll deletes relPath and everything under it. Missing paths are not an error.
func (s *FSSink) RemoveAll(relPath string) error {
	clean, err := cleanPath(relPath)
	if err != nil {
		return err
	}
	if err := util.RemoveAll(s.fs, clean); err != nil && !os.IsNotExist(err) {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to remove output").
			WithContext("path", clean).
			Build()
	}
	return nil
}

// CopyDir copies every regular file under srcDir on the local disk to dst
// inside the sink. A missing srcDir copies nothing.
func (s *FSSink) CopyDir(srcDir, dst string) (int, error) {
	if _, err := os.Stat(srcDir); os.IsNotExist(err) {
		return 0, nil
	}
	copied := 0
	err := filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		if err := s.Write(path.Join(dst, filepath.ToSlash(rel)), data); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil {
		if ferrors.IsClassified(err) {
			return copied, err
		}
		return copied, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to copy assets").
			WithContext("path", srcDir).
			Build()
	}
	return copied, nil
}

// Files lists every file in the sink, sorted, as slash-separated paths.
func (s *FSSink) Files() ([]string, error) {
	if _, err := s.fs.Lstat("/"); os.IsNotExist(err) {
		return nil, nil
	}
	var files []string
	err := util.Walk(s.fs, "/", func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, strings.TrimPrefix(filepath.ToSlash(p), "/"))
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// cleanPath makes relPath relative to the sink root. Leading slashes are
// dropped; a path that climbs above the root is rejected.
func cleanPath(relPath string) (string, error) {
	clean := path.Clean(strings.TrimLeft(filepath.ToSlash(relPath), "/"))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ferrors.ValidationError("invalid output path").
			WithContext("path", relPath).
			Build()
	}
	return clean, nil
}
