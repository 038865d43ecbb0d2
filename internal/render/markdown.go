package render

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	ferrors "git.home.luguber.info/inful/docmatrix/internal/foundation/errors"
)

var attributeRef = regexp.MustCompile(`\{([a-z][a-z0-9_-]*)\}`)

// MarkdownRenderer renders Markdown sources with goldmark (GitHub flavored).
type MarkdownRenderer struct {
	md goldmark.Markdown
}

func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render reads sourcePath, substitutes {attribute} references and renders
// the result. The title is the first level-one heading, if any.
func (r *MarkdownRenderer) Render(sourcePath string, attrs Attributes) (Result, error) {
	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return Result{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read topic source").
			WithContext("file", sourcePath).
			Build()
	}
	return r.RenderBytes(src, attrs)
}

// RenderBytes renders an in-memory source.
func (r *MarkdownRenderer) RenderBytes(src []byte, attrs Attributes) (Result, error) {
	values := attrs.Values()
	src = attributeRef.ReplaceAllFunc(src, func(m []byte) []byte {
		name := string(m[1 : len(m)-1])
		if v, ok := values[name]; ok {
			return []byte(v)
		}
		return m
	})

	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return Result{}, ferrors.RenderError(fmt.Sprintf("markdown conversion failed: %v", err)).
			WithCause(err).
			WithContext("repo_path", attrs.RepoPath).
			Build()
	}
	out := buf.String()
	title, _ := ExtractTitle(out)
	return Result{Title: title, HTML: out}, nil
}
