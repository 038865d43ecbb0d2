// Package errors provides sentinel errors for topic file discovery.
package errors

import "errors"

var (
	// ErrDocsRootNotFound indicates the configured docs root does not exist.
	ErrDocsRootNotFound = errors.New("docs root not found")

	// ErrDocsDirWalkFailed indicates filesystem traversal of the docs root failed.
	ErrDocsDirWalkFailed = errors.New("documentation directory walk failed")

	// ErrInvalidRelativePath indicates calculating a path relative to the docs root failed.
	ErrInvalidRelativePath = errors.New("invalid relative path calculation")
)
