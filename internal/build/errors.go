package build

import "errors"

// Sentinel errors for failures callers branch on. They are wrapped with
// context at the call site.
var (
	ErrTopicNotFound = errors.New("single page topic not found")
	ErrRestore       = errors.New("failed to restore working branch")
)
