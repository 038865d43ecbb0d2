// Package errors provides the classified error primitives used across docmatrix.
//
// Key features:
//   - ErrorCategory: broad classification (config, validation, git, build, render, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - ClassifiedError: structured error with category, severity, and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: exit codes and user-facing formatting
//
// Example usage:
//
//	err := errors.ValidationError("distro map is invalid").
//		WithContext("file", "_distro_map.yml").
//		WithIssues(messages).
//		Build()
package errors
