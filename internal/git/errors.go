package git

import (
	"errors"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	ferrors "git.home.luguber.info/inful/docmatrix/internal/foundation/errors"
)

// ErrDetachedCheckout is returned when asked to check out the detached HEAD
// placeholder before HEAD was ever seen detached.
var ErrDetachedCheckout = errors.New("cannot check out a detached HEAD by name")

// classifyGitError translates go-git or command-line git errors into ClassifiedErrors.
func classifyGitError(err error, op, branch string) error {
	if err == nil {
		return nil
	}
	if _, ok := ferrors.AsClassified(err); ok {
		return err
	}

	l := strings.ToLower(err.Error())
	builder := ferrors.GitError("git "+op+" failed").
		WithCause(err).
		WithContext("op", op)
	if branch != "" {
		builder.WithContext("branch", branch)
	}

	switch {
	case errors.Is(err, gogit.ErrRepositoryNotExists):
		builder.WithCategory(ferrors.CategoryNotFound).UserAction()
	case errors.Is(err, gogit.ErrUnstagedChanges) || strings.Contains(l, "would be overwritten"):
		builder.WithContext("dirty", true).UserAction()
	case strings.Contains(l, "reference not found") || strings.Contains(l, "did not match any"):
		builder.WithCategory(ferrors.CategoryNotFound)
	case strings.Contains(l, "conflict"):
		builder.WithContext("conflict", true).UserAction()
	}
	return builder.Build()
}
