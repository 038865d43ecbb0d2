package build

import (
	"fmt"
	"log/slog"

	ferrors "git.home.luguber.info/inful/docmatrix/internal/foundation/errors"
	"git.home.luguber.info/inful/docmatrix/internal/logfields"
)

// branchGuard tracks the checked-out branch for one run. Uncommitted work is
// stashed once, right before the first departure from the working branch, and
// restore puts both the branch and the stash back.
type branchGuard struct {
	scm     SourceControl
	working string
	current string
	stashed bool
	logger  *slog.Logger
	report  *Report
}

func newBranchGuard(scm SourceControl, working string, logger *slog.Logger, report *Report) *branchGuard {
	return &branchGuard{scm: scm, working: working, current: working, logger: logger, report: report}
}

func (g *branchGuard) checkout(branch string) error {
	if branch == g.current {
		return nil
	}
	if g.current == g.working && !g.stashed {
		dirty, err := g.scm.HasUncommittedChanges()
		if err != nil {
			return err
		}
		if dirty {
			g.logger.Info("Stashing uncommitted changes before switching branches", logfields.Branch(g.working))
			if err := g.scm.Stash(); err != nil {
				return err
			}
			g.stashed = true
			g.report.Stashed = true
		}
	}
	g.logger.Debug("Checking out branch", logfields.Branch(branch))
	if err := g.scm.Checkout(branch); err != nil {
		return err
	}
	g.current = branch
	return nil
}

// restore returns to the working branch and pops the stash taken by
// checkout. Failures are logged with the manual recovery step.
func (g *branchGuard) restore() error {
	if g.current != g.working {
		if err := g.scm.Checkout(g.working); err != nil {
			msg := fmt.Sprintf("Could not return to working branch '%s'. Run `git checkout %s` manually.", g.working, g.working)
			if g.stashed {
				msg += " Then run `git stash apply` to restore your uncommitted changes."
			}
			g.logger.Error(msg, logfields.Branch(g.working), logfields.Error(err))
			g.report.warn(Warning{Kind: WarnRestoreCheckout, Branch: g.working, Message: msg})
			return ferrors.WrapError(fmt.Errorf("%w: %w", ErrRestore, err), ferrors.CategoryGit, msg).
				WithContext("branch", g.working).
				UserAction().
				Build()
		}
		g.current = g.working
	}
	if !g.stashed {
		return nil
	}
	popped, err := g.scm.PopStash()
	if err != nil || !popped {
		msg := "Could not restore stashed changes. Run `git stash apply` manually."
		attrs := []any{logfields.Branch(g.working)}
		if err != nil {
			attrs = append(attrs, logfields.Error(err))
		}
		g.logger.Error(msg, attrs...)
		g.report.warn(Warning{Kind: WarnRestoreStash, Branch: g.working, Message: msg})
		return nil
	}
	g.stashed = false
	g.report.Restored = true
	return nil
}
