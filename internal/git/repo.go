package git

import (
	"bytes"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/docmatrix/internal/logfields"
)

// DetachedName is how a detached HEAD appears in branch listings.
const DetachedName = "detached"

// Repo is a local docs repository.
type Repo struct {
	root   string
	repo   *gogit.Repository
	gitBin string
	// detachedAt is the commit HEAD pointed at when it was last seen
	// detached. Checking out DetachedName returns to it.
	detachedAt plumbing.Hash
}

// Open opens the repository containing root. Parent directories are searched
// so the docs root may be a subdirectory of the work tree.
func Open(root string) (*Repo, error) {
	repo, err := gogit.PlainOpenWithOptions(root, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, classifyGitError(err, "open", "")
	}
	return &Repo{root: root, repo: repo, gitBin: "git"}, nil
}

// Root returns the directory the repository was opened from.
func (r *Repo) Root() string { return r.root }

// CurrentBranch returns the checked out branch, or DetachedName.
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", classifyGitError(err, "head", "")
	}
	if !head.Name().IsBranch() {
		r.detachedAt = head.Hash()
		return DetachedName, nil
	}
	return head.Name().Short(), nil
}

// LocalBranches lists local branch names with the current branch first and
// the rest sorted. An empty repository has no branches.
func (r *Repo) LocalBranches() ([]string, error) {
	iter, err := r.repo.Branches()
	if err != nil {
		return nil, classifyGitError(err, "list-branches", "")
	}
	var names []string
	if err := iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	}); err != nil {
		return nil, classifyGitError(err, "list-branches", "")
	}
	if len(names) == 0 {
		return nil, nil
	}
	sort.Strings(names)

	current, err := r.CurrentBranch()
	if err != nil {
		return nil, err
	}
	out := []string{current}
	for _, n := range names {
		if n != current {
			out = append(out, n)
		}
	}
	return out, nil
}

// Checkout switches the work tree to branch. Checking out the current branch
// is a no-op. DetachedName checks out the commit of the detached HEAD seen by
// CurrentBranch or LocalBranches, and fails if HEAD was never seen detached.
func (r *Repo) Checkout(branch string) error {
	if branch == DetachedName {
		return r.checkoutDetached()
	}
	current, err := r.CurrentBranch()
	if err == nil && current == branch {
		return nil
	}
	wt, err := r.repo.Worktree()
	if err != nil {
		return classifyGitError(err, "checkout", branch)
	}
	slog.Debug("Checking out branch", logfields.Branch(branch))
	if err := wt.Checkout(&gogit.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(branch)}); err != nil {
		return classifyGitError(err, "checkout", branch)
	}
	return nil
}

func (r *Repo) checkoutDetached() error {
	if r.detachedAt.IsZero() {
		return classifyGitError(ErrDetachedCheckout, "checkout", DetachedName)
	}
	if head, err := r.repo.Head(); err == nil && !head.Name().IsBranch() && head.Hash() == r.detachedAt {
		return nil
	}
	wt, err := r.repo.Worktree()
	if err != nil {
		return classifyGitError(err, "checkout", DetachedName)
	}
	slog.Debug("Checking out detached HEAD", logfields.Branch(DetachedName), slog.String("commit", r.detachedAt.String()))
	if err := wt.Checkout(&gogit.CheckoutOptions{Hash: r.detachedAt}); err != nil {
		return classifyGitError(err, "checkout", DetachedName)
	}
	return nil
}

// HasUncommittedChanges reports whether tracked changes or untracked files exist.
func (r *Repo) HasUncommittedChanges() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, classifyGitError(err, "status", "")
	}
	status, err := wt.Status()
	if err != nil {
		return false, classifyGitError(err, "status", "")
	}
	return !status.IsClean(), nil
}

// Stash saves uncommitted changes, untracked files included.
func (r *Repo) Stash() error {
	if _, err := r.run("stash", "push", "--include-untracked", "-m", "docmatrix: stashed while building other branches"); err != nil {
		return classifyGitError(err, "stash", "")
	}
	return nil
}

// PopStash re-applies and drops the most recent stash. It reports false
// when the stash could not be applied cleanly.
func (r *Repo) PopStash() (bool, error) {
	if _, err := r.run("stash", "pop"); err != nil {
		return false, classifyGitError(err, "stash-pop", "")
	}
	return true, nil
}

func (r *Repo) run(args ...string) (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", err
	}
	cmd := exec.Command(r.gitBin, args...)
	cmd.Dir = wt.Filesystem.Root()
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return out.String(), fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(out.String()))
	}
	return out.String(), nil
}
