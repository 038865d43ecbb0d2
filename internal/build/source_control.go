package build

// SourceControl is the repository collaborator the engine drives.
// git.Repo implements it.
type SourceControl interface {
	// LocalBranches lists local branches with the current one first.
	LocalBranches() ([]string, error)
	Checkout(branch string) error
	HasUncommittedChanges() (bool, error)
	Stash() error
	// PopStash restores the most recent stash; false means there was none.
	PopStash() (bool, error)
}
