// Package git is the source-control collaborator for the build engine. It
// lists local branches, switches between them and keeps uncommitted work
// out of the way while other branches are checked out.
//
// Branch listing, checkout and worktree status use go-git. go-git has no
// stash support, so Stash and PopStash shell out to the git binary.
package git
