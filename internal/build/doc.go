// Package build is the docmatrix engine. A run loads the distro map once,
// asks the matrix selector for an ordered list of branch passes, and for
// every pass checks the branch out, parses its topic map, and writes one
// page per selected (distro, topic) through the output sink.
//
// Passes are strictly sequential. The working branch is built first, and
// any departure from it is guarded: uncommitted changes are stashed before
// the first checkout, and the working branch plus its stash are restored on
// every exit path.
package build
