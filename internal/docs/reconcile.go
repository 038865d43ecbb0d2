package docs

import "slices"

// Reconciliation compares topic map references with files on disk.
type Reconciliation struct {
	// Nonexistent lists topic map paths with no source file.
	Nonexistent []string
	// Orphans lists source files the topic map does not reference.
	Orphans []string
}

// Reconcile matches referenced repo paths against discovered ones. Both
// inputs are repo paths without extension.
func Reconcile(referenced, found []string) Reconciliation {
	onDisk := make(map[string]bool, len(found))
	for _, f := range found {
		onDisk[f] = true
	}
	var r Reconciliation
	used := map[string]bool{}
	for _, p := range referenced {
		if onDisk[p] {
			used[p] = true
			continue
		}
		r.Nonexistent = append(r.Nonexistent, p)
	}
	for _, f := range found {
		if !used[f] {
			r.Orphans = append(r.Orphans, f)
		}
	}
	slices.Sort(r.Orphans)
	return r
}

// Clean reports whether every reference exists and no orphans were found.
func (r Reconciliation) Clean() bool {
	return len(r.Nonexistent) == 0 && len(r.Orphans) == 0
}
