package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID       = "run_id"
	KeyStage       = "stage"
	KeyDurationMS  = "duration_ms"
	KeyDistro      = "distro"
	KeyBranch      = "branch"
	KeyBranchGroup = "branch_group"
	KeySite        = "site"
	KeyTopic       = "topic"
	KeyPath        = "path"
	KeyFile        = "file"
	KeyCount       = "count"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr         { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr       { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func Distro(id string) slog.Attr        { return slog.String(KeyDistro, id) }
func Branch(name string) slog.Attr      { return slog.String(KeyBranch, name) }
func BranchGroup(name string) slog.Attr { return slog.String(KeyBranchGroup, name) }
func Site(id string) slog.Attr          { return slog.String(KeySite, id) }
func Topic(id string) slog.Attr         { return slog.String(KeyTopic, id) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func File(f string) slog.Attr           { return slog.String(KeyFile, f) }
func Count(n int) slog.Attr             { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
