package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyState      = "state"
	KeyLabel      = "label"
	KeyTrigger    = "trigger"
	KeyGenerator  = "generator"
	KeyTarget     = "target"
	KeyPath       = "path"
	KeyArtifact   = "artifact"
	KeyCommit     = "commit"
	KeyTool       = "tool"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func State(s string) slog.Attr        { return slog.String(KeyState, s) }
func Label(l string) slog.Attr        { return slog.String(KeyLabel, l) }
func Trigger(t string) slog.Attr      { return slog.String(KeyTrigger, t) }
func Generator(g string) slog.Attr    { return slog.String(KeyGenerator, g) }
func Target(t string) slog.Attr       { return slog.String(KeyTarget, t) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Artifact(a string) slog.Attr     { return slog.String(KeyArtifact, a) }
func Commit(c string) slog.Attr       { return slog.String(KeyCommit, c) }
func Tool(t string) slog.Attr         { return slog.String(KeyTool, t) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
