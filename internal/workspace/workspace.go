// Package workspace describes the on-disk layout a pipeline run operates in.
// All stage code derives paths from a Layout instead of changing the process
// working directory, so no stage depends on process-global state.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Well-known directory and file names inside the workspace.
const (
	ObjDirName       = "obj"
	ArtifactsDirName = "artifacts"
	DocStagingName   = "doxygen"
	SourceDirName    = "src"
	ControlFileName  = "controlfile"
)

// Layout resolves paths inside a single CI workspace. The workspace is owned
// exclusively by the in-flight run; the CI system guarantees one job per
// workspace, so no locking happens here.
type Layout struct {
	root string
}

// NewLayout creates a layout rooted at the CI workspace directory.
func NewLayout(root string) Layout { return Layout{root: root} }

// Root returns the workspace root.
func (l Layout) Root() string { return l.root }

// ObjDir is the build-object directory holding intermediates from a prior
// configure/build. Its presence is what makes an incremental build possible.
func (l Layout) ObjDir() string { return filepath.Join(l.root, ObjDirName) }

// InstallDir is the install tree for the given plan install-dir name.
func (l Layout) InstallDir(name string) string { return filepath.Join(l.root, name) }

// ArtifactsDir holds the final bundle outputs handed to the CI artifact step.
func (l Layout) ArtifactsDir() string { return filepath.Join(l.root, ArtifactsDirName) }

// DocStagingDir is the canonical local name the generated documentation tree
// is relocated to before transfer.
func (l Layout) DocStagingDir() string { return filepath.Join(l.root, DocStagingName) }

// SourceDir is the checked-out upstream source tree.
func (l Layout) SourceDir() string { return filepath.Join(l.root, SourceDirName) }

// UpstreamSourceDir is the configure entry point inside the source tree,
// relative to the build-object directory.
func (l Layout) UpstreamSourceDir() string {
	return filepath.Join("..", SourceDirName, "llvm")
}

// PluginSourceDir is the externally-wired plugin source checkout.
func (l Layout) PluginSourceDir(plugin string) string { return filepath.Join(l.root, plugin) }

// EnsureObjDir creates the build-object directory if absent.
func (l Layout) EnsureObjDir() error {
	if err := os.MkdirAll(l.ObjDir(), 0o750); err != nil {
		return fmt.Errorf("create build-object directory: %w", err)
	}
	return nil
}

// TouchControlFile creates the empty run marker the CI job expects.
func (l Layout) TouchControlFile() error {
	f, err := os.Create(filepath.Join(l.root, ControlFileName))
	if err != nil {
		return fmt.Errorf("create control file: %w", err)
	}
	return f.Close()
}
