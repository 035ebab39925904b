package cmake

import (
	"path/filepath"
	"strings"
)

// ConfigureOptions is the fixed option set for configuring the toolchain
// build: release mode, external plugin wiring, target list and lit test
// arguments, with documentation flags added only on doc-capable nodes.
type ConfigureOptions struct {
	InstallPrefix   string // absolute install tree path
	PluginName      string // external project name, e.g. "cling"
	PluginSourceDir string // absolute path of the plugin checkout
	SourceDir       string // configure entry point, relative to the obj dir
	Docs            bool
}

// LitArgs is passed to the lit test driver so test results land in a
// machine-readable report the CI publisher picks up.
const LitArgs = "-sv --no-progress-bar --xunit-xml-output=lit-xunit-output.xml"

// Args renders the configure command line.
func (o ConfigureOptions) Args() []string {
	args := []string{
		"-DCMAKE_BUILD_TYPE=Release",
		"-DLLVM_BUILD_TOOLS=Off",
		"-DCMAKE_INSTALL_PREFIX=" + o.InstallPrefix,
		"-DLLVM_EXTERNAL_PROJECTS=" + o.PluginName,
		"-DLLVM_EXTERNAL_" + strings.ToUpper(o.PluginName) + "_SOURCE_DIR=" + o.PluginSourceDir,
		"-DLLVM_ENABLE_PROJECTS=clang",
		"-DLLVM_TARGETS_TO_BUILD=host;NVPTX",
		"-DLLVM_LIT_ARGS=" + LitArgs,
	}
	if o.Docs {
		args = append(args, "-DLLVM_ENABLE_DOXYGEN=On", "-DLLVM_INCLUDE_DOCS=On")
	}
	return append(args, filepath.FromSlash(o.SourceDir))
}
