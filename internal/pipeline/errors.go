package pipeline

import "errors"

// Sentinel errors per pipeline concern; stage errors wrap these so callers
// can classify failures with errors.Is without parsing tool output.
var (
	ErrClean         = errors.New("clean failed")
	ErrConfigure     = errors.New("configure failed")
	ErrBuild         = errors.New("build failed")
	ErrDocumentation = errors.New("documentation generation failed")
	ErrTest          = errors.New("test suite failed")
	ErrPublish       = errors.New("documentation publish failed")
	ErrPackage       = errors.New("packaging failed")
	ErrHousekeeping  = errors.New("housekeeping failed")
)
