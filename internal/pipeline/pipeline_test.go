package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/toolbuilder/internal/cmake"
	"git.home.luguber.info/inful/toolbuilder/internal/config"
	"git.home.luguber.info/inful/toolbuilder/internal/plan"
	"git.home.luguber.info/inful/toolbuilder/internal/testreport"
)

// fakeTool records build-tool invocations and fails on demand.
type fakeTool struct {
	calls        []string
	configureErr error
	buildErrs    map[string]error
}

func (f *fakeTool) Configure(_ context.Context, _ cmake.ConfigureOptions) error {
	f.calls = append(f.calls, "configure")
	return f.configureErr
}

func (f *fakeTool) Build(_ context.Context, target string) error {
	f.calls = append(f.calls, "build:"+target)
	return f.buildErrs[target]
}

// fakeArchiver records archive requests and creates empty destination files.
type fakeArchiver struct {
	archived []string
}

func (f *fakeArchiver) Archive(_ context.Context, _ string, _ []string, dest string) error {
	f.archived = append(f.archived, filepath.Base(dest))
	return os.WriteFile(dest, nil, 0o644)
}

// fakePublisher records transfers.
type fakePublisher struct {
	published []string
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, localPath, remote string) error {
	f.published = append(f.published, localPath+" -> "+remote)
	return f.err
}

func testPlan(t *testing.T) plan.Plan {
	t.Helper()
	return plan.Plan{
		RunID:           "test-run",
		NodeLabel:       "slc6",
		Workspace:       t.TempDir(),
		Generator:       plan.GeneratorUnixMakefiles,
		CleanBuild:      true,
		InstallDirName:  "inst",
		BuildToolPath:   "/usr/bin/cmake",
		Today:           "2026-08-30",
		RunPrimaryTests: true,
	}
}

func newTestPipeline(t *testing.T, pl plan.Plan, tool *fakeTool) (*Pipeline, *fakeArchiver, *fakePublisher) {
	t.Helper()
	ar := &fakeArchiver{}
	pub := &fakePublisher{}
	p := New(Options{
		Plan:      pl,
		Profile:   config.DefaultProfile(),
		Tool:      tool,
		Publisher: pub,
		Archiver:  ar,
	})
	return p, ar, pub
}

func TestRunHappyPathStageOrder(t *testing.T) {
	pl := testPlan(t)
	pl.RunUpstreamTests = true
	tool := &fakeTool{}
	p, _, _ := newTestPipeline(t, pl, tool)

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateDone, p.State())
	assert.Equal(t, StateDone, report.FinalState)

	assert.Equal(t, []string{
		"configure",
		"build:",
		"build:install",
		"build:cling-test",
		"build:check-llvm",
		"build:clang-test",
	}, tool.calls)

	// every stage ran and succeeded
	for _, name := range []StageName{
		StageClean, StageConfigure, StageBuild, StageTest,
		StagePublishDocs, StagePackaging, StageHousekeeping,
	} {
		assert.Equal(t, "success", report.StageResults[name], string(name))
		assert.Contains(t, report.StageDurations, name)
	}
}

func TestScenarioDConfigureFailureAborts(t *testing.T) {
	tool := &fakeTool{configureErr: errors.New("generator broken")}
	p, ar, pub := newTestPipeline(t, testPlan(t), tool)

	report, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateAborted, p.State())
	assert.Equal(t, StateAborted, report.FinalState)
	assert.True(t, errors.Is(err, ErrConfigure))

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageErrorFatal, se.Kind)
	assert.Equal(t, StageConfigure, se.Stage)

	// no build, test, packaging or publishing happened
	assert.Equal(t, []string{"configure"}, tool.calls)
	assert.Empty(t, ar.archived)
	assert.Empty(t, pub.published)
	assert.NotContains(t, report.StageResults, StageBuild)
	assert.NotContains(t, report.StageResults, StageHousekeeping)
}

func TestAbortSkipsHousekeeping(t *testing.T) {
	pl := testPlan(t)
	pl.CleanBuild = false // keep clean from wiping the seeded install tree
	tool := &fakeTool{buildErrs: map[string]error{"install": errors.New("disk full")}}
	p, _, _ := newTestPipeline(t, pl, tool)

	// simulate the install tree the failing install left half-populated
	inst := filepath.Join(pl.Workspace, pl.InstallDirName)
	require.NoError(t, os.MkdirAll(inst, 0o750))

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateAborted, p.State())

	// housekeeping never ran: the install directory is left behind
	assert.DirExists(t, inst)
}

func TestPrimaryTestFailureIsFatal(t *testing.T) {
	tool := &fakeTool{buildErrs: map[string]error{"cling-test": errors.New("2 failures")}}
	p, _, _ := newTestPipeline(t, testPlan(t), tool)

	report, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateAborted, report.FinalState)
	assert.True(t, errors.Is(err, ErrTest))
}

func TestUpstreamFailureIsFatal(t *testing.T) {
	pl := testPlan(t)
	pl.RunUpstreamTests = true
	tool := &fakeTool{buildErrs: map[string]error{"check-llvm": errors.New("regression")}}
	p, _, _ := newTestPipeline(t, pl, tool)

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTest))
}

func TestSecondarySuiteFailureIsTolerated(t *testing.T) {
	pl := testPlan(t)
	pl.RunUpstreamTests = true
	tool := &fakeTool{buildErrs: map[string]error{"clang-test": errors.New("known flaky")}}
	p, _, _ := newTestPipeline(t, pl, tool)

	report, err := p.Run(context.Background())
	require.NoError(t, err, "secondary suite failure must not abort the run")
	assert.Equal(t, StateDone, report.FinalState)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "warning", report.StageResults[StageTest])

	// packaging and housekeeping still ran
	assert.Equal(t, "success", report.StageResults[StagePackaging])
	assert.Equal(t, "success", report.StageResults[StageHousekeeping])
}

func TestSkippedPrimaryTestsWriteSyntheticReport(t *testing.T) {
	pl := testPlan(t)
	pl.RunPrimaryTests = false
	tool := &fakeTool{}
	p, _, _ := newTestPipeline(t, pl, tool)

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	reportPath := filepath.Join(pl.Workspace, "obj", filepath.FromSlash(testreport.RelativePath))
	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `skipped="1"`)
	assert.NotContains(t, tool.calls, "build:cling-test")
}

func TestIncrementalBuildSkipsCleanAndConfigure(t *testing.T) {
	pl := testPlan(t)
	pl.CleanBuild = false
	tool := &fakeTool{}

	// pre-existing build cache that must survive
	objMarker := filepath.Join(pl.Workspace, "obj", "CMakeCache.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(objMarker), 0o750))
	require.NoError(t, os.WriteFile(objMarker, []byte("cache"), 0o644))

	p, _, _ := newTestPipeline(t, pl, tool)
	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateDone, report.FinalState)

	assert.NotContains(t, tool.calls, "configure")
	assert.FileExists(t, objMarker)
}

func TestCleanRemovesPriorDirectories(t *testing.T) {
	pl := testPlan(t)
	tool := &fakeTool{}

	obj := filepath.Join(pl.Workspace, "obj")
	inst := filepath.Join(pl.Workspace, "inst")
	require.NoError(t, os.MkdirAll(filepath.Join(obj, "stale"), 0o750))
	require.NoError(t, os.MkdirAll(inst, 0o750))

	p, _, _ := newTestPipeline(t, pl, tool)
	_, err := p.Run(context.Background())
	require.NoError(t, err)

	// obj was recreated fresh by configure; the stale content is gone
	assert.NoDirExists(t, filepath.Join(obj, "stale"))
	// install dir removed by housekeeping at the end
	assert.NoDirExists(t, inst)
}

func TestPackagingWithoutPublishLeavesEmptyArtifactsDir(t *testing.T) {
	// Scenario B tail: non-publishing run produces only the empty dir.
	pl := testPlan(t)
	tool := &fakeTool{}
	p, ar, _ := newTestPipeline(t, pl, tool)

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ar.archived)
	assert.Empty(t, report.Artifacts)

	entries, err := os.ReadDir(filepath.Join(pl.Workspace, "artifacts"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPackagingStaleArtifactsAreReplaced(t *testing.T) {
	pl := testPlan(t)
	tool := &fakeTool{}
	stale := filepath.Join(pl.Workspace, "artifacts", "old.tar.gz")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o750))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	p, _, _ := newTestPipeline(t, pl, tool)
	_, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.NoFileExists(t, stale)
}

func publishingPlan(t *testing.T) plan.Plan {
	pl := testPlan(t)
	pl.NodeLabel = "ubuntu2204"
	pl.PublishBinaries = true
	pl.DocsEnabled = true
	pl.SourcePublisher = true
	pl.InstallDirName = "cling_2026-08-30_ubuntu2204"
	return pl
}

// seedPublishingTrees creates the directories a real build would have left
// behind: generated docs in the install tree and a source checkout.
func seedPublishingTrees(t *testing.T, pl plan.Plan) {
	t.Helper()
	ws := pl.Workspace
	require.NoError(t, os.MkdirAll(filepath.Join(ws, pl.InstallDirName, "docs", "html", "html"), 0o750))
	require.NoError(t, os.WriteFile(
		filepath.Join(ws, pl.InstallDirName, "docs", "html", "html", "index.html"), []byte("<html/>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(ws, "src", ".git"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(ws, "src", "main.cpp"), []byte("int main(){}"), 0o644))
}

func TestPublishingRunProducesAllBundles(t *testing.T) {
	pl := publishingPlan(t)
	// the fake tool builds nothing, so seed what the stages consume;
	// clean must not run or it would wipe the seeded install tree
	pl.CleanBuild = false
	tool := &fakeTool{}
	p, ar, pub := newTestPipeline(t, pl, tool)
	require.NoError(t, os.MkdirAll(filepath.Join(pl.Workspace, "obj"), 0o750))
	seedPublishingTrees(t, pl)

	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"cling_2026-08-30_docs.tar.gz",
		"cling_2026-08-30_ubuntu2204.tar.gz",
		"cling_2026-08-30_sources.tar.gz",
	}, ar.archived)
	assert.Len(t, report.Artifacts, 3)

	// docs were stripped from the install tree before the binary bundle
	assert.NoDirExists(t, filepath.Join(pl.Workspace, pl.InstallDirName, "docs"))
	// VCS metadata was stripped from the source tree
	assert.NoDirExists(t, filepath.Join(pl.Workspace, "src", ".git"))

	// doc tree staged and transferred
	require.Len(t, pub.published, 1)
	assert.Contains(t, pub.published[0], "doxygen")
	assert.FileExists(t, filepath.Join(pl.Workspace, "doxygen", "index.html"))

	// housekeeping removed the stamped install dir
	assert.NoDirExists(t, filepath.Join(pl.Workspace, pl.InstallDirName))
}

func TestDocStagingPreservesSymlinks(t *testing.T) {
	pl := publishingPlan(t)
	pl.CleanBuild = false
	tool := &fakeTool{}
	require.NoError(t, os.MkdirAll(filepath.Join(pl.Workspace, "obj"), 0o750))
	seedPublishingTrees(t, pl)
	htmlDir := filepath.Join(pl.Workspace, pl.InstallDirName, "docs", "html", "html")
	require.NoError(t, os.Symlink("index.html", filepath.Join(htmlDir, "main.html")))

	p, _, _ := newTestPipeline(t, pl, tool)
	_, err := p.Run(context.Background())
	require.NoError(t, err, "a symlink in the doc tree must not abort publishing")

	link, err := os.Readlink(filepath.Join(pl.Workspace, "doxygen", "main.html"))
	require.NoError(t, err)
	assert.Equal(t, "index.html", link)
}

func TestDocPublishFailureIsFatal(t *testing.T) {
	pl := publishingPlan(t)
	pl.CleanBuild = false
	tool := &fakeTool{}
	ar := &fakeArchiver{}
	pub := &fakePublisher{err: errors.New("remote unreachable")}
	require.NoError(t, os.MkdirAll(filepath.Join(pl.Workspace, "obj"), 0o750))
	seedPublishingTrees(t, pl)
	p := New(Options{Plan: pl, Profile: config.DefaultProfile(), Tool: tool, Publisher: pub, Archiver: ar})

	report, err := p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPublish))
	assert.Equal(t, StateAborted, report.FinalState)
	// packaging never ran
	assert.Empty(t, ar.archived)
}

func TestDocumentationRunsBetweenBuildAndInstall(t *testing.T) {
	pl := publishingPlan(t)
	pl.CleanBuild = false
	tool := &fakeTool{}
	require.NoError(t, os.MkdirAll(filepath.Join(pl.Workspace, "obj"), 0o750))
	seedPublishingTrees(t, pl)
	p, _, _ := newTestPipeline(t, pl, tool)

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	want := []string{"build:", "build:doxygen-cling", "build:install"}
	require.GreaterOrEqual(t, len(tool.calls), 3)
	assert.Equal(t, want, tool.calls[:3])

	// install-expected doc directories were created even though empty
	for _, rel := range docInstallDirs {
		assert.DirExists(t, filepath.Join(pl.Workspace, "obj", rel))
	}
}

func TestDocumentationFailureCarriesStageIdentity(t *testing.T) {
	pl := publishingPlan(t)
	pl.CleanBuild = false
	tool := &fakeTool{buildErrs: map[string]error{"doxygen-cling": errors.New("doxygen crashed")}}
	require.NoError(t, os.MkdirAll(filepath.Join(pl.Workspace, "obj"), 0o750))
	p, _, _ := newTestPipeline(t, pl, tool)

	report, err := p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDocumentation))

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageDocumentation, se.Stage)
	assert.Equal(t, "fatal", report.StageResults[StageDocumentation])
}

func TestCanceledContextAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tool := &fakeTool{}
	p, _, _ := newTestPipeline(t, testPlan(t), tool)

	report, err := p.Run(ctx)
	require.Error(t, err)
	assert.Equal(t, StateAborted, report.FinalState)
	assert.Empty(t, tool.calls)

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageErrorCanceled, se.Kind)
}

func TestStageErrorFormatting(t *testing.T) {
	se := newFatalStageError(StageConfigure, fmt.Errorf("%w: exit status 1", ErrConfigure))
	assert.Contains(t, se.Error(), "fatal stage configure")
	assert.True(t, errors.Is(se, ErrConfigure))
}
