package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadCommit(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.cpp"), []byte("int main(){}"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("main.cpp")
	require.NoError(t, err)
	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "ci", Email: "ci@example.org", When: time.Now()},
	})
	require.NoError(t, err)

	short, err := HeadCommit(dir)
	require.NoError(t, err)
	assert.Len(t, short, 12)
	assert.Equal(t, hash.String()[:12], short)
}

func TestHeadCommitNotARepository(t *testing.T) {
	_, err := HeadCommit(t.TempDir())
	assert.Error(t, err)
}
