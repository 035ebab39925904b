package publish

import (
	"archive/tar"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// readEntries returns archive entry name -> content for regular files.
func readEntries(t *testing.T, dest string) map[string]string {
	t.Helper()
	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	tr := tar.NewReader(gz)

	entries := map[string]string{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if hdr.Typeflag == tar.TypeReg {
			data, err := io.ReadAll(tr)
			require.NoError(t, err)
			entries[hdr.Name] = string(data)
		} else {
			entries[hdr.Name] = ""
		}
	}
	return entries
}

func TestArchiveStoresPathsRelativeToBase(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "inst", "bin", "cling"), "binary")
	writeFile(t, filepath.Join(base, "inst", "docs", "html", "index.html"), "<html/>")

	dest := filepath.Join(t.TempDir(), "inst.tar.gz")
	require.NoError(t, TarGzArchiver{}.Archive(context.Background(), base, []string{"inst"}, dest))

	entries := readEntries(t, dest)
	assert.Equal(t, "binary", entries["inst/bin/cling"])
	assert.Equal(t, "<html/>", entries["inst/docs/html/index.html"])
	assert.Contains(t, entries, "inst")
}

func TestArchiveMultipleSources(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "a", "one.txt"), "1")
	writeFile(t, filepath.Join(base, "b", "two.txt"), "2")

	dest := filepath.Join(t.TempDir(), "both.tar.gz")
	require.NoError(t, TarGzArchiver{}.Archive(context.Background(), base, []string{"a", "b"}, dest))

	entries := readEntries(t, dest)
	assert.Equal(t, "1", entries["a/one.txt"])
	assert.Equal(t, "2", entries["b/two.txt"])
}

func TestArchiveMissingSourceFails(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "missing.tar.gz")
	err := TarGzArchiver{}.Archive(context.Background(), t.TempDir(), []string{"nope"}, dest)
	assert.Error(t, err)
}
