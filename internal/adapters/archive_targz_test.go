package adapters

import (
	"archive/tar"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nonstop-pack/internal/ports"
)

func TestTarGzRoundTrip(t *testing.T) {
	src := t.TempDir()
	a := writeTestFile(t, src, "bin/app", "#!/bin/sh\necho hi\n")
	b := writeTestFile(t, src, "config/app.yaml", "port: 8080\n")
	require.NoError(t, os.Chmod(a, 0755))

	target := filepath.Join(t.TempDir(), "packages", "app.tar.gz")
	adapter := NewTarGzAdapter()
	digest, err := adapter.Write(t.Context(), []ports.ArchiveEntry{
		{Path: a, Name: "bin/app"},
		{Path: b, Name: "config/app.yaml"},
	}, target)
	require.NoError(t, err)
	assert.Len(t, digest, 64)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(target), ".*.partial"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)

	out := filepath.Join(t.TempDir(), "install")
	require.NoError(t, adapter.Extract(t.Context(), target, out))

	content, err := os.ReadFile(filepath.Join(out, "config", "app.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "port: 8080\n", string(content))

	info, err := os.Stat(filepath.Join(out, "bin", "app"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0100)
}

func TestTarGzWriteMissingSourceLeavesNothing(t *testing.T) {
	target := filepath.Join(t.TempDir(), "app.tar.gz")
	_, err := NewTarGzAdapter().Write(t.Context(), []ports.ArchiveEntry{
		{Path: filepath.Join(t.TempDir(), "missing"), Name: "missing"},
	}, target)
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTarGzExtractCorruptArchive(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "broken.tar.gz")
	require.NoError(t, os.WriteFile(archive, []byte("definitely not gzip"), 0644))

	err := NewTarGzAdapter().Extract(t.Context(), archive, filepath.Join(t.TempDir(), "out"))
	require.Error(t, err)
}

func TestTarGzExtractRejectsTraversal(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "evil.tar.gz")
	file, err := os.Create(archive)
	require.NoError(t, err)
	gz := gzip.NewWriter(file)
	tw := tar.NewWriter(gz)
	payload := []byte("owned")
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "../escape.txt", Mode: 0644, Size: int64(len(payload)), Typeflag: tar.TypeReg}))
	_, err = tw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, file.Close())

	parent := t.TempDir()
	err = NewTarGzAdapter().Extract(t.Context(), archive, filepath.Join(parent, "out"))
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(parent, "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}
