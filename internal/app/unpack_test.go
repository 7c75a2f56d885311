package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nonstop-pack/internal/shared"
)

const testArtifact = "proj1~owner1~main~abcdef12~0.1.0~3~linux~any~any~x64.tar.gz"

func TestUnpackWritesInfo(t *testing.T) {
	source := t.TempDir()
	writeFile(t, source, "bin/app", "binary")
	archive := filepath.Join(t.TempDir(), testArtifact)

	svc := newTestService(newStubVCS(), stubStrategy{})
	_, err := svc.CreatePackage(t.Context(), CreatePackageRequest{Pattern: "**", Source: source, Target: archive})
	require.NoError(t, err)

	target := filepath.Join(t.TempDir(), "install", "0.1.0-3")
	result, err := svc.Unpack(t.Context(), UnpackRequest{Archive: archive, Target: target})
	require.NoError(t, err)
	assert.Equal(t, "0.1.0-3", result.Version)

	content, err := os.ReadFile(filepath.Join(target, "bin", "app"))
	require.NoError(t, err)
	assert.Equal(t, "binary", string(content))

	info, err := svc.InfoFile.ReadInfo(target)
	require.NoError(t, err)
	assert.Equal(t, "abcdef12", info.Slug)
	assert.Equal(t, archive, info.FullPath)
}

func TestUnpackMissingArchive(t *testing.T) {
	svc := newTestService(newStubVCS(), stubStrategy{})
	_, err := svc.Unpack(t.Context(), UnpackRequest{
		Archive: filepath.Join(t.TempDir(), testArtifact),
		Target:  filepath.Join(t.TempDir(), "out"),
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
	assert.True(t, shared.HasMessagePrefix(err, shared.MsgArtifactNotFound))
}

func TestUnpackCorruptArchiveRemovesTarget(t *testing.T) {
	archive := writeFile(t, t.TempDir(), testArtifact, "not an archive")
	target := filepath.Join(t.TempDir(), "out")

	svc := newTestService(newStubVCS(), stubStrategy{})
	_, err := svc.Unpack(t.Context(), UnpackRequest{Archive: archive, Target: target})
	require.Error(t, err)
	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr))
}

func TestUnpackMalformedName(t *testing.T) {
	archive := writeFile(t, t.TempDir(), "backup.tar.gz", "x")

	svc := newTestService(newStubVCS(), stubStrategy{})
	_, err := svc.Unpack(t.Context(), UnpackRequest{Archive: archive, Target: filepath.Join(t.TempDir(), "out")})
	require.Error(t, err)
	assert.True(t, shared.HasMessagePrefix(err, shared.MsgMalformedArtifact))
}
