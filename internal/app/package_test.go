package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nonstop-pack/internal/shared"
	"nonstop-pack/internal/types"
)

func TestInfoAssemblesPackageIdentity(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, repo, "services/api/package.json", `{"name":"api","version":"0.1.0-beta.2"}`)
	output := t.TempDir()

	svc := newTestService(newStubVCS(), stubStrategy{since: 1})
	result, err := svc.Info(t.Context(), InfoRequest{
		Project:   "proj1",
		Config:    types.ProjectConfig{Path: "services/api", Pack: types.PackConfig{Pattern: "./dist/**"}},
		RepoPath:  repo,
		OutputDir: output,
	})
	require.NoError(t, err)

	name := "proj1~owner1~main~abcdef12~0.1.0~2~linux~any~any~x64"
	assert.Equal(t, name, result.Name)
	want := types.ArtifactRecord{
		Project:      "proj1",
		Owner:        "owner1",
		Branch:       "main",
		Slug:         "abcdef12",
		Version:      "0.1.0",
		Build:        "2",
		Platform:     "linux",
		OSName:       "any",
		OSVersion:    "any",
		Architecture: "x64",
		Directory:    output,
		Relative:     "proj1-owner1-main",
		FullPath:     filepath.Join(output, name+".tar.gz"),
		File:         name + ".tar.gz",
	}
	if diff := cmp.Diff(want, result.Package.Record); diff != "" {
		t.Fatalf("unexpected record (-want +got):\n%s", diff)
	}
	assert.Equal(t, filepath.Join(repo, "services", "api"), result.Package.Path)
	assert.Equal(t, want.FullPath, result.Package.Output)
	assert.Equal(t, "./dist/**", result.Package.Pattern)
	assert.Equal(t, testCommit, result.Package.Commit)
}

func TestInfoFallsBackToZeroVersion(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		strategy stubStrategy
	}{
		{
			name:     "no version file",
			files:    map[string]string{"README.md": "hello"},
			strategy: stubStrategy{since: 3},
		},
		{
			name:     "unparseable version file",
			files:    map[string]string{"package.json": `{"name":"api"}`},
			strategy: stubStrategy{since: 3},
		},
		{
			name:     "version never committed",
			files:    map[string]string{"package.json": `{"version":"1.0.0"}`},
			strategy: stubStrategy{err: shared.ProvenanceError("package.json", "1.0.0")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := t.TempDir()
			for rel, content := range tt.files {
				writeFile(t, repo, rel, content)
			}
			svc := newTestService(newStubVCS(), tt.strategy)
			result, err := svc.Info(t.Context(), InfoRequest{
				Project:   "proj1",
				Config:    types.ProjectConfig{Path: "."},
				RepoPath:  repo,
				OutputDir: t.TempDir(),
			})
			require.NoError(t, err)
			assert.Equal(t, "0.0.0", result.Package.Record.Version)
			assert.Equal(t, "0", result.Package.Record.Build)
			assert.Equal(t, "**", result.Package.Pattern)
		})
	}
}

func TestInfoWithoutGitFallsBackToDefaults(t *testing.T) {
	repo := filepath.Join(t.TempDir(), "service")
	writeFile(t, repo, "package.json", `{"version":"2.0.0"}`)

	svc := newTestService(&stubVCS{outputs: map[string]string{}}, stubStrategy{since: 0})
	result, err := svc.Info(t.Context(), InfoRequest{
		Project:   "proj1",
		Config:    types.ProjectConfig{Path: "."},
		RepoPath:  repo,
		OutputDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, "proj1~anonymous~master~2.0.0~1~linux~any~any~x64", result.Name)
}

func TestInfoRejectsInvalidRepository(t *testing.T) {
	svc := newTestService(newStubVCS(), stubStrategy{})
	_, err := svc.Info(t.Context(), InfoRequest{
		Project:  "proj1",
		RepoPath: filepath.Join(t.TempDir(), "missing"),
	})
	require.Error(t, err)
	assert.True(t, shared.HasMessagePrefix(err, shared.MsgInvalidPath))

	_, err = svc.Info(t.Context(), InfoRequest{RepoPath: t.TempDir()})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestInfoNestedBranchExplainsOverride(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, repo, "package.json", `{"version":"1.0.0"}`)

	svc := newTestService(newStubVCS(), stubStrategy{})
	svc.Provenance.BranchOverride = "feature/x"
	_, err := svc.Info(t.Context(), InfoRequest{Project: "proj1", RepoPath: repo, OutputDir: t.TempDir()})
	require.Error(t, err)
	assert.True(t, shared.HasMessagePrefix(err, shared.MsgMalformedArtifact))
	assert.Contains(t, shared.ErrorMessage(err), "--branch")
}

func TestCreatePackage(t *testing.T) {
	source := t.TempDir()
	writeFile(t, source, "dist/app.js", "console.log(1)")
	writeFile(t, source, "dist/lib/util.js", "module.exports = {}")
	writeFile(t, source, "package.json", `{"version":"0.1.0"}`)
	writeFile(t, source, "src/app.ts", "export {}")
	target := filepath.Join(t.TempDir(), "out.tar.gz")

	svc := newTestService(newStubVCS(), stubStrategy{})
	outcome, err := svc.CreatePackage(t.Context(), CreatePackageRequest{
		Pattern: "./dist/**, package.json",
		Source:  source,
		Target:  target,
	})
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"dist/app.js", "dist/lib/util.js", "package.json"}, outcome.Files); diff != "" {
		t.Fatalf("unexpected files (-want +got):\n%s", diff)
	}
	assert.Len(t, outcome.Digest, 64)
	_, err = os.Stat(target)
	require.NoError(t, err)
}

func TestCreatePackageNoFilesMatched(t *testing.T) {
	source := t.TempDir()
	writeFile(t, source, "src/app.ts", "export {}")
	target := filepath.Join(t.TempDir(), "out.tar.gz")

	svc := newTestService(newStubVCS(), stubStrategy{})
	for _, pattern := range []string{"./dist/**", " , "} {
		_, err := svc.CreatePackage(t.Context(), CreatePackageRequest{Pattern: pattern, Source: source, Target: target})
		require.Error(t, err)
		assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
		assert.True(t, shared.HasMessagePrefix(err, shared.MsgNoFilesMatched))
		_, statErr := os.Stat(target)
		assert.True(t, errors.Is(statErr, os.ErrNotExist))
	}
}

func TestCreatePackageSkipsOwnTarget(t *testing.T) {
	source := t.TempDir()
	target := writeFile(t, source, "previous.tar.gz", "stale")

	svc := newTestService(newStubVCS(), stubStrategy{})
	_, err := svc.CreatePackage(t.Context(), CreatePackageRequest{Pattern: "*.tar.gz", Source: source, Target: target})
	require.Error(t, err)
	assert.True(t, shared.HasMessagePrefix(err, shared.MsgNoFilesMatched))
}

func TestPackProjects(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, repo, "api/package.json", `{"version":"1.2.0"}`)
	writeFile(t, repo, "api/dist/index.js", "ok")
	writeFile(t, repo, "tools/run.sh", "#!/bin/sh")
	projectFile := writeFile(t, repo, "nonstop.yaml", `projects:
  api:
    path: ./api
    pack:
      pattern: ./dist/**
  tools:
    path: ./tools
    pack:
      pattern: "*.sh"
    os:
      name: ubuntu
      version: "22.04"
`)
	output := filepath.Join(t.TempDir(), "packages")

	svc := newTestService(newStubVCS(), stubStrategy{since: 4})
	result, err := svc.Pack(t.Context(), PackRequest{ProjectFile: projectFile, RepoPath: repo, OutputDir: output})
	require.NoError(t, err)
	require.Len(t, result.Artifacts, 2)

	api := result.Artifacts[0]
	assert.Equal(t, "api~owner1~main~abcdef12~1.2.0~5~linux~any~any~x64.tar.gz", api.Package.Record.File)
	assert.Equal(t, []string{"dist/index.js"}, api.Files)
	tools := result.Artifacts[1]
	assert.Equal(t, "tools~owner1~main~abcdef12~0.0.0~0~linux~ubuntu~22.04~x64.tar.gz", tools.Package.Record.File)

	found, err := svc.Find(t.Context(), FindRequest{Root: output, Filter: types.ArtifactFilter{Project: "api"}})
	require.NoError(t, err)
	require.Len(t, found.Records, 1)
	assert.Equal(t, api.Package.Output, found.Records[0].FullPath)
}

func TestPackUnknownProject(t *testing.T) {
	repo := t.TempDir()
	projectFile := writeFile(t, repo, "nonstop.yaml", "projects:\n  api:\n    path: .\n")

	svc := newTestService(newStubVCS(), stubStrategy{})
	_, err := svc.Pack(t.Context(), PackRequest{ProjectFile: projectFile, Projects: []string{"web"}, RepoPath: repo})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}
