package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"nonstop-pack/internal/core"
	"nonstop-pack/internal/ports"
	"nonstop-pack/internal/shared"
	"nonstop-pack/internal/types"
)

const (
	defaultProjectFile = "nonstop.yaml"
	defaultOutputDir   = "packages"
	defaultPackPattern = "**"
)

// Info assembles the artifact identity of one project. A project whose
// version or build number cannot be derived is named 0.0.0 build 0.
func (s Service) Info(ctx context.Context, req InfoRequest) (InfoResult, error) {
	project := strings.TrimSpace(req.Project)
	if project == "" {
		return InfoResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project name is required")
	}
	repoPath := strings.TrimSpace(req.RepoPath)
	if repoPath == "" {
		repoPath = "."
	}
	engine := s.provenance()
	identity, err := engine.Identity(ctx, repoPath)
	if err != nil {
		return InfoResult{}, err
	}
	projectPath := req.Config.Path
	if !filepath.IsAbs(projectPath) {
		projectPath = filepath.Join(identity.Path, projectPath)
	}
	version, build := s.currentVersion(ctx, engine, identity.Path, projectPath, req.Config.VersionFile)

	outputDir, err := resolveOutputDir(req.OutputDir)
	if err != nil {
		return InfoResult{}, err
	}
	platform := s.Platform.Describe(req.Config.OS)
	record := types.ArtifactRecord{
		Project:      project,
		Owner:        identity.Owner,
		Branch:       identity.Branch,
		Slug:         identity.Slug(),
		Version:      version,
		Build:        strconv.Itoa(build),
		Platform:     platform.Platform,
		OSName:       platform.OSName,
		OSVersion:    platform.OSVersion,
		Architecture: platform.Architecture,
	}
	file, err := core.Encode(record)
	if err != nil {
		return InfoResult{}, err
	}
	assert.NotEmpty(ctx, file, "encoded artifact name must be set")
	record.File = file
	record.Relative = core.RelativeDirectory(record)
	record.Directory = outputDir
	record.FullPath = filepath.Join(outputDir, file)

	pattern := req.Config.Pack.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = defaultPackPattern
	}
	log.Ctx(ctx).Debug().
		Str("project", project).
		Str("version", record.ComposedVersion()).
		Str("output", record.FullPath).
		Msg("package info assembled")
	return InfoResult{
		Name: strings.TrimSuffix(file, types.ArtifactExtension),
		Package: types.PackageInfo{
			Project:    project,
			Path:       projectPath,
			Output:     record.FullPath,
			Pattern:    pattern,
			Commit:     identity.Commit,
			Record:     record,
			Repository: identity,
		},
	}, nil
}

func (s Service) currentVersion(ctx context.Context, engine core.ProvenanceEngine, repoPath string, projectPath string, versionFile string) (string, int) {
	decl, err := s.declaration(projectPath, versionFile)
	build := types.FallbackBuild
	if err == nil {
		build, err = engine.BuildNumber(ctx, repoPath, decl)
	}
	if err != nil {
		log.Ctx(ctx).Debug().
			Err(err).
			Str("path", projectPath).
			Msg("no version found, using " + types.FallbackVersion)
		return types.FallbackVersion, types.FallbackBuild
	}
	return decl.Version, build
}

func (s Service) declaration(projectPath string, versionFile string) (types.VersionDeclaration, error) {
	if strings.TrimSpace(versionFile) != "" {
		return s.VersionSource.Read(projectPath, versionFile)
	}
	return s.VersionSource.Locate(projectPath)
}

func resolveOutputDir(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = defaultOutputDir
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid output directory %q", dir)).
			WithCause(err)
	}
	return abs, nil
}

// Pack builds one artifact per selected project of the project file. With
// no selection every project is packed, in name order.
func (s Service) Pack(ctx context.Context, req PackRequest) (PackResult, error) {
	projectFile := strings.TrimSpace(req.ProjectFile)
	if projectFile == "" {
		projectFile = defaultProjectFile
	}
	file, err := s.Projects.LoadProjects(projectFile)
	if err != nil {
		return PackResult{}, err
	}
	names := req.Projects
	if len(names) == 0 {
		for name := range file.Projects {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	result := PackResult{}
	for _, name := range names {
		config, ok := file.Projects[name]
		if !ok {
			return PackResult{}, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("project %q is not defined in %s", name, projectFile))
		}
		info, err := s.Info(ctx, InfoRequest{
			Project:   name,
			Config:    config,
			RepoPath:  req.RepoPath,
			OutputDir: req.OutputDir,
		})
		if err != nil {
			return PackResult{}, err
		}
		outcome, err := s.CreatePackage(ctx, CreatePackageRequest{
			Pattern: info.Package.Pattern,
			Source:  info.Package.Path,
			Target:  info.Package.Output,
		})
		if err != nil {
			return PackResult{}, err
		}
		log.Ctx(ctx).Info().
			Str("project", name).
			Str("artifact", info.Package.Record.File).
			Int("files", len(outcome.Files)).
			Msg("package created")
		result.Artifacts = append(result.Artifacts, PackedArtifact{
			Package: info.Package,
			Files:   outcome.Files,
			Digest:  outcome.Digest,
		})
	}
	return result, nil
}

// CreatePackage archives every file under Source matching the
// comma-separated Pattern into Target. Nothing is written when no file
// matches.
func (s Service) CreatePackage(ctx context.Context, req CreatePackageRequest) (types.PackageOutcome, error) {
	patterns := shared.SplitPatterns(req.Pattern)
	if len(patterns) == 0 {
		return types.PackageOutcome{}, shared.NoFilesMatchedError(req.Pattern, req.Source)
	}
	source, err := filepath.Abs(req.Source)
	if err != nil {
		return types.PackageOutcome{}, shared.InvalidPathError(req.Source, err)
	}
	target, err := filepath.Abs(req.Target)
	if err != nil {
		return types.PackageOutcome{}, shared.InvalidPathError(req.Target, err)
	}
	files, err := s.Matcher.Expand(source, patterns, nil)
	if err != nil {
		return types.PackageOutcome{}, err
	}
	entries := make([]ports.ArchiveEntry, 0, len(files))
	names := make([]string, 0, len(files))
	for _, file := range files {
		// A previous artifact may sit inside the packed tree.
		if file == target {
			continue
		}
		rel, err := filepath.Rel(source, file)
		if err != nil {
			return types.PackageOutcome{}, shared.InvalidPathError(file, err)
		}
		name := filepath.ToSlash(rel)
		entries = append(entries, ports.ArchiveEntry{Path: file, Name: name})
		names = append(names, name)
	}
	if len(entries) == 0 {
		return types.PackageOutcome{}, shared.NoFilesMatchedError(req.Pattern, req.Source)
	}
	digest, err := s.ArchiveWriter.Write(ctx, entries, target)
	if err != nil {
		return types.PackageOutcome{}, err
	}
	return types.PackageOutcome{Files: names, Digest: digest}, nil
}
