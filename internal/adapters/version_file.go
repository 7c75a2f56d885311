package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"nonstop-pack/internal/core"
	"nonstop-pack/internal/ports"
	"nonstop-pack/internal/shared"
	"nonstop-pack/internal/types"
)

// versionSearchExcludes are dependency and build output directories that
// can carry version files of other projects.
var versionSearchExcludes = []string{
	"node_modules",
	"bower_components",
	"_build",
	"deps",
	"target",
	"vendor",
	"bin",
	"obj",
	".venv",
}

// VersionFileAdapter locates the version file of a project and reads the
// declared version from it.
type VersionFileAdapter struct {
	Matcher ports.FileMatcherPort
}

func NewVersionFileAdapter(matcher ports.FileMatcherPort) VersionFileAdapter {
	return VersionFileAdapter{Matcher: matcher}
}

// Locate tries each ecosystem in priority order. Within an ecosystem the
// shallowest match wins, ties broken by path. A candidate that declares no
// version, such as a workspace manifest, is skipped; when every candidate
// is skipped the first parse failure is returned.
func (a VersionFileAdapter) Locate(projectPath string) (types.VersionDeclaration, error) {
	root, err := filepath.Abs(projectPath)
	if err != nil {
		return types.VersionDeclaration{}, shared.InvalidPathError(projectPath, err)
	}
	if info, err := os.Stat(root); err != nil {
		return types.VersionDeclaration{}, shared.InvalidPathError(projectPath, err)
	} else if !info.IsDir() {
		return types.VersionDeclaration{}, shared.InvalidPathError(projectPath, fmt.Errorf("not a directory"))
	}
	var firstErr error
	for _, kind := range types.EcosystemSearchOrder {
		matches, err := a.Matcher.Expand(root, core.VersionFilePatterns(kind), versionSearchExcludes)
		if err != nil {
			return types.VersionDeclaration{}, err
		}
		slices.SortStableFunc(matches, func(x string, y string) int {
			if dx, dy := pathDepth(x), pathDepth(y); dx != dy {
				return dx - dy
			}
			return strings.Compare(x, y)
		})
		for _, match := range matches {
			decl, err := a.read(match, kind)
			if err != nil {
				log.Debug().Err(err).Str("file", match).Msg("skipping version file candidate")
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			log.Debug().Str("kind", string(kind)).Str("file", match).Msg("version file located")
			return decl, nil
		}
	}
	if firstErr != nil {
		return types.VersionDeclaration{}, firstErr
	}
	return types.VersionDeclaration{}, shared.VersionNotFoundError(root)
}

// Read loads an explicitly configured version file, relative to the
// project path unless absolute.
func (a VersionFileAdapter) Read(projectPath string, versionFile string) (types.VersionDeclaration, error) {
	path := versionFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(projectPath, versionFile)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return types.VersionDeclaration{}, shared.InvalidPathError(path, err)
	}
	kind, ok := core.KindForFile(abs)
	if !ok {
		return types.VersionDeclaration{}, shared.VersionParseError(fmt.Sprintf("unsupported version file %s", versionFile), nil)
	}
	return a.read(abs, kind)
}

func (a VersionFileAdapter) read(path string, kind types.EcosystemKind) (types.VersionDeclaration, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return types.VersionDeclaration{}, shared.VersionNotFoundError(path)
	}
	version, err := core.ExtractVersion(kind, content)
	if err != nil {
		return types.VersionDeclaration{}, err
	}
	return types.VersionDeclaration{FilePath: path, Kind: kind, Version: version}, nil
}

func pathDepth(path string) int {
	return strings.Count(filepath.ToSlash(path), "/")
}

var _ ports.VersionSourcePort = VersionFileAdapter{}
