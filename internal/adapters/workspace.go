package adapters

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gobwas/glob"

	"nonstop-pack/internal/ports"
)

// GlobMatcherAdapter expands glob patterns over a directory tree. Patterns
// are slash separated and relative to the base: * stays within one path
// segment, ** spans any number of segments including none.
type GlobMatcherAdapter struct{}

func NewGlobMatcherAdapter() GlobMatcherAdapter {
	return GlobMatcherAdapter{}
}

func (a GlobMatcherAdapter) Expand(base string, patterns []string, excludes []string) ([]string, error) {
	if base == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("glob base directory is empty")
	}
	root, err := filepath.Abs(base)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid glob base %q", base)).
			WithCause(err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("glob base %q not found", base)).
			WithCause(err)
	}
	if !info.IsDir() {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("glob base %q is not a directory", base))
	}
	include, err := compileGlobs(patterns)
	if err != nil {
		return nil, err
	}
	exclude, err := compileGlobs(excludes)
	if err != nil {
		return nil, err
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if shouldSkipWorkspaceDir(d.Name()) || matchesAny(exclude, d.Name(), rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if matchesAny(exclude, d.Name(), rel) {
			return nil
		}
		if matchesAny(include, rel) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to scan workspace").
			WithCause(err)
	}
	return paths, nil
}

func shouldSkipWorkspaceDir(name string) bool {
	return name == ".git"
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	var compiled []glob.Glob
	for _, pattern := range patterns {
		normalized := normalizePattern(pattern)
		if normalized == "" {
			continue
		}
		for _, variant := range globstarVariants(normalized) {
			g, err := glob.Compile(variant, '/')
			if err != nil {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("invalid glob pattern %q", pattern)).
					WithCause(err)
			}
			compiled = append(compiled, g)
		}
	}
	return compiled, nil
}

func normalizePattern(pattern string) string {
	pattern = filepath.ToSlash(strings.TrimSpace(pattern))
	for strings.HasPrefix(pattern, "./") {
		pattern = strings.TrimPrefix(pattern, "./")
	}
	return strings.TrimPrefix(pattern, "/")
}

// globstarVariants lets every "**/" also match zero directories, which
// the glob library alone does not do.
func globstarVariants(pattern string) []string {
	idx := strings.Index(pattern, "**/")
	if idx < 0 {
		return []string{pattern}
	}
	head, tail := pattern[:idx], pattern[idx+len("**/"):]
	var variants []string
	for _, rest := range globstarVariants(tail) {
		variants = append(variants, head+"**/"+rest, head+rest)
	}
	return variants
}

func matchesAny(globs []glob.Glob, candidates ...string) bool {
	for _, g := range globs {
		for _, candidate := range candidates {
			if g.Match(candidate) {
				return true
			}
		}
	}
	return false
}

var _ ports.FileMatcherPort = GlobMatcherAdapter{}
