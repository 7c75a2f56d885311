package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"
	"golang.org/x/mod/semver"

	"nonstop-pack/internal/shared"
	"nonstop-pack/internal/types"
)

var (
	erlangVersionPattern = regexp.MustCompile(`[{]\W?vsn[,]\W?"([0-9.]+)"`)
	dotnetVersionPattern = regexp.MustCompile(`(?m)^\[assembly:\W?[aA]ssemblyVersion(Attribute)?\W?\(\W?"([0-9.]*)"\W*$`)
	debianHeaderPattern  = regexp.MustCompile(`(?m)^\S+\s+\(([^)]+)\)`)
	leadingNumeric       = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*`)
)

// versionFileNames maps each ecosystem to the file name (or name glob)
// that declares its version.
var versionFileNames = map[types.EcosystemKind]string{
	types.EcosystemNode:   "package.json",
	types.EcosystemErlang: "*.app.src",
	types.EcosystemDotNet: "AssemblyInfo.cs",
	types.EcosystemPython: "pyproject.toml",
	types.EcosystemRust:   "Cargo.toml",
	types.EcosystemDebian: "debian/changelog",
}

// VersionFilePatterns returns the glob patterns, relative to a project
// root, that locate the version file of kind at any depth.
func VersionFilePatterns(kind types.EcosystemKind) []string {
	name, ok := versionFileNames[kind]
	if !ok {
		return nil
	}
	return []string{name, "**/" + name}
}

// KindForFile infers the ecosystem from a version file path.
func KindForFile(path string) (types.EcosystemKind, bool) {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	switch {
	case base == "package.json":
		return types.EcosystemNode, true
	case strings.HasSuffix(base, ".app.src"):
		return types.EcosystemErlang, true
	case base == "AssemblyInfo.cs":
		return types.EcosystemDotNet, true
	case base == "pyproject.toml":
		return types.EcosystemPython, true
	case base == "Cargo.toml":
		return types.EcosystemRust, true
	case base == "changelog" && strings.HasSuffix(slashed, "debian/changelog"):
		return types.EcosystemDebian, true
	}
	return "", false
}

// ExtractVersion reads the declared version out of a version file's
// content. Pre-release and build qualifiers are stripped so the result is
// a plain dotted version.
func ExtractVersion(kind types.EcosystemKind, content []byte) (string, error) {
	switch kind {
	case types.EcosystemNode:
		return nodeVersion(content)
	case types.EcosystemErlang:
		return submatch(erlangVersionPattern, content, 1, "vsn tuple")
	case types.EcosystemDotNet:
		return submatch(dotnetVersionPattern, content, 2, "AssemblyVersion attribute")
	case types.EcosystemPython:
		return pythonVersion(content)
	case types.EcosystemRust:
		return rustVersion(content)
	case types.EcosystemDebian:
		return debianVersion(content)
	default:
		return "", shared.VersionParseError(fmt.Sprintf("unsupported ecosystem %q", kind), nil)
	}
}

func submatch(pattern *regexp.Regexp, content []byte, group int, what string) (string, error) {
	matches := pattern.FindSubmatch(content)
	if matches == nil || len(matches[group]) == 0 {
		return "", shared.VersionParseError(what+" not found", nil)
	}
	return string(matches[group]), nil
}

func nodeVersion(content []byte) (string, error) {
	var manifest struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(content, &manifest); err != nil {
		return "", shared.VersionParseError("invalid package.json", err)
	}
	version, _, _ := strings.Cut(manifest.Version, "-")
	version, _, _ = strings.Cut(version, "+")
	if version == "" {
		return "", shared.VersionParseError("package.json has no version", nil)
	}
	return version, nil
}

func pythonVersion(content []byte) (string, error) {
	var manifest struct {
		Project struct {
			Version string `toml:"version"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Version string `toml:"version"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if _, err := toml.NewDecoder(bytes.NewReader(content)).Decode(&manifest); err != nil {
		return "", shared.VersionParseError("invalid pyproject.toml", err)
	}
	raw := manifest.Project.Version
	if raw == "" {
		raw = manifest.Tool.Poetry.Version
	}
	if raw == "" {
		return "", shared.VersionParseError("pyproject.toml has no version", nil)
	}
	parsed, err := pep440.Parse(raw)
	if err != nil {
		return "", shared.VersionParseError(fmt.Sprintf("invalid PEP 440 version %q", raw), err)
	}
	base := parsed.BaseVersion()
	if _, release, ok := strings.Cut(base, "!"); ok {
		base = release
	}
	return base, nil
}

func rustVersion(content []byte) (string, error) {
	var manifest struct {
		Package struct {
			Version string `toml:"version"`
		} `toml:"package"`
	}
	if _, err := toml.NewDecoder(bytes.NewReader(content)).Decode(&manifest); err != nil {
		return "", shared.VersionParseError("invalid Cargo.toml", err)
	}
	raw := manifest.Package.Version
	if raw == "" {
		return "", shared.VersionParseError("Cargo.toml has no package version", nil)
	}
	canonical := "v" + raw
	if !semver.IsValid(canonical) {
		return "", shared.VersionParseError(fmt.Sprintf("invalid crate version %q", raw), nil)
	}
	core := semver.Canonical(canonical)
	return strings.TrimPrefix(strings.TrimSuffix(core, semver.Prerelease(core)), "v"), nil
}

func debianVersion(content []byte) (string, error) {
	matches := debianHeaderPattern.FindSubmatch(content)
	if matches == nil {
		return "", shared.VersionParseError("changelog entry not found", nil)
	}
	parsed, err := debversion.NewVersion(string(matches[1]))
	if err != nil {
		return "", shared.VersionParseError(fmt.Sprintf("invalid Debian version %q", matches[1]), err)
	}
	upstream := leadingNumeric.FindString(parsed.Version())
	if upstream == "" {
		return "", shared.VersionParseError(fmt.Sprintf("Debian version %q has no numeric upstream part", matches[1]), nil)
	}
	return upstream, nil
}

// Template returns the POSIX extended regular expression that matches the
// line declaring version in a version file of kind. History searches use
// it to find the commit that introduced the version.
func Template(kind types.EcosystemKind, version string) string {
	quoted := regexp.QuoteMeta(version)
	switch kind {
	case types.EcosystemNode:
		return `"version"[[:space:]]*:[[:space:]]*"` + quoted + `["+-]`
	case types.EcosystemErlang:
		return `[{][[:space:]]*vsn,[[:space:]]*"` + quoted + `"`
	case types.EcosystemDotNet:
		return `[aA]ssemblyVersion(Attribute)?[[:space:]]*[(][[:space:]]*"` + quoted + `"`
	case types.EcosystemPython, types.EcosystemRust:
		return `version[[:space:]]*=[[:space:]]*["']` + quoted + `[^0-9]`
	case types.EcosystemDebian:
		return `[(]([0-9]+:)?` + quoted + `[^0-9]`
	default:
		return quoted
	}
}
