package core

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"nonstop-pack/internal/shared"
	"nonstop-pack/internal/types"
)

// Delimiter separates identity fields in an artifact filename.
const Delimiter = "~"

const (
	fieldsWithoutSlug = 9
	fieldsWithSlug    = 10
	slugPosition      = 3
)

var slugPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}$`)

// IsSlug reports whether value has the shape of an artifact slug.
func IsSlug(value string) bool {
	return slugPattern.MatchString(value)
}

// Encode renders the canonical filename for a record. The slug segment is
// omitted when empty; the build segment is always present, empty for
// release artifacts.
func Encode(record types.ArtifactRecord) (string, error) {
	required := []struct {
		name  string
		value string
	}{
		{"project", record.Project},
		{"owner", record.Owner},
		{"branch", record.Branch},
		{"version", record.Version},
		{"platform", record.Platform},
		{"osName", record.OSName},
		{"osVersion", record.OSVersion},
		{"architecture", record.Architecture},
	}
	for _, field := range required {
		if field.value == "" {
			return "", shared.MalformedArtifactError(record.Project, field.name+" is empty")
		}
		if err := checkSegment(record.Project, field.name, field.value); err != nil {
			return "", err
		}
	}
	if err := checkSegment(record.Project, "build", record.Build); err != nil {
		return "", err
	}
	if record.Slug != "" && !IsSlug(record.Slug) {
		return "", shared.MalformedArtifactError(record.Project, "slug must be 8 hex characters")
	}
	// A slug-shaped value in the version position would be read back as a slug.
	if IsSlug(record.Version) {
		return "", shared.MalformedArtifactError(record.Project, "version is indistinguishable from a slug")
	}

	parts := []string{record.Project, record.Owner, record.Branch}
	if record.Slug != "" {
		parts = append(parts, record.Slug)
	}
	parts = append(parts,
		record.Version,
		record.Build,
		record.Platform,
		record.OSName,
		record.OSVersion,
		record.Architecture,
	)
	return strings.Join(parts, Delimiter) + types.ArtifactExtension, nil
}

func checkSegment(name string, field string, value string) error {
	if strings.Contains(value, Delimiter) || strings.ContainsAny(value, `/\`) {
		if field == "branch" {
			return shared.MalformedArtifactError(name, fmt.Sprintf(
				"branch %q contains a reserved character; pass --branch or set DRONE_BRANCH/CI_BRANCH to a name without '/' or '~'",
				value))
		}
		return shared.MalformedArtifactError(name, field+" contains a reserved character")
	}
	return nil
}

// fieldLayout holds the segment index of every positional field once
// slug presence has been decided.
type fieldLayout struct {
	slug    bool
	version int
}

func (l fieldLayout) expected() int {
	if l.slug {
		return fieldsWithSlug
	}
	return fieldsWithoutSlug
}

// detectLayout is the first pass of the parser: it decides whether the
// optional slug is present, which fixes the position of every later field.
func detectLayout(parts []string) fieldLayout {
	if len(parts) > slugPosition && IsSlug(parts[slugPosition]) {
		return fieldLayout{slug: true, version: slugPosition + 1}
	}
	return fieldLayout{version: slugPosition}
}

func splitName(filename string) ([]string, fieldLayout, error) {
	base := filepath.Base(filename)
	if !strings.HasSuffix(base, types.ArtifactExtension) {
		return nil, fieldLayout{}, shared.MalformedArtifactError(base, "missing "+types.ArtifactExtension+" extension")
	}
	parts := strings.Split(strings.TrimSuffix(base, types.ArtifactExtension), Delimiter)
	layout := detectLayout(parts)
	if len(parts) != layout.expected() {
		return nil, fieldLayout{}, shared.MalformedArtifactError(base, "unexpected number of fields")
	}
	if parts[layout.version] == "" {
		return nil, fieldLayout{}, shared.MalformedArtifactError(base, "version is empty")
	}
	return parts, layout, nil
}

// Decode parses an artifact filename into a record rooted at root. When
// directoryHint is set it is used as the containing directory instead of
// root/project-owner-branch.
func Decode(root string, filename string, directoryHint string) (types.ArtifactRecord, error) {
	parts, layout, err := splitName(filename)
	if err != nil {
		return types.ArtifactRecord{}, err
	}
	at := func(offset int) string {
		return parts[layout.version+offset]
	}
	record := types.ArtifactRecord{
		Project:      parts[0],
		Owner:        parts[1],
		Branch:       parts[2],
		Version:      at(0),
		Build:        at(1),
		Platform:     at(2),
		OSName:       at(3),
		OSVersion:    at(4),
		Architecture: at(5),
		File:         filepath.Base(filename),
	}
	if layout.slug {
		record.Slug = parts[slugPosition]
	}
	record.Relative = RelativeDirectory(record)
	record.Directory = directoryHint
	if record.Directory == "" {
		record.Directory = filepath.Join(root, record.Relative)
	}
	record.FullPath = filepath.Join(record.Directory, record.File)
	return record, nil
}

// RelativeDirectory is the project-owner-branch directory name used to
// group artifacts under a root.
func RelativeDirectory(record types.ArtifactRecord) string {
	return strings.Join([]string{record.Project, record.Owner, record.Branch}, "-")
}

// VersionToken reads the composed version from a filename without
// building a full record.
func VersionToken(filename string) (string, error) {
	parts, layout, err := splitName(filename)
	if err != nil {
		return "", err
	}
	version, build := parts[layout.version], parts[layout.version+1]
	if build == "" {
		return version, nil
	}
	return version + "-" + build, nil
}

// Release derives the release record of a numbered build: the build is
// blanked and the file name and path are re-encoded.
func Release(record types.ArtifactRecord) (types.ArtifactRecord, error) {
	if record.IsRelease() {
		return types.ArtifactRecord{}, shared.MalformedArtifactError(record.File, "artifact is already a release")
	}
	release := record
	release.Build = ""
	file, err := Encode(release)
	if err != nil {
		return types.ArtifactRecord{}, err
	}
	release.File = file
	release.FullPath = filepath.Join(record.Directory, file)
	return release, nil
}
